package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the static appliance configuration. Everything here is
// loaded once at startup; nothing is runtime-reconfigurable.
type Config struct {
	Pins        PinsConfig        `yaml:"pins"`
	I2C         I2CConfig         `yaml:"i2c"`
	Rangefinder RangefinderConfig `yaml:"rangefinder"`
	Measurement MeasurementConfig `yaml:"measurement"`
	Loop        LoopConfig        `yaml:"loop"`
	USB         USBConfig         `yaml:"usb"`
	Export      ExportConfig      `yaml:"export"`
}

// PinsConfig names the GPIO pins by their periph.io pin names.
type PinsConfig struct {
	BeginButton  string `yaml:"begin_button"`
	PowerButton  string `yaml:"power_button"`
	IdleLED      string `yaml:"idle_led"`
	MeasuringLED string `yaml:"measuring_led"`
	CopyLED      string `yaml:"copy_led"`
}

// I2CConfig contains the accelerometer bus configuration.
type I2CConfig struct {
	Bus       string `yaml:"bus"` // empty selects the first available bus
	AccelAddr uint16 `yaml:"accel_address"`
}

// RangefinderConfig contains the optional UART time-of-flight sensor
// configuration. An empty port means the sensor is absent.
type RangefinderConfig struct {
	Port      string        `yaml:"port"`
	BaudRate  int           `yaml:"baud_rate"`
	Staleness time.Duration `yaml:"staleness"` // max age of a cached frame
}

// MeasurementConfig contains sampling and button timing parameters.
type MeasurementConfig struct {
	SamplingInterval   time.Duration `yaml:"sampling_interval"`
	MeasuringLEDBlink  time.Duration `yaml:"measuring_led_blink_interval"`
	PowerHoldThreshold time.Duration `yaml:"power_hold_threshold"`
}

// LoopConfig contains the coordinator scheduling parameters.
type LoopConfig struct {
	TickPeriod        time.Duration `yaml:"tick_period"`
	PeripheralTimeout time.Duration `yaml:"peripheral_timeout"`
}

// USBConfig contains USB export detection parameters.
type USBConfig struct {
	VolumeLabel  string        `yaml:"volume_label"`
	MountDirs    []string      `yaml:"mount_dirs"` // probed in order, first match wins
	PollInterval time.Duration `yaml:"poll_interval"`
	CopyLEDBlink time.Duration `yaml:"copy_led_blink_interval"`
}

// ExportConfig contains the canonical local export destination.
type ExportConfig struct {
	LocalPath string `yaml:"local_path"`
}

// Default returns a default configuration with sensible values for a
// Raspberry Pi with the reference wiring.
func Default() *Config {
	return &Config{
		Pins: PinsConfig{
			BeginButton:  "GPIO17",
			PowerButton:  "GPIO27",
			IdleLED:      "GPIO5",
			MeasuringLED: "GPIO6",
			CopyLED:      "GPIO13",
		},
		I2C: I2CConfig{
			Bus:       "", // first available
			AccelAddr: 0x1C,
		},
		Rangefinder: RangefinderConfig{
			Port:      "", // absent by default
			BaudRate:  115200,
			Staleness: 500 * time.Millisecond,
		},
		Measurement: MeasurementConfig{
			SamplingInterval:   1 * time.Second,
			MeasuringLEDBlink:  500 * time.Millisecond,
			PowerHoldThreshold: 2 * time.Second,
		},
		Loop: LoopConfig{
			TickPeriod:        50 * time.Millisecond,
			PeripheralTimeout: 150 * time.Millisecond,
		},
		USB: USBConfig{
			VolumeLabel:  "DATALOG",
			MountDirs:    []string{"/media/pi", "/media/usb", "/run/media/pi"},
			PollInterval: 1 * time.Second,
			CopyLEDBlink: 200 * time.Millisecond,
		},
		Export: ExportConfig{
			LocalPath: "/home/pi/readings.csv",
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Pins.BeginButton == "" {
		c.Pins.BeginButton = def.Pins.BeginButton
	}
	if c.Pins.PowerButton == "" {
		c.Pins.PowerButton = def.Pins.PowerButton
	}
	if c.Pins.IdleLED == "" {
		c.Pins.IdleLED = def.Pins.IdleLED
	}
	if c.Pins.MeasuringLED == "" {
		c.Pins.MeasuringLED = def.Pins.MeasuringLED
	}
	if c.Pins.CopyLED == "" {
		c.Pins.CopyLED = def.Pins.CopyLED
	}

	if c.I2C.AccelAddr == 0 {
		c.I2C.AccelAddr = def.I2C.AccelAddr
	}

	if c.Rangefinder.BaudRate == 0 {
		c.Rangefinder.BaudRate = def.Rangefinder.BaudRate
	}
	if c.Rangefinder.Staleness == 0 {
		c.Rangefinder.Staleness = def.Rangefinder.Staleness
	}

	if c.Measurement.SamplingInterval == 0 {
		c.Measurement.SamplingInterval = def.Measurement.SamplingInterval
	}
	if c.Measurement.MeasuringLEDBlink == 0 {
		c.Measurement.MeasuringLEDBlink = def.Measurement.MeasuringLEDBlink
	}
	if c.Measurement.PowerHoldThreshold == 0 {
		c.Measurement.PowerHoldThreshold = def.Measurement.PowerHoldThreshold
	}

	if c.Loop.TickPeriod == 0 {
		c.Loop.TickPeriod = def.Loop.TickPeriod
	}
	if c.Loop.PeripheralTimeout == 0 {
		c.Loop.PeripheralTimeout = def.Loop.PeripheralTimeout
	}

	if c.USB.VolumeLabel == "" {
		c.USB.VolumeLabel = def.USB.VolumeLabel
	}
	if len(c.USB.MountDirs) == 0 {
		c.USB.MountDirs = def.USB.MountDirs
	}
	if c.USB.PollInterval == 0 {
		c.USB.PollInterval = def.USB.PollInterval
	}
	if c.USB.CopyLEDBlink == 0 {
		c.USB.CopyLEDBlink = def.USB.CopyLEDBlink
	}

	if c.Export.LocalPath == "" {
		c.Export.LocalPath = def.Export.LocalPath
	}
}
