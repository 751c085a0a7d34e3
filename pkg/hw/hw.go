// Package hw owns the peripheral handle for the appliance: GPIO pins and the
// I2C bus, backed by periph.io when the hardware is present and by simulated
// in-memory pins when it is not.
package hw

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// ErrPeripheralInit indicates that a hardware peripheral is absent or
// misconfigured. GPIO degrades to simulated pins; callers decide whether
// anything else is fatal.
var ErrPeripheralInit = errors.New("peripheral unavailable")

// Pin is the minimal digital pin capability used by buttons and LEDs.
type Pin interface {
	Name() string
	Read() (bool, error)
	Write(level bool) error
}

// Handle owns the process-wide peripheral state. Create one at startup, pass
// it to whoever needs pins, and Close it exactly once on the way out.
type Handle struct {
	simulated bool

	closeOnce sync.Once
	outputs   []Pin
	buses     []i2c.BusCloser
}

// Open initialises the GPIO host drivers. It never fails: if no hardware is
// present, every pin handed out afterwards is a simulated in-memory level,
// logged once here.
func Open() *Handle {
	h := &Handle{}
	if _, err := host.Init(); err != nil {
		slog.Warn("GPIO hardware unavailable, using simulated pins", "error", err)
		h.simulated = true
	}
	return h
}

// Simulated reports whether the handle degraded to in-memory pins.
func (h *Handle) Simulated() bool { return h.simulated }

// InputPin resolves a named pin configured as an input. An unknown name
// degrades to a simulated pin that always reads low.
func (h *Handle) InputPin(name string) Pin {
	if h.simulated {
		return NewSimPin(name)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		slog.Warn("input pin not found, simulating", "pin", name)
		return NewSimPin(name)
	}
	if err := p.In(gpio.PullDown, gpio.NoEdge); err != nil {
		slog.Warn("input pin configure failed, simulating", "pin", name, "error", err)
		return NewSimPin(name)
	}
	return &gpioPin{pin: p}
}

// OutputPin resolves a named pin configured as an output, driven low
// initially. The pin is driven low again when the handle is closed.
func (h *Handle) OutputPin(name string) Pin {
	var out Pin
	if h.simulated {
		out = NewSimPin(name)
	} else if p := gpioreg.ByName(name); p == nil {
		slog.Warn("output pin not found, simulating", "pin", name)
		out = NewSimPin(name)
	} else if err := p.Out(gpio.Low); err != nil {
		slog.Warn("output pin configure failed, simulating", "pin", name, "error", err)
		out = NewSimPin(name)
	} else {
		out = &gpioPin{pin: p}
	}
	h.outputs = append(h.outputs, out)
	return out
}

// OpenI2C opens the named I2C bus (empty name selects the first available).
// There is no simulated fallback here: the accelerometer is a mandatory
// peripheral and its absence is the caller's startup failure to report.
func (h *Handle) OpenI2C(name string) (i2c.Bus, error) {
	if h.simulated {
		return nil, fmt.Errorf("open i2c %q: %w", name, ErrPeripheralInit)
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open i2c %q: %w", name, err)
	}
	h.buses = append(h.buses, bus)
	return bus, nil
}

// Close releases everything the handle owns: output pins are driven low and
// I2C buses closed. Safe to call more than once; only the first call acts.
func (h *Handle) Close() error {
	h.closeOnce.Do(func() {
		for _, p := range h.outputs {
			if err := p.Write(false); err != nil {
				slog.Warn("failed to drive pin low on close", "pin", p.Name(), "error", err)
			}
		}
		for _, b := range h.buses {
			if err := b.Close(); err != nil {
				slog.Warn("failed to close i2c bus", "error", err)
			}
		}
	})
	return nil
}

// gpioPin adapts a periph.io pin to the Pin interface.
type gpioPin struct {
	pin gpio.PinIO
}

func (p *gpioPin) Name() string { return p.pin.Name() }

func (p *gpioPin) Read() (bool, error) {
	return bool(p.pin.Read()), nil
}

func (p *gpioPin) Write(level bool) error {
	return p.pin.Out(gpio.Level(level))
}

// SimPin is an in-memory pin level with no physical effect. It backs the
// degraded mode and doubles as the test double for buttons and LEDs.
type SimPin struct {
	name  string
	level bool
}

// NewSimPin returns a simulated pin reading low.
func NewSimPin(name string) *SimPin {
	return &SimPin{name: name}
}

func (p *SimPin) Name() string          { return p.name }
func (p *SimPin) Read() (bool, error)   { return p.level, nil }
func (p *SimPin) Write(level bool) error { p.level = level; return nil }

// SetLevel sets the raw level seen by subsequent reads.
func (p *SimPin) SetLevel(level bool) { p.level = level }
