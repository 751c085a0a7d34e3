package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"vibration-logger/pkg/button"
	"vibration-logger/pkg/config"
	"vibration-logger/pkg/hw"
	"vibration-logger/pkg/led"
	"vibration-logger/pkg/sensor"
	"vibration-logger/pkg/system"
)

// runAppliance assembles the peripherals and runs the coordinator until a
// POWER hold or an interrupt shuts it down. A nil return is a normal exit.
// Only an unrecoverable startup failure of a mandatory peripheral errors out.
func runAppliance(cfg *config.Config, mock bool) error {
	runID := uuid.NewString()
	slog.Info("vibration logger starting", "run_id", runID, "mock", mock)

	handle := hw.Open()
	defer handle.Close()

	per := system.Peripherals{
		Begin: button.New("begin", handle.InputPin(cfg.Pins.BeginButton),
			button.Config{ReportOnPress: true}),
		Power: button.New("power", handle.InputPin(cfg.Pins.PowerButton),
			button.Config{HoldThreshold: cfg.Measurement.PowerHoldThreshold}),
		IdleLED:      led.NewPinLight("idle", handle.OutputPin(cfg.Pins.IdleLED)),
		MeasuringLED: led.NewPinLight("measuring", handle.OutputPin(cfg.Pins.MeasuringLED)),
		CopyLED:      led.NewPinLight("copy", handle.OutputPin(cfg.Pins.CopyLED)),
	}

	if mock {
		per.Accel = sensor.NewMockAccelerometer()
		per.Range = sensor.NewMockRangeFinder()
	} else {
		bus, err := handle.OpenI2C(cfg.I2C.Bus)
		if err != nil {
			return fmt.Errorf("accelerometer bus: %w", err)
		}
		accel, err := sensor.NewMMA8452(bus, cfg.I2C.AccelAddr, cfg.Loop.PeripheralTimeout)
		if err != nil {
			return fmt.Errorf("accelerometer: %w", err)
		}
		per.Accel = accel

		// The rangefinder is optional: a missing or broken port just means
		// no distance column.
		if cfg.Rangefinder.Port != "" {
			rng, err := sensor.NewTFLuna(cfg.Rangefinder.Port, cfg.Rangefinder.BaudRate, cfg.Rangefinder.Staleness)
			if err != nil {
				slog.Warn("rangefinder unavailable, distance disabled",
					"port", cfg.Rangefinder.Port, "error", err)
			} else {
				per.Range = rng
			}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for sig := range sigCh {
			slog.Info("received signal", "signal", sig.String())
			cancel() // idempotent against repeated signals
		}
	}()

	sys := system.New(cfg, per)
	sys.Run(ctx)

	slog.Info("vibration logger stopped", "run_id", runID, "readings", sys.Store().Len())
	return nil
}
