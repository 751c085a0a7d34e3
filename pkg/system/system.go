// Package system is the event-driven coordinator: one single-threaded tick
// loop multiplexing button polling, the measurement state machine, LED
// animation, paced sensor sampling and USB export detection. All shared state
// is owned here and mutated only within a tick, so nothing needs locking.
package system

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"vibration-logger/pkg/button"
	"vibration-logger/pkg/config"
	"vibration-logger/pkg/led"
	"vibration-logger/pkg/sensor"
	"vibration-logger/pkg/state"
	"vibration-logger/pkg/store"
	"vibration-logger/pkg/usbwatch"
)

// Peripherals bundles the hardware-facing collaborators the coordinator
// drives. Range may be nil when no rangefinder is fitted.
type Peripherals struct {
	Begin *button.Button
	Power *button.Button

	IdleLED      led.Light
	MeasuringLED led.Light
	CopyLED      led.Light

	Accel sensor.Accelerometer
	Range sensor.RangeFinder
}

// System owns the measurement state, the sample store and the LED animation
// state machines, and schedules every duty on a fixed tick.
type System struct {
	cfg *config.Config
	per Peripherals

	machine   *state.Machine
	store     *store.Store
	blinker   *led.Blinker
	indicator *led.CopyIndicator
	usb       *usbwatch.Watcher

	lastSample   time.Time
	shutdown     bool
	teardownOnce sync.Once
}

// New wires up a coordinator from configuration and peripherals.
func New(cfg *config.Config, per Peripherals) *System {
	st := store.New()
	indicator := led.NewCopyIndicator(per.CopyLED, cfg.USB.CopyLEDBlink)

	return &System{
		cfg:       cfg,
		per:       per,
		machine:   state.New(),
		store:     st,
		blinker:   led.NewBlinker(per.MeasuringLED, cfg.Measurement.MeasuringLEDBlink),
		indicator: indicator,
		usb: usbwatch.New(usbwatch.Config{
			VolumeLabel:  cfg.USB.VolumeLabel,
			MountDirs:    cfg.USB.MountDirs,
			PollInterval: cfg.USB.PollInterval,
			LocalPath:    cfg.Export.LocalPath,
		}, st, indicator),
	}
}

// Store exposes the sample store (read-only use intended).
func (s *System) Store() *store.Store { return s.store }

// Run executes the tick loop until a POWER hold or context cancellation
// requests shutdown, then tears down. An external interrupt takes exactly the
// same teardown path as the POWER button.
func (s *System) Run(ctx context.Context) {
	s.per.IdleLED.TurnOn()
	slog.Info("system ready",
		"tick", s.cfg.Loop.TickPeriod,
		"sampling_interval", s.cfg.Measurement.SamplingInterval,
		"usb_label", s.cfg.USB.VolumeLabel)

	ticker := time.NewTicker(s.cfg.Loop.TickPeriod)
	defer ticker.Stop()

	for !s.shutdown {
		select {
		case <-ctx.Done():
			slog.Info("interrupt received, shutting down")
			s.requestShutdown()
		case now := <-ticker.C:
			s.Tick(now)
		}
	}

	s.Teardown()
}

// Tick runs one scheduler iteration. State machine transitions are applied
// before LED updates, so LED state never lags the triggering event by more
// than one tick.
func (s *System) Tick(now time.Time) {
	// BEGIN button: toggle measurement.
	if s.per.Begin.Poll(now) == button.Pressed {
		st := s.machine.Toggle()
		slog.Info("measurement toggled", "state", st.String())
		s.applyStateLEDs()
		if st == state.Measuring {
			// First sample lands one full interval after measurement starts.
			s.lastSample = now
		}
	}

	// POWER button: hold requests shutdown.
	if s.per.Power.Poll(now) == button.Held {
		slog.Info("power button held, shutting down")
		s.requestShutdown()
	}

	// LED animations: measuring LED blinks only while measuring, the copy
	// indicator always gets its update.
	if s.machine.IsMeasuring() {
		s.blinker.Update(now)
	}
	s.indicator.Update(now)

	// Paced sensor sampling.
	if s.machine.IsMeasuring() && s.samplingDue(now) {
		s.sample(now)
		s.lastSample = now
	}

	// USB hot-plug detection; the watcher paces itself.
	s.usb.Poll(now)
}

// requestShutdown force-stops any measurement and arms loop termination.
// Idempotent against repeated signals or holds within one run.
func (s *System) requestShutdown() {
	if s.machine.ForceStop() {
		slog.Info("measurement stopped")
		s.applyStateLEDs()
	}
	s.shutdown = true
}

// ShutdownRequested reports whether teardown has been armed.
func (s *System) ShutdownRequested() bool { return s.shutdown }

func (s *System) samplingDue(now time.Time) bool {
	return now.Sub(s.lastSample) >= s.cfg.Measurement.SamplingInterval
}

// applyStateLEDs makes the idle/measuring LEDs a pure function of the
// measurement state. The measuring LED is not turned on here; the blinker
// animates it on the following ticks.
func (s *System) applyStateLEDs() {
	if s.machine.IsMeasuring() {
		s.per.IdleLED.TurnOff()
	} else {
		s.per.MeasuringLED.TurnOff()
		s.per.IdleLED.TurnOn()
	}
}

// sample reads the sensors once and appends a Reading. An accelerometer
// failure skips the whole sample for this tick; a rangefinder failure only
// drops the optional distance field.
func (s *System) sample(now time.Time) {
	accel, err := s.per.Accel.Read()
	if err != nil {
		slog.Warn("accelerometer read failed, skipping sample", "error", err)
		return
	}

	r := store.Reading{
		Timestamp: now,
		X:         accel.X,
		Y:         accel.Y,
		Z:         accel.Z,
	}

	if s.per.Range != nil {
		if mm, err := s.per.Range.Read(); err != nil {
			slog.Warn("rangefinder read failed, omitting distance", "error", err)
		} else {
			r.DistanceMM = mm
			r.HasDistance = true
		}
	}

	s.store.Append(r)
	slog.Debug("reading appended",
		"x", r.X, "y", r.Y, "z", r.Z,
		"distance_mm", r.DistanceMM, "has_distance", r.HasDistance)
}

// Teardown runs the fixed shutdown sequence exactly once: LEDs off, sensors
// closed, unexported readings flushed to the canonical local file, final
// status reported.
func (s *System) Teardown() {
	s.teardownOnce.Do(func() {
		s.per.IdleLED.TurnOff()
		s.per.MeasuringLED.TurnOff()
		s.indicator.SetIdle()

		if err := s.per.Accel.Close(); err != nil {
			slog.Warn("accelerometer close failed", "error", err)
		}
		if s.per.Range != nil {
			if err := s.per.Range.Close(); err != nil {
				slog.Warn("rangefinder close failed", "error", err)
			}
		}

		if !s.store.IsEmpty() {
			rows, err := s.store.Export(s.cfg.Export.LocalPath)
			if err != nil {
				slog.Error("final flush failed", "path", s.cfg.Export.LocalPath, "error", err)
			} else {
				slog.Info("readings flushed", "rows", rows, "path", s.cfg.Export.LocalPath)
			}
		}

		slog.Info("system shutdown complete", "readings", s.store.Len())
	})
}
