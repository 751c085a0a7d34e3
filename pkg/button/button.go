// Package button implements tick-polled button edge and hold detection over a
// raw digital pin. No software debounce filtering beyond edge detection is
// applied; the hardware is assumed clean.
package button

import (
	"log/slog"
	"time"

	"vibration-logger/pkg/hw"
)

// Event is the outcome of a single poll. Events are transient: they are
// reported once and never repeated for the same physical press.
type Event int

const (
	// None means nothing of interest happened this tick.
	None Event = iota
	// Pressed is the single press event for this button.
	Pressed
	// Held means the pin has been continuously pressed for at least the
	// configured hold threshold. Reported once per press.
	Held
)

// Config tunes how presses are reported.
type Config struct {
	// ReportOnPress reports Pressed on the released->pressed edge. When
	// false, Pressed is reported on release instead, so that a long hold is
	// never mistaken for a tap.
	ReportOnPress bool
	// HoldThreshold, when positive, reports Held once the press has been
	// continuously sustained for this long. Resolution is the tick period.
	HoldThreshold time.Duration
}

// Button tracks a raw pin level across ticks.
type Button struct {
	name string
	pin  hw.Pin
	cfg  Config

	pressedSince time.Time // zero while released
	holdFired    bool
}

// New creates a button on the given pin.
func New(name string, pin hw.Pin, cfg Config) *Button {
	return &Button{name: name, pin: pin, cfg: cfg}
}

// Poll samples the pin and reports at most one event. A pin read failure is
// non-fatal: the button is treated as not pressed for this tick.
func (b *Button) Poll(now time.Time) Event {
	level, err := b.pin.Read()
	if err != nil {
		slog.Warn("button read failed, treating as released", "button", b.name, "error", err)
		level = false
	}

	wasPressed := !b.pressedSince.IsZero()

	switch {
	case level && !wasPressed:
		// released -> pressed
		b.pressedSince = now
		b.holdFired = false
		if b.cfg.ReportOnPress {
			return Pressed
		}

	case level && wasPressed:
		// sustained press
		if b.cfg.HoldThreshold > 0 && !b.holdFired && now.Sub(b.pressedSince) >= b.cfg.HoldThreshold {
			b.holdFired = true
			return Held
		}

	case !level && wasPressed:
		// pressed -> released
		fired := b.holdFired
		b.pressedSince = time.Time{}
		b.holdFired = false
		if !b.cfg.ReportOnPress && !fired {
			return Pressed
		}
	}

	return None
}
