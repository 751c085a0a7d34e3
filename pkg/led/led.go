// Package led drives the status LEDs. Blink and solid behavior is composed
// around the minimal Light capability rather than baked into LED types.
package led

import (
	"log/slog"

	"vibration-logger/pkg/hw"
)

// Light is the minimal LED capability.
type Light interface {
	TurnOn()
	TurnOff()
	IsOn() bool
}

// PinLight implements Light over a digital output pin. Write failures are
// logged and the tracked level is updated anyway, so animation state machines
// keep working on degraded hardware.
type PinLight struct {
	name string
	pin  hw.Pin
	on   bool
}

// NewPinLight creates a light on the given output pin, assumed off.
func NewPinLight(name string, pin hw.Pin) *PinLight {
	return &PinLight{name: name, pin: pin}
}

var _ Light = (*PinLight)(nil)

func (l *PinLight) TurnOn() {
	if err := l.pin.Write(true); err != nil {
		slog.Warn("failed to turn LED on", "led", l.name, "error", err)
	}
	l.on = true
}

func (l *PinLight) TurnOff() {
	if err := l.pin.Write(false); err != nil {
		slog.Warn("failed to turn LED off", "led", l.name, "error", err)
	}
	l.on = false
}

func (l *PinLight) IsOn() bool { return l.on }
