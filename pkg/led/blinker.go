package led

import "time"

// Blinker toggles a light at a fixed interval, driven by the caller's clock.
type Blinker struct {
	light      Light
	interval   time.Duration
	lastToggle time.Time
}

// NewBlinker creates a blinker. The first Update toggles immediately.
func NewBlinker(light Light, interval time.Duration) *Blinker {
	return &Blinker{light: light, interval: interval}
}

// Update toggles the light when at least one interval has elapsed since the
// last toggle. After a stall of several intervals it toggles exactly once and
// resets the reference to now, rather than bursting to catch up.
func (b *Blinker) Update(now time.Time) {
	if now.Sub(b.lastToggle) < b.interval {
		return
	}
	if b.light.IsOn() {
		b.light.TurnOff()
	} else {
		b.light.TurnOn()
	}
	b.lastToggle = now
}
