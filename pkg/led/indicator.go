package led

import "time"

// Mode enumerates the copy indicator states.
type Mode int

const (
	// ModeIdle keeps the light off.
	ModeIdle Mode = iota
	// ModeBlinking animates the light at the blink interval.
	ModeBlinking
	// ModeSolid keeps the light on.
	ModeSolid
)

var modeNames = [...]string{"idle", "blinking", "solid"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// CopyIndicator is the three-mode LED state machine signalling USB export
// progress: off while idle, blinking while a copy is in flight, solid after a
// successful copy.
type CopyIndicator struct {
	light   Light
	blinker *Blinker
	mode    Mode
}

// NewCopyIndicator creates an indicator in ModeIdle.
func NewCopyIndicator(light Light, blinkInterval time.Duration) *CopyIndicator {
	return &CopyIndicator{
		light:   light,
		blinker: NewBlinker(light, blinkInterval),
	}
}

// SetCopying switches to blinking; the animation begins on the next Update.
func (c *CopyIndicator) SetCopying() { c.mode = ModeBlinking }

// SetCopied switches to solid and forces the light on immediately.
func (c *CopyIndicator) SetCopied() {
	c.mode = ModeSolid
	c.light.TurnOn()
}

// SetIdle switches to idle and forces the light off immediately.
func (c *CopyIndicator) SetIdle() {
	c.mode = ModeIdle
	c.light.TurnOff()
}

// Update advances the blink animation in ModeBlinking and otherwise enforces
// the solid/off level idempotently.
func (c *CopyIndicator) Update(now time.Time) {
	switch c.mode {
	case ModeBlinking:
		c.blinker.Update(now)
	case ModeSolid:
		if !c.light.IsOn() {
			c.light.TurnOn()
		}
	default:
		if c.light.IsOn() {
			c.light.TurnOff()
		}
	}
}

// Mode returns the current mode.
func (c *CopyIndicator) Mode() Mode { return c.mode }
