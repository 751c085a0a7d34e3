package button

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vibration-logger/pkg/hw"
)

// failingPin always errors on read.
type failingPin struct{}

func (failingPin) Name() string          { return "broken" }
func (failingPin) Read() (bool, error)   { return false, errors.New("pin fault") }
func (failingPin) Write(bool) error      { return nil }

func at(ms int) time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local).Add(time.Duration(ms) * time.Millisecond)
}

func TestPoll_PressedOnDownEdge(t *testing.T) {
	pin := hw.NewSimPin("GPIO17")
	b := New("begin", pin, Config{ReportOnPress: true})

	assert.Equal(t, None, b.Poll(at(0)))

	pin.SetLevel(true)
	assert.Equal(t, Pressed, b.Poll(at(50)))

	// Held down: no repeat.
	assert.Equal(t, None, b.Poll(at(100)))
	assert.Equal(t, None, b.Poll(at(150)))

	pin.SetLevel(false)
	assert.Equal(t, None, b.Poll(at(200)))

	// A fresh press reports again.
	pin.SetLevel(true)
	assert.Equal(t, Pressed, b.Poll(at(250)))
}

func TestPoll_PressedOnRelease(t *testing.T) {
	pin := hw.NewSimPin("GPIO27")
	b := New("power", pin, Config{HoldThreshold: 2 * time.Second})

	pin.SetLevel(true)
	assert.Equal(t, None, b.Poll(at(0))) // down edge not reported

	pin.SetLevel(false)
	assert.Equal(t, Pressed, b.Poll(at(100))) // tap reported on release
}

func TestPoll_HeldAfterThreshold(t *testing.T) {
	pin := hw.NewSimPin("GPIO27")
	b := New("power", pin, Config{HoldThreshold: 2 * time.Second})

	pin.SetLevel(true)
	assert.Equal(t, None, b.Poll(at(0)))
	assert.Equal(t, None, b.Poll(at(1000)))
	assert.Equal(t, None, b.Poll(at(1999)))
	assert.Equal(t, Held, b.Poll(at(2000)))

	// Hold fires once per press, even while still pressed.
	assert.Equal(t, None, b.Poll(at(3000)))
	assert.Equal(t, None, b.Poll(at(10000)))

	// Release after a hold is not a tap.
	pin.SetLevel(false)
	assert.Equal(t, None, b.Poll(at(10050)))

	// A new press can hold again.
	pin.SetLevel(true)
	assert.Equal(t, None, b.Poll(at(11000)))
	assert.Equal(t, Held, b.Poll(at(13000)))
}

func TestPoll_ReleaseResetsHoldTimer(t *testing.T) {
	pin := hw.NewSimPin("GPIO27")
	b := New("power", pin, Config{HoldThreshold: 2 * time.Second})

	pin.SetLevel(true)
	b.Poll(at(0))
	pin.SetLevel(false)
	b.Poll(at(1500))

	// Re-press: the 1.5s of the previous press must not count.
	pin.SetLevel(true)
	assert.Equal(t, None, b.Poll(at(1600)))
	assert.Equal(t, None, b.Poll(at(3500)))
	assert.Equal(t, Held, b.Poll(at(3600)))
}

func TestPoll_ReadFailureTreatedAsReleased(t *testing.T) {
	b := New("broken", failingPin{}, Config{ReportOnPress: true})

	assert.Equal(t, None, b.Poll(at(0)))
	assert.Equal(t, None, b.Poll(at(50)))
}

// flakyPin reads a fixed level until failAfter reads have happened, then errors.
type flakyPin struct {
	level     bool
	failAfter int
	reads     int
}

func (p *flakyPin) Name() string { return "flaky" }
func (p *flakyPin) Read() (bool, error) {
	p.reads++
	if p.reads > p.failAfter {
		return false, errors.New("pin fault")
	}
	return p.level, nil
}
func (p *flakyPin) Write(bool) error { return nil }

func TestPoll_ReadFailureMidPressReleases(t *testing.T) {
	pin := &flakyPin{level: true, failAfter: 2}
	b := New("power", pin, Config{HoldThreshold: time.Second})

	b.Poll(at(0))
	b.Poll(at(500))

	// A read failure is treated as released: the press ends as a tap and the
	// accumulated hold time is discarded, so Held never fires.
	assert.Equal(t, Pressed, b.Poll(at(1500)))
	assert.Equal(t, None, b.Poll(at(2500)))
}
