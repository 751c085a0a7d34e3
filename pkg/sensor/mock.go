package sensor

import (
	"math"
	"time"
)

// MockAccelerometer simulates a vibrating surface for development without
// hardware: a small oscillation on x/y and gravity plus ripple on z.
type MockAccelerometer struct {
	start     time.Time
	amplitude float64
	freqHz    float64
}

// NewMockAccelerometer creates a mock with a gentle 5 Hz vibration.
func NewMockAccelerometer() *MockAccelerometer {
	return &MockAccelerometer{
		start:     time.Now(),
		amplitude: 0.4,
		freqHz:    5.0,
	}
}

func (m *MockAccelerometer) Read() (Accel, error) {
	t := time.Since(m.start).Seconds()
	phase := 2 * math.Pi * m.freqHz * t
	return Accel{
		X: m.amplitude * math.Sin(phase),
		Y: m.amplitude * math.Cos(phase),
		Z: gravity + 0.1*m.amplitude*math.Sin(phase/3),
	}, nil
}

func (m *MockAccelerometer) Close() error { return nil }

// MockRangeFinder simulates a target slowly drifting around a base distance.
type MockRangeFinder struct {
	start    time.Time
	baseMM   float64
	wobbleMM float64
}

// NewMockRangeFinder creates a mock around 150 mm.
func NewMockRangeFinder() *MockRangeFinder {
	return &MockRangeFinder{
		start:    time.Now(),
		baseMM:   150,
		wobbleMM: 10,
	}
}

func (m *MockRangeFinder) Read() (float64, error) {
	t := time.Since(m.start).Seconds()
	return m.baseMM + m.wobbleMM*math.Sin(2*math.Pi*0.2*t), nil
}

func (m *MockRangeFinder) Close() error { return nil }
