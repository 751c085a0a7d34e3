// Package sensor provides the measurement sensor boundary: an accelerometer
// (mandatory) and a time-of-flight rangefinder (optional), each with a real
// hardware driver and a mock twin.
package sensor

import "errors"

// ErrRead indicates a transient sensor read failure. The caller skips the
// current tick's sample and continues; nothing is retried within the tick.
var ErrRead = errors.New("sensor read failed")

// Accel is one accelerometer reading in m/s² per axis.
type Accel struct {
	X, Y, Z float64
}

// Accelerometer reads instantaneous acceleration.
type Accelerometer interface {
	Read() (Accel, error)
	Close() error
}

// RangeFinder reads distance in millimeters.
type RangeFinder interface {
	Read() (float64, error)
	Close() error
}

var _ Accelerometer = (*MMA8452)(nil)
var _ Accelerometer = (*MockAccelerometer)(nil)

var _ RangeFinder = (*TFLuna)(nil)
var _ RangeFinder = (*MockRangeFinder)(nil)
