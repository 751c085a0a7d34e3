package sensor

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"

	"vibration-logger/pkg/hw"
)

// MMA8452 register map (the subset used here).
const (
	regOutXMSB = 0x01
	regWhoAmI  = 0x0D
	regCtrl1   = 0x2A

	whoAmIValue = 0x2A
	ctrlActive  = 0x01
)

const (
	// countsPerG is the 12-bit sensitivity at the default ±2g full scale.
	countsPerG = 1024.0
	gravity    = 9.80665
)

// MMA8452 is a 3-axis accelerometer on the I2C bus. All bus transactions are
// bounded by the configured timeout; a timeout reads as a failed sample for
// that tick.
type MMA8452 struct {
	dev     i2c.Dev
	timeout time.Duration
}

// NewMMA8452 probes the device at addr, switches it to active mode at the
// default ±2g range and returns the driver. A failed probe means the
// mandatory accelerometer is absent or miswired.
func NewMMA8452(bus i2c.Bus, addr uint16, timeout time.Duration) (*MMA8452, error) {
	m := &MMA8452{
		dev:     i2c.Dev{Bus: bus, Addr: addr},
		timeout: timeout,
	}

	var id [1]byte
	err := hw.CallWithTimeout(timeout, func() error {
		return m.dev.Tx([]byte{regWhoAmI}, id[:])
	})
	if err != nil {
		return nil, fmt.Errorf("mma8452 probe at 0x%02X: %w", addr, err)
	}
	if id[0] != whoAmIValue {
		return nil, fmt.Errorf("mma8452 probe at 0x%02X: unexpected device id 0x%02X: %w",
			addr, id[0], hw.ErrPeripheralInit)
	}

	err = hw.CallWithTimeout(timeout, func() error {
		return m.dev.Tx([]byte{regCtrl1, ctrlActive}, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("mma8452 activate: %w", err)
	}

	return m, nil
}

// Read returns the instantaneous acceleration on all three axes.
func (m *MMA8452) Read() (Accel, error) {
	var buf [6]byte
	err := hw.CallWithTimeout(m.timeout, func() error {
		return m.dev.Tx([]byte{regOutXMSB}, buf[:])
	})
	if err != nil {
		return Accel{}, fmt.Errorf("%w: mma8452: %v", ErrRead, err)
	}

	return Accel{
		X: countsToMS2(buf[0], buf[1]),
		Y: countsToMS2(buf[2], buf[3]),
		Z: countsToMS2(buf[4], buf[5]),
	}, nil
}

// Close puts nothing to rest; the bus is owned and closed by the peripheral
// handle.
func (m *MMA8452) Close() error { return nil }

// countsToMS2 converts one axis register pair (left-justified 12-bit two's
// complement) to m/s².
func countsToMS2(msb, lsb byte) float64 {
	counts := int16(uint16(msb)<<8|uint16(lsb)) >> 4
	return float64(counts) / countsPerG * gravity
}
