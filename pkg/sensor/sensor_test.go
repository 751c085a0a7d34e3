package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountsToMS2(t *testing.T) {
	// Zero counts is zero acceleration.
	assert.Equal(t, 0.0, countsToMS2(0x00, 0x00))

	// +256 counts at 1024 counts/g is +0.25 g.
	assert.InDelta(t, 0.25*gravity, countsToMS2(0x10, 0x00), 1e-9)

	// -256 counts (two's complement, left justified).
	assert.InDelta(t, -0.25*gravity, countsToMS2(0xF0, 0x00), 1e-9)

	// +1g: 1024 counts.
	assert.InDelta(t, gravity, countsToMS2(0x40, 0x00), 1e-9)

	// Low nibble of the LSB is discarded (12-bit value, left justified).
	assert.Equal(t, countsToMS2(0x40, 0x00), countsToMS2(0x40, 0x0F))
}

func validFrame(distCM uint16) []byte {
	f := []byte{frameHeader, frameHeader, byte(distCM), byte(distCM >> 8), 0x34, 0x12, 0x10, 0x00, 0}
	var sum byte
	for _, b := range f[:8] {
		sum += b
	}
	f[8] = sum
	return f
}

func TestParseFrame_Valid(t *testing.T) {
	mm, ok := parseFrame(validFrame(120))
	require.True(t, ok)
	assert.Equal(t, 1200.0, mm) // sensor reports cm
}

func TestParseFrame_BadChecksum(t *testing.T) {
	f := validFrame(120)
	f[8]++
	_, ok := parseFrame(f)
	assert.False(t, ok)
}

func TestParseFrame_BadHeader(t *testing.T) {
	f := validFrame(120)
	f[1] = 0x00
	_, ok := parseFrame(f)
	assert.False(t, ok)
}

func TestParseFrame_ShortSlice(t *testing.T) {
	_, ok := parseFrame([]byte{frameHeader, frameHeader, 1})
	assert.False(t, ok)
}

func TestMockAccelerometer_ReadsPlausibleValues(t *testing.T) {
	m := NewMockAccelerometer()

	a, err := m.Read()
	require.NoError(t, err)

	assert.InDelta(t, 0, a.X, 1.0)
	assert.InDelta(t, 0, a.Y, 1.0)
	assert.InDelta(t, gravity, a.Z, 1.0)

	require.NoError(t, m.Close())
}

func TestMockRangeFinder_ReadsAroundBase(t *testing.T) {
	m := NewMockRangeFinder()

	d, err := m.Read()
	require.NoError(t, err)
	assert.InDelta(t, 150, d, 15)

	require.NoError(t, m.Close())
}
