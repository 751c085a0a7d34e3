package hw

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimPin_LevelRoundTrip(t *testing.T) {
	p := NewSimPin("GPIO17")

	level, err := p.Read()
	require.NoError(t, err)
	assert.False(t, level)

	p.SetLevel(true)
	level, err = p.Read()
	require.NoError(t, err)
	assert.True(t, level)

	require.NoError(t, p.Write(false))
	level, _ = p.Read()
	assert.False(t, level)

	assert.Equal(t, "GPIO17", p.Name())
}

func TestCallWithTimeout_Completes(t *testing.T) {
	err := CallWithTimeout(100*time.Millisecond, func() error {
		return nil
	})
	assert.NoError(t, err)
}

func TestCallWithTimeout_PropagatesError(t *testing.T) {
	wantErr := errors.New("bus fault")
	err := CallWithTimeout(100*time.Millisecond, func() error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestCallWithTimeout_TimesOut(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	err := CallWithTimeout(10*time.Millisecond, func() error {
		<-release // simulated wedged peripheral
		return nil
	})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestCallWithTimeout_NoBoundRunsInline(t *testing.T) {
	ran := false
	err := CallWithTimeout(0, func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}
