package sensor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	frameHeader = 0x59
	frameLen    = 9
)

// TFLuna is a UART time-of-flight rangefinder speaking the TF-Luna/TFMini
// 9-byte frame protocol. A background goroutine keeps the latest
// checksum-verified frame; Read hands it out as long as it is fresh, so the
// tick loop never blocks on the serial port.
type TFLuna struct {
	port      string
	staleness time.Duration

	conn   serial.Port
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.RWMutex
	lastMM    float64
	lastAt    time.Time
	connected bool
}

// NewTFLuna opens the serial port and starts the frame reader.
func NewTFLuna(port string, baudRate int, staleness time.Duration) (*TFLuna, error) {
	conn, err := serial.Open(port, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("failed to open rangefinder port %s: %w", port, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &TFLuna{
		port:      port,
		staleness: staleness,
		conn:      conn,
		ctx:       ctx,
		cancel:    cancel,
		connected: true,
	}

	go t.readFrames()

	return t, nil
}

// Read returns the latest distance in millimeters. A frame older than the
// staleness bound (or none at all) counts as a read failure for this tick.
func (t *TFLuna) Read() (float64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.connected {
		return 0, fmt.Errorf("%w: rangefinder: port closed", ErrRead)
	}
	if t.lastAt.IsZero() || time.Since(t.lastAt) > t.staleness {
		return 0, fmt.Errorf("%w: rangefinder: no fresh frame", ErrRead)
	}
	return t.lastMM, nil
}

// Close stops the frame reader and closes the port.
func (t *TFLuna) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.connected {
		return nil
	}
	t.cancel()
	t.connected = false

	if err := t.conn.Close(); err != nil {
		return fmt.Errorf("failed to close rangefinder port: %w", err)
	}
	return nil
}

// readFrames reads bytes from the serial port and resynchronizes on the
// 0x59 0x59 frame header.
func (t *TFLuna) readFrames() {
	buf := make([]byte, 0, 2*frameLen)
	chunk := make([]byte, 64)

	for {
		select {
		case <-t.ctx.Done():
			return
		default:
		}

		n, err := t.conn.Read(chunk)
		if err != nil {
			if t.ctx.Err() == nil && err != io.EOF {
				slog.Warn("rangefinder read error", "port", t.port, "error", err)
			}
			return
		}
		buf = append(buf, chunk[:n]...)

		for len(buf) >= frameLen {
			if buf[0] != frameHeader || buf[1] != frameHeader {
				buf = buf[1:] // resync one byte at a time
				continue
			}
			mm, ok := parseFrame(buf[:frameLen])
			buf = buf[frameLen:]
			if !ok {
				slog.Debug("rangefinder frame checksum mismatch", "port", t.port)
				continue
			}
			t.mu.Lock()
			t.lastMM = mm
			t.lastAt = time.Now()
			t.mu.Unlock()
		}
	}
}

// parseFrame validates one 9-byte frame and returns the distance in
// millimeters. The sensor reports centimeters; the checksum is the low byte
// of the sum of the first eight bytes.
func parseFrame(f []byte) (float64, bool) {
	if len(f) != frameLen || f[0] != frameHeader || f[1] != frameHeader {
		return 0, false
	}
	var sum byte
	for _, b := range f[:8] {
		sum += b
	}
	if sum != f[8] {
		return 0, false
	}
	distCM := uint16(f[2]) | uint16(f[3])<<8
	return float64(distCM) * 10.0, true
}
