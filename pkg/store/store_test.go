package store

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReading(i int) Reading {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	r := Reading{
		Timestamp: base.Add(time.Duration(i) * time.Second),
		X:         0.1 * float64(i),
		Y:         -0.2 * float64(i),
		Z:         9.81,
	}
	if i%2 == 0 {
		r.DistanceMM = 120.5 + float64(i)
		r.HasDistance = true
	}
	return r
}

func TestStore_AppendOrderAndLen(t *testing.T) {
	s := New()
	assert.True(t, s.IsEmpty())

	for i := 0; i < 5; i++ {
		s.Append(testReading(i))
	}

	assert.False(t, s.IsEmpty())
	assert.Equal(t, 5, s.Len())

	snap := s.Snapshot()
	require.Len(t, snap, 5)
	for i := 1; i < len(snap); i++ {
		assert.True(t, snap[i].Timestamp.After(snap[i-1].Timestamp))
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := New()
	s.Append(testReading(0))

	snap := s.Snapshot()
	snap[0].X = 999

	assert.Equal(t, 0.0, s.Snapshot()[0].X)
}

func TestExport_RoundTrip(t *testing.T) {
	s := New()
	want := make([]Reading, 0, 4)
	for i := 0; i < 4; i++ {
		r := testReading(i)
		s.Append(r)
		want = append(want, r)
	}

	path := filepath.Join(t.TempDir(), "readings.csv")
	n, err := s.Export(path)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5) // header + 4 data rows

	assert.Equal(t, Header, rows[0])

	for i, row := range rows[1:] {
		ts, err := time.ParseInLocation(TimestampLayout, row[0], time.Local)
		require.NoError(t, err)
		assert.True(t, ts.Equal(want[i].Timestamp.Truncate(time.Second)), "row %d timestamp", i)

		x, _ := strconv.ParseFloat(row[1], 64)
		y, _ := strconv.ParseFloat(row[2], 64)
		z, _ := strconv.ParseFloat(row[3], 64)
		assert.InDelta(t, want[i].X, x, 0.0005, "row %d x", i)
		assert.InDelta(t, want[i].Y, y, 0.0005, "row %d y", i)
		assert.InDelta(t, want[i].Z, z, 0.0005, "row %d z", i)

		if want[i].HasDistance {
			d, err := strconv.ParseFloat(row[4], 64)
			require.NoError(t, err)
			assert.InDelta(t, want[i].DistanceMM, d, 0.05, "row %d distance", i)
		} else {
			assert.Empty(t, row[4], "row %d distance", i)
		}
	}
}

func TestExport_EmptyStoreWritesHeaderOnly(t *testing.T) {
	s := New()
	path := filepath.Join(t.TempDir(), "readings.csv")

	n, err := s.Export(path)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "timestamp,x,y,z,distance_mm\n", string(data))
}

func TestExport_FailureLeavesStoreIntact(t *testing.T) {
	s := New()
	s.Append(testReading(0))
	s.Append(testReading(1))

	_, err := s.Export(filepath.Join(t.TempDir(), "no", "such", "dir", "out.csv"))
	require.Error(t, err)

	// In-memory data unaffected; a second export to a good path works.
	assert.Equal(t, 2, s.Len())
	n, err := s.Export(filepath.Join(t.TempDir(), "out.csv"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
