package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionFromCode(t *testing.T) {
	// the vane's own numbering, verified against the sensor manual
	expected := map[int]Direction{
		1: South,
		2: SouthWest,
		3: West,
		4: NorthWest,
		5: North,
		6: NorthEast,
		7: East,
		8: SouthEast,
	}

	for code, dir := range expected {
		d, ok := DirectionFromCode(code)
		require.True(t, ok, "code %v should map", code)
		assert.Equal(t, dir, d)
	}

	for _, code := range []int{0, 9, -1, 42} {
		_, ok := DirectionFromCode(code)
		assert.False(t, ok, "code %v should not map", code)
	}
}

func TestWireLabels(t *testing.T) {
	assert.Equal(t, "northeast", NorthEast.String())
	assert.Equal(t, "south", South.String())
	assert.Equal(t, "unknown", DirUnknown.String())
	assert.Equal(t, "unknown", Direction(99).String())

	assert.Equal(t, "RISING_TIDE", RisingTide.String())
	assert.Equal(t, "LOW_TIDE", LowTide.String())
	assert.Equal(t, "unknown", ShoreUnknown.String())
}

func TestRecordSnapshot(t *testing.T) {
	r := NewRecord()
	now := time.Now()

	s := r.Snapshot()
	assert.Equal(t, DirUnknown, s.Direction)
	assert.Equal(t, ShoreUnknown, s.ShoreStatus)
	assert.True(t, s.SpeedAt.IsZero())

	r.SetSpeed(4.2, now)
	r.SetDirection(East, now)
	r.SetShoreStatus(LowTide, now)
	r.SetEnvironment(18.5, 81, 1012.3, now)

	s = r.Snapshot()
	assert.Equal(t, 4.2, s.Speed)
	assert.Equal(t, East, s.Direction)
	assert.Equal(t, LowTide, s.ShoreStatus)
	assert.Equal(t, 18.5, s.Temperature)
	assert.Equal(t, float64(81), s.Humidity)
	assert.Equal(t, 1012.3, s.Pressure)
	assert.Equal(t, now, s.SpeedAt)
	// reserved field, nothing writes it
	assert.Equal(t, 0, s.WaveCount)
}
