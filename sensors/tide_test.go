package sensors

import (
	"bytes"
	"testing"

	"github.com/gr-butler/coastnode/data"
	"github.com/gr-butler/coastnode/env"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tideFrom(t *testing.T, raw []byte) *TideSensor {
	t.Helper()
	return NewTideSensor(bytes.NewReader(raw), clockwork.NewFakeClock(), env.Args{})
}

func Test_tide_ReadFrame(t *testing.T) {
	// 256mm, checksum (0xFF+0x01+0x00)&0xFF
	ts := tideFrom(t, []byte{0xFF, 0x01, 0x00, 0x00})
	d, err := ts.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, 256, d)

	// 500mm exactly
	ts = tideFrom(t, []byte{0xFF, 0x01, 0xF4, 0xF4})
	d, err = ts.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, 500, d)

	// leading junk before the marker is skipped
	ts = tideFrom(t, []byte{0x12, 0x34, 0xFF, 0x01, 0x00, 0x00})
	d, err = ts.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, 256, d)

	// bad checksum
	ts = tideFrom(t, []byte{0xFF, 0x01, 0x00, 0x7F})
	_, err = ts.ReadFrame()
	assert.ErrorIs(t, err, errChecksum)

	// nothing on the wire
	ts = tideFrom(t, nil)
	_, err = ts.ReadFrame()
	assert.ErrorIs(t, err, errNoFrame)

	// frame truncated mid-payload
	ts = tideFrom(t, []byte{0xFF, 0x01})
	_, err = ts.ReadFrame()
	assert.ErrorIs(t, err, errNoFrame)
}

func Test_tide_Poll_classification(t *testing.T) {
	rec := data.NewRecord()

	// 256mm < threshold: tide is coming in
	tideFrom(t, []byte{0xFF, 0x01, 0x00, 0x00}).Poll(rec)
	assert.Equal(t, data.RisingTide, rec.Snapshot().ShoreStatus)

	// 500mm is not under the threshold: low tide
	tideFrom(t, []byte{0xFF, 0x01, 0xF4, 0xF4}).Poll(rec)
	assert.Equal(t, data.LowTide, rec.Snapshot().ShoreStatus)
}

func Test_tide_Poll_retainsStatusOnFailure(t *testing.T) {
	rec := data.NewRecord()
	tideFrom(t, []byte{0xFF, 0x01, 0x00, 0x00}).Poll(rec)
	require.Equal(t, data.RisingTide, rec.Snapshot().ShoreStatus)
	before := rec.Snapshot().ShoreAt

	// checksum mismatch: prior status and timestamp stand
	tideFrom(t, []byte{0xFF, 0x01, 0xF4, 0x00}).Poll(rec)
	snap := rec.Snapshot()
	assert.Equal(t, data.RisingTide, snap.ShoreStatus)
	assert.Equal(t, before, snap.ShoreAt)

	// silent peripheral: same
	tideFrom(t, nil).Poll(rec)
	assert.Equal(t, data.RisingTide, rec.Snapshot().ShoreStatus)
}

func Test_tide_scanBound(t *testing.T) {
	// a marker buried past the scan cap is not found this poll
	junk := make([]byte, maxFrameScan)
	raw := append(junk, 0xFF, 0x01, 0x00, 0x00)
	_, err := tideFrom(t, raw).ReadFrame()
	assert.ErrorIs(t, err, errNoFrame)
}
