package sensors

import (
	"errors"
	"io"

	"github.com/gr-butler/coastnode/data"
	"github.com/gr-butler/coastnode/env"
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
)

/*
The ultrasonic ranger streams 4-byte frames:

    [0xFF, distance high, distance low, checksum]

where checksum = (0xFF + high + low) & 0xFF and the distance is millimetres
from the head to the water. Bytes before the 0xFF marker are discarded until
a frame lines up. A run of junk whose bytes happen to sum correctly is
indistinguishable from a real frame and will be accepted; the protocol gives
us nothing to detect that with.

The byte source is expected to enforce a read timeout. A read that yields no
data ends the poll for this cycle instead of stalling the driver loop, and
the previous shore status stands.
*/

const frameMarker = 0xFF

// cap on bytes scanned for a marker in one poll, so a chattering peripheral
// can't pin the loop
const maxFrameScan = 32

var errChecksum = errors.New("tide frame checksum mismatch")
var errNoFrame = errors.New("no tide frame available")

type TideSensor struct {
	src   io.Reader
	clock clockwork.Clock
	args  env.Args
}

func NewTideSensor(src io.Reader, clock clockwork.Clock, args env.Args) *TideSensor {
	return &TideSensor{src: src, clock: clock, args: args}
}

// ReadFrame scans for the frame marker and decodes one frame into a distance
// in millimetres.
func (t *TideSensor) ReadFrame() (int, error) {
	for skipped := 0; skipped < maxFrameScan; skipped++ {
		b, ok := t.readByte()
		if !ok {
			return 0, errNoFrame
		}
		if b != frameMarker {
			continue
		}
		var payload [3]byte
		for i := range payload {
			p, ok := t.readByte()
			if !ok {
				return 0, errNoFrame
			}
			payload[i] = p
		}
		sum := (frameMarker + int(payload[0]) + int(payload[1])) & 0xFF
		if sum != int(payload[2]) {
			return 0, errChecksum
		}
		return int(payload[0])<<8 | int(payload[1]), nil
	}
	return 0, errNoFrame
}

// readByte does a single bounded read. A timed-out serial read comes back
// as (0, nil), which counts as no data.
func (t *TideSensor) readByte() (byte, bool) {
	var b [1]byte
	n, err := t.src.Read(b[:])
	if err != nil || n == 0 {
		return 0, false
	}
	return b[0], true
}

// Poll reads one frame if available and classifies the shore status. On a
// checksum mismatch or absent data the previous status is retained.
func (t *TideSensor) Poll(rec *data.Record) {
	if t == nil {
		return
	}
	distance, err := t.ReadFrame()
	switch {
	case err == nil:
		status := data.LowTide
		if distance < env.DepthThresholdMM {
			status = data.RisingTide
		}
		rec.SetShoreStatus(status, t.clock.Now())
		if flagOn(t.args.Tideon) {
			logger.Infof("Tide distance [%v]mm status [%v]", distance, status)
		}
	case errors.Is(err, errChecksum):
		logger.Errorf("Tide frame rejected [%v]", err)
	default:
		// nothing from the ranger this cycle
	}
}
