package sensors

import (
	"bytes"
	"io"
	"strconv"

	"github.com/gr-butler/coastnode/data"
	"github.com/gr-butler/coastnode/env"
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
)

/*
The wind vane sends ASCII frames of the form *d# where d is a digit 1-8
naming one of eight compass points (the mapping lives in data/). Absence of
data or an unrecognised code leaves the direction at its last known value;
the vane never explicitly reports unknown, so data.DirUnknown only ever
appears before the first good frame.
*/

// longest partial frame we hold between polls
const vaneAccumMax = 16

type WindVane struct {
	src   io.Reader
	clock clockwork.Clock
	args  env.Args
	accum []byte
}

func NewWindVane(src io.Reader, clock clockwork.Clock, args env.Args) *WindVane {
	return &WindVane{
		src:   src,
		clock: clock,
		args:  args,
		accum: make([]byte, 0, vaneAccumMax),
	}
}

// Poll drains whatever the vane has sent and, if a complete frame is
// present, updates the record's direction.
func (v *WindVane) Poll(rec *data.Record) {
	if v == nil {
		return
	}
	var buf [vaneAccumMax]byte
	n, err := v.src.Read(buf[:])
	if err != nil || n == 0 {
		return
	}
	v.accum = append(v.accum, buf[:n]...)
	if len(v.accum) > vaneAccumMax {
		v.accum = v.accum[len(v.accum)-vaneAccumMax:]
	}

	start := bytes.IndexByte(v.accum, '*')
	if start < 0 {
		v.accum = v.accum[:0]
		return
	}
	end := bytes.IndexByte(v.accum[start:], '#')
	if end < 0 {
		// frame not complete yet, keep the tail for next poll
		v.accum = append(v.accum[:0], v.accum[start:]...)
		return
	}
	end += start
	frame := string(v.accum[start+1 : end])
	v.accum = append(v.accum[:0], v.accum[end+1:]...)

	code, err := strconv.Atoi(frame)
	if err != nil {
		logger.Debugf("Unparseable vane frame [%v]", frame)
		return
	}
	dir, ok := data.DirectionFromCode(code)
	if !ok {
		logger.Debugf("Unknown vane code [%v]", code)
		return
	}
	rec.SetDirection(dir, v.clock.Now())
	if flagOn(v.args.Diron) {
		logger.Infof("Wind direction [%v] code [%v]", dir, code)
	}
}
