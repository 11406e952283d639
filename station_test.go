package main

import (
	"bytes"
	"testing"

	"github.com/gr-butler/coastnode/data"
	"github.com/gr-butler/coastnode/env"
	"github.com/gr-butler/coastnode/sensors"
	"github.com/gr-butler/coastnode/uplink"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	lines []string
}

func (c *captureSender) SendLine(line string) error {
	c.lines = append(c.lines, line)
	return nil
}

// Drive two full cycles through real parsers and check what goes out over
// the radio.
func Test_station_cycle(t *testing.T) {
	clk := clockwork.NewFakeClock()
	sender := &captureSender{}

	// rising tide (256mm) then low tide (600mm = 0x0258, checksum 0x59)
	tideBytes := []byte{
		0xFF, 0x01, 0x00, 0x00,
		0xFF, 0x02, 0x58, 0x59,
	}
	vaneBytes := []byte("*7#")

	w := &station{
		clock:  clk,
		args:   env.Args{},
		record: data.NewRecord(),
		s: &sensors.Sensors{
			Tide: sensors.NewTideSensor(bytes.NewReader(tideBytes), clk, env.Args{}),
			Vane: sensors.NewWindVane(bytes.NewReader(vaneBytes), clk, env.Args{}),
		},
		emitter: uplink.NewEmitter("buoy-9", sender),
	}

	w.cycle()
	require.Len(t, sender.lines, 1)
	assert.Equal(t, "buoy-9,RISING_TIDE,0.00,0.00,0.00,0.00,east;", sender.lines[0])

	w.cycle()
	require.Len(t, sender.lines, 2)
	// second tide frame flips the status; direction is sticky with no new frame
	assert.Equal(t, "buoy-9,LOW_TIDE,0.00,0.00,0.00,0.00,east;", sender.lines[1])
}

func Test_station_cycle_noPeripherals(t *testing.T) {
	// every collaborator absent: the loop still emits, everything unknown
	sender := &captureSender{}
	w := &station{
		clock:   clockwork.NewFakeClock(),
		args:    env.Args{},
		record:  data.NewRecord(),
		s:       &sensors.Sensors{},
		emitter: uplink.NewEmitter("buoy-9", sender),
	}
	w.cycle()
	require.Len(t, sender.lines, 1)
	assert.Equal(t, "buoy-9,unknown,0.00,0.00,0.00,0.00,unknown;", sender.lines[0])
}
