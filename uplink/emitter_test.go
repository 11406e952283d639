package uplink

import (
	"bytes"
	"testing"
	"time"

	"github.com/gr-butler/coastnode/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_FormatLine(t *testing.T) {
	snap := data.Snapshot{
		Temperature: 28.5,
		Humidity:    75,
		Pressure:    1009.8,
		Speed:       4.1049,
		Direction:   data.SouthWest,
		ShoreStatus: data.RisingTide,
	}
	line := FormatLine("Jawa", snap)
	assert.Equal(t, "Jawa,RISING_TIDE,28.50,1009.80,75.00,4.10,southwest;", line)
}

func Test_FormatLine_unknowns(t *testing.T) {
	line := FormatLine("station-1", data.Snapshot{})
	assert.Equal(t, "station-1,unknown,0.00,0.00,0.00,0.00,unknown;", line)
}

type recordingSender struct {
	lines []string
}

func (r *recordingSender) SendLine(line string) error {
	r.lines = append(r.lines, line)
	return nil
}

func Test_Emitter_sendsOncePerEmit(t *testing.T) {
	sender := &recordingSender{}
	e := NewEmitter("buoy-3", sender)

	snap := data.Snapshot{
		Speed:       5,
		Direction:   data.East,
		ShoreStatus: data.LowTide,
		SpeedAt:     time.Now(),
	}
	e.Emit(snap, "safe to sail")
	e.Emit(snap, "safe to sail")

	require.Len(t, sender.lines, 2)
	assert.Equal(t, "buoy-3,LOW_TIDE,0.00,0.00,0.00,5.00,east;", sender.lines[0])
}

// fakePort keeps writes and canned responses on separate sides, like a
// real modem UART.
type fakePort struct {
	wrote    bytes.Buffer
	response []byte
	writes   int
}

func (f *fakePort) Read(p []byte) (int, error) {
	if len(f.response) == 0 {
		return 0, nil // timed-out serial read
	}
	n := copy(p, f.response[:1])
	f.response = f.response[1:]
	return n, nil
}

func (f *fakePort) Write(p []byte) (int, error) {
	f.writes++
	return f.wrote.Write(p)
}

func Test_Radio_SendLine(t *testing.T) {
	port := &fakePort{response: []byte("+OK\r\n")}
	r := NewRadio(port, 0)

	err := r.SendLine("buoy-3,LOW_TIDE,0.00,0.00,0.00,5.00,east;")
	require.NoError(t, err)
	assert.Equal(t,
		"AT+SEND=0,41,buoy-3,LOW_TIDE,0.00,0.00,0.00,5.00,east;\r\n",
		port.wrote.String())
}

func Test_Radio_modemError(t *testing.T) {
	// modem answers +ERR, caller gets an error and does not retry
	port := &fakePort{response: []byte("+ERR=4\r\n")}
	r := NewRadio(port, 0)
	err := r.SendLine("x;")
	assert.Error(t, err)
	assert.Equal(t, 1, port.writes)
}
