package uplink

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gr-butler/coastnode/env"
	logger "github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

/*
RYLR896 LoRa modem on a UART. The modem speaks AT commands:

	AT+ADDRESS=<n>    transceiver identity
	AT+NETWORKID=<n>  must match across the link
	AT+SEND=<dest>,<len>,<payload>

Responses are "+OK" / "+ERR=<code>" lines. The shore gateway is destination
0. Transmission stays fire and forget: an +ERR is logged, never retried.
*/

const modemReadTimeout = 200 * time.Millisecond

type Radio struct {
	port io.ReadWriter
	dest int
}

// NewRadio wraps an already-open modem stream. Used directly in tests;
// production goes through OpenRadio.
func NewRadio(port io.ReadWriter, dest int) *Radio {
	return &Radio{port: port, dest: dest}
}

// OpenRadio opens the modem UART and programs the link identity.
func OpenRadio(portName string, address, networkID, dest int) (*Radio, error) {
	mode := &serial.Mode{BaudRate: env.PeripheralBaud}
	p, err := serial.Open(portName, mode)
	if err != nil {
		return nil, err
	}
	if err := p.SetReadTimeout(modemReadTimeout); err != nil {
		_ = p.Close()
		return nil, err
	}
	r := NewRadio(p, dest)

	logger.Infof("Configuring LoRa modem on [%v] address [%v] network [%v]", portName, address, networkID)
	if err := r.command(fmt.Sprintf("AT+ADDRESS=%d", address)); err != nil {
		_ = p.Close()
		return nil, err
	}
	if err := r.command(fmt.Sprintf("AT+NETWORKID=%d", networkID)); err != nil {
		_ = p.Close()
		return nil, err
	}
	return r, nil
}

func (r *Radio) SendLine(line string) error {
	return r.command(fmt.Sprintf("AT+SEND=%d,%d,%s", r.dest, len(line), line))
}

func (r *Radio) command(cmd string) error {
	if _, err := fmt.Fprintf(r.port, "%s\r\n", cmd); err != nil {
		return err
	}
	resp := r.readResponse()
	if strings.HasPrefix(resp, "+ERR") {
		return fmt.Errorf("modem rejected [%v]: %v", cmd, resp)
	}
	// an empty response means the read timed out; the modem is usually just
	// slow to answer AT+SEND, so treat it as accepted
	return nil
}

func (r *Radio) readResponse() string {
	var resp []byte
	var b [1]byte
	for len(resp) < 64 {
		n, err := r.port.Read(b[:])
		if err != nil || n == 0 {
			break
		}
		if b[0] == '\n' {
			break
		}
		if b[0] != '\r' {
			resp = append(resp, b[0])
		}
	}
	return string(resp)
}
