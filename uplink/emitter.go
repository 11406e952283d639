package uplink

import (
	"fmt"

	"github.com/gr-butler/coastnode/data"
	"github.com/gr-butler/coastnode/led"
	logger "github.com/sirupsen/logrus"
)

// LineSender is the outbound radio primitive. Transmission is fire and
// forget, no acknowledgement and no retry.
type LineSender interface {
	SendLine(line string) error
}

// FormatLine serialises a snapshot as the station's wire line:
//
//	<stationID>,<shoreStatus>,<temperature>,<pressure>,<humidity>,<speed>,<direction>;
//
// Comma separated, semicolon terminated. Fields are not escaped, so a comma
// in the station ID would corrupt the line; receivers rely on IDs being
// plain tokens.
func FormatLine(stationID string, snap data.Snapshot) string {
	return fmt.Sprintf("%s,%s,%.2f,%.2f,%.2f,%.2f,%s;",
		stationID,
		snap.ShoreStatus,
		snap.Temperature,
		snap.Pressure,
		snap.Humidity,
		snap.Speed,
		snap.Direction)
}

// Emitter pushes each cycle's snapshot out over the radio, mirrors it to the
// diagnostic log and, when configured, to the MQTT uplink.
type Emitter struct {
	stationID string
	radio     LineSender
	mirror    *Mirror
	txLED     *led.LED
}

func NewEmitter(stationID string, radio LineSender) *Emitter {
	return &Emitter{stationID: stationID, radio: radio}
}

func (e *Emitter) SetMirror(m *Mirror) {
	e.mirror = m
}

func (e *Emitter) SetTxLED(l *led.LED) {
	e.txLED = l
}

func (e *Emitter) Emit(snap data.Snapshot, verdict string) {
	line := FormatLine(e.stationID, snap)
	logger.Infof("TX [%v] verdict [%v]", line, verdict)

	if e.radio != nil {
		if err := e.radio.SendLine(line); err != nil {
			logger.Errorf("Radio send failed [%v]", err)
		}
	}
	if e.mirror != nil {
		e.mirror.Publish(snap, verdict)
	}
	if e.txLED != nil {
		// Flash sleeps for the blink, keep it off the driver loop
		go e.txLED.Flash()
	}
}
