package uplink

import (
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gr-butler/coastnode/data"
	logger "github.com/sirupsen/logrus"
)

// Mirror publishes each emitted snapshot to the shore broker as JSON. It is
// an optional collaborator; the radio line is the primary uplink.

const publishTimeout = 2 * time.Second

type Mirror struct {
	client    mqtt.Client
	topic     string
	stationID string
}

type telemetryPayload struct {
	StationID   string  `json:"station_id"`
	ShoreStatus string  `json:"shore_status"`
	Temperature float64 `json:"temperature_c"`
	Pressure    float64 `json:"pressure_hpa"`
	Humidity    float64 `json:"humidity_rh"`
	WindSpeed   float64 `json:"wind_speed_ms"`
	WindDir     string  `json:"wind_direction"`
	WaveCount   int     `json:"wave_count"`
	Verdict     string  `json:"verdict"`
	SpeedAt     string  `json:"speed_at,omitempty"`
	DirAt       string  `json:"direction_at,omitempty"`
	ShoreAt     string  `json:"shore_at,omitempty"`
}

func NewMirror(broker string, stationID string) (*Mirror, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("coastnode-" + stationID).
		SetConnectRetry(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	logger.Infof("Connected to broker [%v]", broker)
	return &Mirror{
		client:    client,
		topic:     "coastnode/" + stationID + "/telemetry",
		stationID: stationID,
	}, nil
}

func (m *Mirror) Publish(snap data.Snapshot, verdict string) {
	p := telemetryPayload{
		StationID:   m.stationID,
		ShoreStatus: snap.ShoreStatus.String(),
		Temperature: snap.Temperature,
		Pressure:    snap.Pressure,
		Humidity:    snap.Humidity,
		WindSpeed:   snap.Speed,
		WindDir:     snap.Direction.String(),
		WaveCount:   snap.WaveCount,
		Verdict:     verdict,
	}
	if !snap.SpeedAt.IsZero() {
		p.SpeedAt = snap.SpeedAt.UTC().Format(time.RFC3339)
	}
	if !snap.DirAt.IsZero() {
		p.DirAt = snap.DirAt.UTC().Format(time.RFC3339)
	}
	if !snap.ShoreAt.IsZero() {
		p.ShoreAt = snap.ShoreAt.UTC().Format(time.RFC3339)
	}

	body, err := json.Marshal(p)
	if err != nil {
		logger.Errorf("JSON error [%v]", err)
		return
	}
	token := m.client.Publish(m.topic, 0, false, body)
	if !token.WaitTimeout(publishTimeout) {
		logger.Errorf("Publish to [%v] timed out", m.topic)
	} else if token.Error() != nil {
		logger.Errorf("Publish to [%v] failed [%v]", m.topic, token.Error())
	}
}

func (m *Mirror) Close() {
	m.client.Disconnect(250)
}
