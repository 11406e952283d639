package main

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/gr-butler/coastnode/data"
	"github.com/gr-butler/coastnode/db/postgres"
	"github.com/gr-butler/coastnode/env"
	logger "github.com/sirupsen/logrus"
)

// Shore report: the slow outbound path, distinct from the 1s radio cadence.
// Every env.ReportFreqMin minutes the current record is archived to the
// observation database and GETed to the shore web service as query
// parameters.

type shoreReport struct {
	StationID    string  `url:"station,omitempty"`
	DateString   string  `url:"dateutc,omitempty"`
	SoftwareType string  `url:"softwaretype,omitempty"`
	ShoreStatus  string  `url:"shore,omitempty"`
	TempC        float64 `url:"tempc,omitempty"`
	PressureHpa  float64 `url:"pressurehpa,omitempty"`
	Humidity     float64 `url:"humidity,omitempty"`
	WindSpeedMS  float64 `url:"windms,omitempty"`
	WindDir      string  `url:"winddir,omitempty"`
	Verdict      string  `url:"verdict,omitempty"`
}

// Reporting is run as a goroutine.
func (w *station) Reporting() {
	shoreURL, urlok := os.LookupEnv("SHOREURL")
	if !urlok {
		logger.Info("SHOREURL not set, shore web reports disabled")
	}

	for t := range time.Tick(time.Minute) {
		if t.Minute()%env.ReportFreqMin != 0 {
			continue
		}
		snap := w.record.Snapshot()
		verdict := analyzeFeasibility(snap)
		vals := w.prepReport(snap, verdict)
		logger.Infof("Report: [%v]", vals.Encode())

		if w.Db != nil && !w.testMode() {
			logger.Info("Saving record to db")
			err := w.Db.WriteRecord(context.Background(), postgres.WriteRecordParams{
				StationID:   *w.args.StationID,
				RecordedAt:  t.UTC(),
				ShoreStatus: snap.ShoreStatus.String(),
				Temperature: snap.Temperature,
				Pressure:    snap.Pressure,
				Humidity:    snap.Humidity,
				WindSpeed:   snap.Speed,
				WindDir:     snap.Direction.String(),
				Verdict:     verdict,
			})
			if err != nil {
				logger.Errorf("Failed to write to db [%v]", err)
			}
		}

		if urlok && !w.testMode() {
			client := http.Client{Timeout: time.Second * 30}
			resp, err := client.Get(shoreURL + "?" + vals.Encode())
			if err != nil {
				logger.Errorf("Failed to send shore report [%v]", err)
				continue
			}
			if resp.StatusCode != http.StatusOK {
				logger.Errorf("Shore report rejected HTTP [%v]", resp.Status)
			}
			_ = resp.Body.Close()
		}
	}
}

func (w *station) prepReport(snap data.Snapshot, verdict string) url.Values {
	rep := shoreReport{
		StationID:    *w.args.StationID,
		DateString:   time.Now().UTC().Format("2006-01-02+15:04:05"),
		SoftwareType: version,
		ShoreStatus:  snap.ShoreStatus.String(),
		TempC:        snap.Temperature,
		PressureHpa:  snap.Pressure,
		Humidity:     snap.Humidity,
		WindSpeedMS:  snap.Speed,
		WindDir:      snap.Direction.String(),
		Verdict:      verdict,
	}
	vals, _ := query.Values(rep)
	return vals
}
