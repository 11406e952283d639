package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	logger "github.com/sirupsen/logrus"
)

// Observation archive on the shore database. One row per report interval.

const schema = `
CREATE TABLE IF NOT EXISTS observations (
	id            BIGSERIAL PRIMARY KEY,
	station_id    TEXT NOT NULL,
	recorded_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	shore_status  TEXT NOT NULL,
	temperature   DOUBLE PRECISION NOT NULL,
	pressure      DOUBLE PRECISION NOT NULL,
	humidity      DOUBLE PRECISION NOT NULL,
	wind_speed    DOUBLE PRECISION NOT NULL,
	wind_dir      TEXT NOT NULL,
	verdict       TEXT NOT NULL
)`

const insertObservation = `
INSERT INTO observations
	(station_id, recorded_at, shore_status, temperature, pressure, humidity, wind_speed, wind_dir, verdict)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

type WriteRecordParams struct {
	StationID   string
	RecordedAt  time.Time
	ShoreStatus string
	Temperature float64
	Pressure    float64
	Humidity    float64
	WindSpeed   float64
	WindDir     string
	Verdict     string
}

type DB struct {
	conn *sql.DB
}

func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, err
	}
	logger.Info("Observation archive ready")
	return &DB{conn: conn}, nil
}

func (d *DB) WriteRecord(ctx context.Context, p WriteRecordParams) error {
	_, err := d.conn.ExecContext(ctx, insertObservation,
		p.StationID,
		p.RecordedAt,
		p.ShoreStatus,
		p.Temperature,
		p.Pressure,
		p.Humidity,
		p.WindSpeed,
		p.WindDir,
		p.Verdict)
	return err
}

func (d *DB) Close() error {
	return d.conn.Close()
}
