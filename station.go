package main

import (
	"github.com/gr-butler/coastnode/data"
	"github.com/gr-butler/coastnode/db/postgres"
	"github.com/gr-butler/coastnode/env"
	"github.com/gr-butler/coastnode/sensors"
	"github.com/gr-butler/coastnode/uplink"
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
)

type station struct {
	s       *sensors.Sensors
	record  *data.Record
	emitter *uplink.Emitter
	clock   clockwork.Clock
	args    env.Args
	Db      *postgres.DB
}

// StartDriverLoop runs the fixed-cadence acquisition/fusion/emit cycle.
// Every stage mutates the shared record in place; the emit path works from
// a snapshot taken at the end of the cycle.
func (w *station) StartDriverLoop() {
	logger.Infof("Starting driver loop, period [%v]", env.LoopPeriod)
	ticker := w.clock.NewTicker(env.LoopPeriod)
	defer ticker.Stop()
	for range ticker.Chan() {
		w.cycle()
	}
}

func (w *station) cycle() {
	w.s.Wind.Tick(w.record)
	w.s.Vane.Poll(w.record)
	w.s.Atm.Poll(w.record)
	w.s.Tide.Poll(w.record)

	snap := w.record.Snapshot()
	verdict := analyzeFeasibility(snap)
	updateMetrics(snap, verdict)
	w.emitter.Emit(snap, verdict)
}

func (w *station) testMode() bool {
	return w.args.Test != nil && *w.args.Test
}

func updateMetrics(snap data.Snapshot, verdict string) {
	Prom_temperature.Set(snap.Temperature)
	Prom_humidity.Set(snap.Humidity)
	Prom_atmPressure.Set(snap.Pressure)
	Prom_windspeed.Set(snap.Speed)
	Prom_windDirection.Set(snap.Direction.Degrees())
	Prom_shoreStatus.Set(float64(snap.ShoreStatus))
	Prom_feasibility.Set(verdictCode(verdict))
}
