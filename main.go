package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/gr-butler/coastnode/data"
	"github.com/gr-butler/coastnode/db/postgres"
	"github.com/gr-butler/coastnode/env"
	"github.com/gr-butler/coastnode/led"
	"github.com/gr-butler/coastnode/sensors"
	"github.com/gr-butler/coastnode/uplink"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	logger "github.com/sirupsen/logrus"
)

const version = "GRB-Coastnode-0.3.1"

type webdata struct {
	TimeNow      string  `json:"time"`
	Temperature  float64 `json:"temp_C"`
	TempAvg      float64 `json:"temp_avg_C"`
	Humidity     float64 `json:"humidity_RH"`
	Pressure     float64 `json:"pressure_hPa"`
	WindSpeed    float64 `json:"wind_speed_ms"`
	WindSpeedAvg float64 `json:"wind_speed_avg_ms"`
	WindDir      string  `json:"wind_dir"`
	ShoreStatus  string  `json:"shore_status"`
	Verdict      string  `json:"verdict"`
}

var Prom_atmPressure = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "atmospheric_pressure",
		Help: "Atmospheric pressure hPa",
	},
)

var Prom_humidity = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "relative_humidity",
		Help: "Relative Humidity",
	},
)

var Prom_temperature = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "temperature",
		Help: "Temperature C",
	},
)

var Prom_windspeed = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "windspeed",
		Help: "Wind speed m/s",
	},
)

var Prom_windDirection = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "winddirection",
		Help: "Wind direction deg, -1 unknown",
	},
)

var Prom_shoreStatus = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "shore_status",
		Help: "Tide state: 0 unknown, 1 rising, 2 low",
	},
)

var Prom_feasibility = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "sailing_feasibility",
		Help: "Verdict: 0 safe, 1 tide, 2 wind speed, 3 wind direction",
	},
)

// called by prometheus
func init() {
	logger.Infof("%v: Initialize prometheus...", time.Now().Format(time.RFC822))
	prometheus.MustRegister(
		Prom_atmPressure,
		Prom_humidity,
		Prom_temperature,
		Prom_windspeed,
		Prom_windDirection,
		Prom_shoreStatus,
		Prom_feasibility)
}

func main() {
	logger.Infof("Starting coastal telemetry node [%v]", version)

	args := env.Args{
		Test:       flag.Bool("test", false, "test mode, radio/MQTT/db sends disabled"),
		Verbose:    flag.Bool("v", false, "verbose logging"),
		Speedon:    flag.Bool("speedon", false, "log wind speed windows"),
		Diron:      flag.Bool("diron", false, "log wind direction frames"),
		Tideon:     flag.Bool("tideon", false, "log tide frames"),
		AtmEnabled: flag.Bool("atm", true, "enable BME280 environmental readout"),
		StationID:  flag.String("station", "buoy-1", "station ID sent with every record"),
		TidePort:   flag.String("tideport", "/dev/ttyAMA1", "ultrasonic ranger serial port"),
		VanePort:   flag.String("vaneport", "/dev/ttyAMA2", "wind vane serial port"),
		LoraPort:   flag.String("loraport", "/dev/ttyAMA3", "LoRa modem serial port"),
	}
	loraAddress := flag.Int("loraaddr", 21, "LoRa transceiver address")
	loraNetwork := flag.Int("loranet", 18, "LoRa network id")
	loraDest := flag.Int("loradest", 0, "LoRa destination (shore gateway)")
	flag.Parse()

	if *args.Test {
		logger.Info("TEST MODE")
	}
	if *args.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	w := &station{
		clock:  clockwork.NewRealClock(),
		args:   args,
		record: data.NewRecord(),
	}

	logger.Infof("%v: Initialize sensors...", time.Now().Format(time.RFC822))
	s, err := sensors.InitSensors(args, w.clock)
	if err != nil {
		logger.Errorf("Failed to initialise sensors!! [%v]", err)
		logger.Exit(1)
	}
	w.s = s
	defer s.Close()

	heartbeatLED := led.NewLED("Heartbeat", env.HeartbeatLed)
	txLED := led.NewLED("TX", env.TxLed)

	w.emitter = uplink.NewEmitter(*args.StationID, nil)
	if !*args.Test {
		radio, err := uplink.OpenRadio(*args.LoraPort, *loraAddress, *loraNetwork, *loraDest)
		if err != nil {
			logger.Errorf("Failed to open LoRa modem [%v]", err)
		} else {
			w.emitter = uplink.NewEmitter(*args.StationID, radio)
		}
	}
	w.emitter.SetTxLED(txLED)

	if broker, ok := os.LookupEnv("BROKER"); ok && !*args.Test {
		mirror, err := uplink.NewMirror(broker, *args.StationID)
		if err != nil {
			logger.Errorf("Failed to connect MQTT mirror [%v]", err)
		} else {
			w.emitter.SetMirror(mirror)
			defer mirror.Close()
		}
	}

	if dsn, ok := os.LookupEnv("DATABASE_URL"); ok && !*args.Test {
		db, err := postgres.Open(dsn)
		if err != nil {
			logger.Errorf("Failed to open observation archive [%v]", err)
		} else {
			w.Db = db
			defer db.Close()
		}
	}

	// start go routines
	go w.StartDriverLoop()
	go w.Reporting()
	go w.heartbeat(heartbeatLED)

	// start web service
	http.HandleFunc("/", w.handler)
	http.Handle("/metrics", promhttp.Handler())
	logger.Fatal(http.ListenAndServe(":8080", nil))
}

func (w *station) heartbeat(l *led.LED) {
	logger.Info("Heartbeat started")
	for {
		l.Flash()
		time.Sleep(time.Second * 30)
	}
}

func (w *station) handler(rw http.ResponseWriter, r *http.Request) {
	rw.Header().Set("Content-Type", "application/json")
	snap := w.record.Snapshot()
	wd := webdata{
		TimeNow:     time.Now().Format(time.RFC822),
		Temperature: snap.Temperature,
		Humidity:    snap.Humidity,
		Pressure:    snap.Pressure,
		WindSpeed:   snap.Speed,
		WindDir:     snap.Direction.String(),
		ShoreStatus: snap.ShoreStatus.String(),
		Verdict:     analyzeFeasibility(snap),
	}
	if w.s != nil && w.s.Wind != nil {
		wd.WindSpeedAvg = w.s.Wind.AverageSpeed()
	}
	if w.s != nil && w.s.Atm != nil {
		wd.TempAvg = w.s.Atm.AverageTemperature()
	}

	js, err := json.Marshal(wd)
	if err != nil {
		logger.Errorf("JSON error [%v]", err)
		http.Error(rw, err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = rw.Write(js) // not much we can do if this fails
}
