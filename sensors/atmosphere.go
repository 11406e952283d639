package sensors

import (
	"math"

	"github.com/gr-butler/coastnode/buffer"
	"github.com/gr-butler/coastnode/data"
	"github.com/gr-butler/coastnode/env"
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
)

const BME280_I2C = 0x76

// Atmosphere reads temperature, humidity and pressure off the BME280.

type Atmosphere struct {
	dev     *bmxx80.Dev
	clock   clockwork.Clock
	tempBuf *buffer.SampleBuffer
}

func NewAtmosphere(bus i2c.Bus, clock clockwork.Clock) *Atmosphere {
	logger.Infof("Starting BME280 reader [%x]", BME280_I2C)
	bme, err := bmxx80.NewI2C(bus, BME280_I2C, &bmxx80.DefaultOpts)
	if err != nil {
		logger.Errorf("failed to initialize bme280: %v", err)
		return nil
	}
	return &Atmosphere{
		dev:     bme,
		clock:   clock,
		tempBuf: buffer.NewBuffer(env.TempBufferLength),
	}
}

// Poll senses the environment and writes it into the record. A failed read
// is logged and the record keeps its previous values.
func (a *Atmosphere) Poll(rec *data.Record) {
	if a == nil || a.dev == nil {
		return
	}
	em := physic.Env{}
	if err := a.dev.Sense(&em); err != nil {
		logger.Errorf("BME280 read failed [%v]", err)
		return
	}
	temp := em.Temperature.Celsius()
	humidity := math.Round(float64(em.Humidity) / float64(physic.PercentRH))
	pressure := math.Round((float64(em.Pressure)/float64(100*physic.Pascal))*100) / 100
	a.update(rec, temp, humidity, pressure)
}

func (a *Atmosphere) update(rec *data.Record, tempC, humidity, pressure float64) {
	a.tempBuf.AddItem(tempC)
	rec.SetEnvironment(tempC, humidity, pressure, a.clock.Now())
}

// AverageTemperature is the rolling average over the last minute of polls,
// for the status page only; the record carries the per-poll value.
func (a *Atmosphere) AverageTemperature() float64 {
	if a == nil {
		return 0
	}
	return float64(a.tempBuf.AverageLast(env.TempAverageSamples))
}
