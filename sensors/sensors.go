package sensors

import (
	"fmt"
	"time"

	"github.com/gr-butler/coastnode/env"
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
	"go.bug.st/serial"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

/*
 * Sensors owns the hardware: the anemometer GPIO pin, the two serial
 * peripherals and the BME280 on the I2C bus. The protocol and conversion
 * logic lives with each sensor; this file is wiring.
 */

// serial reads give up after this long so the driver loop can't stall on a
// dead peripheral
const portReadTimeout = 50 * time.Millisecond

type Sensors struct {
	Wind *Anemometer
	Vane *WindVane
	Tide *TideSensor
	Atm  *Atmosphere

	Bus   i2c.BusCloser
	ports []serial.Port
}

func InitSensors(args env.Args, clock clockwork.Clock) (*Sensors, error) {
	s := &Sensors{}

	if _, err := host.Init(); err != nil {
		logger.Errorf("Failed to init periph host [%v]", err)
		return nil, err
	}

	bus, err := i2creg.Open("")
	if err != nil {
		logger.Errorf("failed to open I²C: %v", err)
		return nil, err
	}
	s.Bus = bus

	if flagOn(args.AtmEnabled) {
		// NewAtmosphere logs and returns nil on failure; we run with stale
		// environmental fields rather than refuse to start
		s.Atm = NewAtmosphere(bus, clock)
	}

	windpin := gpioreg.ByName(env.WindSensorIn)
	if windpin == nil {
		_ = bus.Close()
		return nil, fmt.Errorf("failed to find %v - wind pin", env.WindSensorIn)
	}
	logger.Infof("%s: %s", windpin, windpin.Function())
	if err = windpin.In(gpio.PullUp, gpio.RisingEdge); err != nil {
		logger.Error(err)
		_ = bus.Close()
		return nil, err
	}
	s.Wind = NewAnemometer(windpin, clock, args)
	s.Wind.Start()

	if tide, err := s.openPort(*args.TidePort); err != nil {
		logger.Errorf("Failed to open tide ranger port [%v]: [%v]", *args.TidePort, err)
	} else {
		s.Tide = NewTideSensor(tide, clock, args)
	}

	if vane, err := s.openPort(*args.VanePort); err != nil {
		logger.Errorf("Failed to open wind vane port [%v]: [%v]", *args.VanePort, err)
	} else {
		s.Vane = NewWindVane(vane, clock, args)
	}

	logger.Info("Sensors initialized.")
	return s, nil
}

func (s *Sensors) openPort(name string) (serial.Port, error) {
	mode := &serial.Mode{BaudRate: env.PeripheralBaud}
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, err
	}
	if err := p.SetReadTimeout(portReadTimeout); err != nil {
		_ = p.Close()
		return nil, err
	}
	s.ports = append(s.ports, p)
	return p, nil
}

func (s *Sensors) Close() {
	for _, p := range s.ports {
		_ = p.Close()
	}
	if s.Bus != nil {
		_ = s.Bus.Close()
	}
}
