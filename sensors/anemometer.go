package sensors

import (
	"sync"
	"time"

	"github.com/gr-butler/coastnode/buffer"
	"github.com/gr-butler/coastnode/data"
	"github.com/gr-butler/coastnode/env"
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
)

/*
The anemometer closes a reed switch once per rotation. Edges arrive on a GPIO
pin and are counted here; every measurement window the count is drained,
converted to rotations/second and pushed through the calibration polynomial.

The switch bounces, so edges closer together than env.DebounceMicros are
discarded. Edge timestamps are microseconds since start truncated to uint32,
and the age check subtracts them as uint32 so the comparison stays correct
across the ~71 minute wrap.

The edge goroutine and the drain contend only on windLock, and the lock is
held just for the count update / read-and-reset, so no accepted edge is ever
lost or double counted across a drain.
*/

type Anemometer struct {
	gpioPin gpio.PinIO
	clock   clockwork.Clock
	args    env.Args

	windLock   sync.Mutex
	pulseCount uint32
	lastEdge   uint32 // microseconds since start, wraps

	started      time.Time
	windowStart  time.Time
	windowsSeen  int
	publishEvery int

	speedBuf *buffer.SampleBuffer
}

func NewAnemometer(pin gpio.PinIO, clock clockwork.Clock, args env.Args) *Anemometer {
	a := &Anemometer{
		gpioPin:      pin,
		clock:        clock,
		args:         args,
		started:      clock.Now(),
		windowStart:  clock.Now(),
		publishEvery: env.SpeedPublishInterval,
		speedBuf:     buffer.NewBuffer(env.SpeedBufferLength),
	}
	return a
}

// Start begins the edge monitor goroutine.
func (a *Anemometer) Start() {
	logger.Info("Starting wind pulse monitor")
	go func() {
		defer func() { _ = a.gpioPin.Halt() }()
		for {
			// with no timeout a false return means the pin was halted
			if !a.gpioPin.WaitForEdge(-1) {
				logger.Warn("Wind pulse pin halted, stopping monitor")
				return
			}
			a.pulse()
		}
	}()
}

func (a *Anemometer) pulse() {
	now := a.micros()
	a.windLock.Lock()
	defer a.windLock.Unlock()
	if now-a.lastEdge >= env.DebounceMicros {
		a.pulseCount++
		a.lastEdge = now
	}
}

func (a *Anemometer) micros() uint32 {
	return uint32(a.clock.Since(a.started).Microseconds())
}

// Tick is called once per driver cycle. When the measurement window has
// expired it drains the pulse count into a calibrated speed, and every
// publishEvery windows writes that speed into the record.
func (a *Anemometer) Tick(rec *data.Record) {
	if a == nil {
		return
	}
	now := a.clock.Now()
	if now.Sub(a.windowStart) < time.Second*env.MeasureWindowSeconds {
		return
	}
	a.windowStart = now

	count := a.drain()
	rps := float64(count) / float64(env.MeasureWindowSeconds)
	speed := calibratedSpeed(rps)
	a.speedBuf.AddItem(speed)

	if flagOn(a.args.Speedon) {
		logger.Infof("Wind pulses [%v] rps [%.2f] speed [%.2f]m/s", count, rps, speed)
	}

	a.windowsSeen++
	if a.windowsSeen >= a.publishEvery {
		rec.SetSpeed(speed, now)
		a.windowsSeen = 0
	}
}

func (a *Anemometer) drain() uint32 {
	a.windLock.Lock()
	defer a.windLock.Unlock()
	count := a.pulseCount
	a.pulseCount = 0
	return count
}

// AverageSpeed is the rolling average over the last few windows, for the
// status page only; the record carries the per-window value.
func (a *Anemometer) AverageSpeed() float64 {
	avg, _, _, _ := a.speedBuf.GetAverageMinMaxSum()
	return float64(avg)
}

func calibratedSpeed(rps float64) float64 {
	speed := env.CalSquare*rps*rps + env.CalLinear*rps + env.CalOffset
	if speed <= env.MinSpeedMS {
		return 0.0
	}
	return speed
}

func flagOn(b *bool) bool {
	return b != nil && *b
}
