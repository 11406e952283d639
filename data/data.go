package data

import (
	"sync"
	"time"
)

// holder for the fused telemetry produced by the sensors. One Record lives
// for the whole process; the driver loop mutates it in place each cycle and
// everything downstream works from a Snapshot.

type Direction int

const (
	DirUnknown Direction = iota
	North
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

// wire labels are what goes out over the radio and MQTT; keep them stable
// even if the Go names change.
var directionLabels = map[Direction]string{
	DirUnknown: "unknown",
	North:      "north",
	NorthEast:  "northeast",
	East:       "east",
	SouthEast:  "southeast",
	South:      "south",
	SouthWest:  "southwest",
	West:       "west",
	NorthWest:  "northwest",
}

// The vane reports a single digit 1-8. The numbering is the sensor's, not
// ours: 1 is south and the codes walk clockwise from there.
var directionCodes = map[int]Direction{
	1: South,
	2: SouthWest,
	3: West,
	4: NorthWest,
	5: North,
	6: NorthEast,
	7: East,
	8: SouthEast,
}

func (d Direction) String() string {
	if s, ok := directionLabels[d]; ok {
		return s
	}
	return directionLabels[DirUnknown]
}

// Degrees gives the compass bearing for the metrics gauges, -1 when unknown.
func (d Direction) Degrees() float64 {
	switch d {
	case North:
		return 0
	case NorthEast:
		return 45
	case East:
		return 90
	case SouthEast:
		return 135
	case South:
		return 180
	case SouthWest:
		return 225
	case West:
		return 270
	case NorthWest:
		return 315
	default:
		return -1
	}
}

// DirectionFromCode maps a vane digit to a compass direction. ok is false
// for anything outside 1-8, in which case the caller keeps its last value.
func DirectionFromCode(code int) (Direction, bool) {
	d, ok := directionCodes[code]
	return d, ok
}

type ShoreStatus int

const (
	ShoreUnknown ShoreStatus = iota
	RisingTide
	LowTide
)

var shoreLabels = map[ShoreStatus]string{
	ShoreUnknown: "unknown",
	RisingTide:   "RISING_TIDE",
	LowTide:      "LOW_TIDE",
}

func (s ShoreStatus) String() string {
	if l, ok := shoreLabels[s]; ok {
		return l
	}
	return shoreLabels[ShoreUnknown]
}

// Record is the single fused telemetry entity. Writers are the individual
// sensor stages, each owning its fields; readers take a Snapshot. The lock
// only matters for the status endpoint, the driver loop itself is
// single-threaded.
type Record struct {
	lock sync.Mutex

	temperature float64
	humidity    float64
	pressure    float64
	speed       float64
	waveCount   int // reserved for the wave sensor head, never populated yet
	direction   Direction
	shoreStatus ShoreStatus

	envAt   time.Time
	speedAt time.Time
	dirAt   time.Time
	shoreAt time.Time
}

// Snapshot is a point-in-time copy of the record, safe to hold across the
// emit/report path.
type Snapshot struct {
	Temperature float64
	Humidity    float64
	Pressure    float64
	Speed       float64
	WaveCount   int
	Direction   Direction
	ShoreStatus ShoreStatus

	EnvAt   time.Time
	SpeedAt time.Time
	DirAt   time.Time
	ShoreAt time.Time
}

func NewRecord() *Record {
	return &Record{
		direction:   DirUnknown,
		shoreStatus: ShoreUnknown,
	}
}

func (r *Record) SetEnvironment(tempC, humidity, pressure float64, at time.Time) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.temperature = tempC
	r.humidity = humidity
	r.pressure = pressure
	r.envAt = at
}

func (r *Record) SetSpeed(ms float64, at time.Time) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.speed = ms
	r.speedAt = at
}

func (r *Record) SetDirection(d Direction, at time.Time) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.direction = d
	r.dirAt = at
}

func (r *Record) SetShoreStatus(s ShoreStatus, at time.Time) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.shoreStatus = s
	r.shoreAt = at
}

func (r *Record) Snapshot() Snapshot {
	r.lock.Lock()
	defer r.lock.Unlock()
	return Snapshot{
		Temperature: r.temperature,
		Humidity:    r.humidity,
		Pressure:    r.pressure,
		Speed:       r.speed,
		WaveCount:   r.waveCount,
		Direction:   r.direction,
		ShoreStatus: r.shoreStatus,
		EnvAt:       r.envAt,
		SpeedAt:     r.speedAt,
		DirAt:       r.dirAt,
		ShoreAt:     r.shoreAt,
	}
}
