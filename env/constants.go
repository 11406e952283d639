package env

import "time"

const (
	GPIO12 = "GPIO12"
	GPIO14 = "GPIO14" // anemometer pulse
	GPIO19 = "GPIO19" // TX LED
	GPIO20 = "GPIO20" // heartbeat LED

	WindSensorIn = GPIO14

	HeartbeatLed = GPIO20
	TxLed        = GPIO19

	// Serial peripherals. The ultrasonic ranger, the wind vane and the LoRa
	// modem all talk 9600 8N1.
	PeripheralBaud = 9600

	// The anemometer reed switch bounces; edges closer together than this
	// belong to the same rotation.
	DebounceMicros uint32 = 5000

	// Wind speed integration window.
	MeasureWindowSeconds = 10

	// Publish the computed speed into the record every Nth window.
	SpeedPublishInterval = 2

	// Calibration polynomial mapping rotations/second to metres/second,
	// from bench characterisation of the anemometer:
	// speed = CalSquare*r^2 + CalLinear*r + CalOffset
	CalSquare = -0.0181
	CalLinear = 1.3859
	CalOffset = 1.4055

	// The anemometer can't resolve anything below 1.5 m/s; readings at or
	// under it are noise and clamp to zero.
	MinSpeedMS = 1.5

	// Water closer than this to the ultrasonic head means the tide is in.
	DepthThresholdMM = 500

	// Driver loop cadence and shore report cadence.
	LoopPeriod    = time.Second
	ReportFreqMin = 1

	// Windows kept for the rolling speed average on the status page.
	SpeedBufferLength = 60

	// Temperature samples kept (one per loop cycle) and the slice of them
	// averaged for the status page.
	TempBufferLength   = 300
	TempAverageSamples = 60
)
