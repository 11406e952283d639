package main

import "github.com/gr-butler/coastnode/data"

// Sailing safety threshold for wind speed, m/s.
const maxSafeWindSpeedMS = 10.0

const (
	VerdictTideRising   = "unsafe: tide rising"
	VerdictWindTooHigh  = "unsafe: wind speed too high"
	VerdictBadDirection = "unsafe: unfavorable wind direction"
	VerdictSafe         = "safe to sail"
)

// analyzeFeasibility maps the fused record to a sailing verdict. The checks
// are strictly ordered: a rising tide outranks wind speed, which outranks
// wind direction, so a record tripping several conditions only ever reports
// the first. Onshore winds from the south or southwest are the unsafe
// directions for this coastline.
func analyzeFeasibility(snap data.Snapshot) string {
	if snap.ShoreStatus == data.RisingTide {
		return VerdictTideRising
	}
	if snap.Speed > maxSafeWindSpeedMS {
		return VerdictWindTooHigh
	}
	if snap.Direction == data.South || snap.Direction == data.SouthWest {
		return VerdictBadDirection
	}
	return VerdictSafe
}

// verdictCode is the numeric form for the feasibility gauge: 0 safe, then
// the unsafe reasons in priority order.
func verdictCode(verdict string) float64 {
	switch verdict {
	case VerdictTideRising:
		return 1
	case VerdictWindTooHigh:
		return 2
	case VerdictBadDirection:
		return 3
	default:
		return 0
	}
}
