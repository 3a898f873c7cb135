// Package rpm converts pulse counts observed over a sampling window
// into rotational speed.
package rpm

// Estimate returns the rotational speed in revolutions per minute for
// pulses counted over interval seconds on an encoder producing
// pulsesPerRev pulses per shaft revolution.
//
// A non-positive interval yields 0 rather than a division by zero;
// this covers a stalled clock or a first call before any window has
// elapsed. A zero pulsesPerRev also yields 0.
func Estimate(pulses uint32, interval float64, pulsesPerRev uint32) float64 {
	if interval <= 0 || pulsesPerRev == 0 {
		return 0
	}
	return float64(pulses) / float64(pulsesPerRev) / interval * 60
}
