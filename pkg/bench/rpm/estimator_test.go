package rpm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimate(t *testing.T) {
	testCases := []struct {
		name         string
		pulses       uint32
		interval     float64
		pulsesPerRev uint32
		expect       float64
	}{
		{
			name:         "one rev per second",
			pulses:       20,
			interval:     1,
			pulsesPerRev: 20,
			expect:       60,
		},
		{
			name:         "fractional revolutions",
			pulses:       5,
			interval:     1,
			pulsesPerRev: 20,
			expect:       15,
		},
		{
			name:         "four ms window",
			pulses:       10,
			interval:     0.004,
			pulsesPerRev: 20,
			expect:       7500,
		},
		{
			name:         "no pulses",
			pulses:       0,
			interval:     1,
			pulsesPerRev: 20,
			expect:       0,
		},
		{
			name:         "zero interval",
			pulses:       100,
			interval:     0,
			pulsesPerRev: 20,
			expect:       0,
		},
		{
			name:         "negative interval",
			pulses:       100,
			interval:     -1,
			pulsesPerRev: 20,
			expect:       0,
		},
		{
			name:         "zero pulses per rev",
			pulses:       100,
			interval:     1,
			pulsesPerRev: 0,
			expect:       0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, Estimate(tc.pulses, tc.interval, tc.pulsesPerRev))
		})
	}
}
