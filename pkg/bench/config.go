package bench

import (
	"flag"
	"io"
	"time"

	"github.com/oscarg356/motorbench/pkg/bench/pulse"
	"github.com/oscarg356/motorbench/pkg/bench/pwm"
	"github.com/oscarg356/motorbench/pkg/bench/sweep"
)

// DefaultBufferCap bounds the sample buffer, sized for the longest
// default sweep at the default sampling rate.
const DefaultBufferCap = 10000

// Config defines the configuration for the bench controller.
type Config struct {
	Step           int
	MaxDuty        int
	SampleInterval time.Duration
	StepInterval   time.Duration
	PulsesPerRev   uint
	BufferCap      int
}

var defaultConfig = Config{
	Step:           sweep.DefaultStep,
	MaxDuty:        pwm.MaxDuty,
	SampleInterval: sweep.DefaultSampleInterval,
	StepInterval:   sweep.DefaultStepInterval,
	PulsesPerRev:   sweep.DefaultPulsesPerRev,
	BufferCap:      DefaultBufferCap,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.Step, "sweep-step", defaultConfig.Step, "Default duty step per sweep interval.")
	flag.IntVar(&defaultConfig.MaxDuty, "max-duty", defaultConfig.MaxDuty, "Sweep peak duty (percent).")
	flag.DurationVar(&defaultConfig.SampleInterval, "sample-interval", defaultConfig.SampleInterval, "RPM sampling period during a sweep.")
	flag.DurationVar(&defaultConfig.StepInterval, "step-interval", defaultConfig.StepInterval, "Dwell time at each duty level.")
	flag.UintVar(&defaultConfig.PulsesPerRev, "pulses-per-rev", defaultConfig.PulsesPerRev, "Encoder pulses per shaft revolution.")
	flag.IntVar(&defaultConfig.BufferCap, "buffer-cap", defaultConfig.BufferCap, "Maximum buffered samples per sweep.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// SweepConfig converts to the sequencer timing.
func (c *Config) SweepConfig() sweep.Config {
	return sweep.Config{
		Step:           c.Step,
		MaxDuty:        c.MaxDuty,
		SampleInterval: c.SampleInterval,
		StepInterval:   c.StepInterval,
		PulsesPerRev:   uint32(c.PulsesPerRev),
	}
}

// NewController creates the Controller using the config.
func (c *Config) NewController(counter pulse.Taker, actuator pwm.Actuator, out io.Writer) *Controller {
	return NewController(c.SweepConfig(), counter, actuator, c.BufferCap, out)
}
