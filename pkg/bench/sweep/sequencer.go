// Package sweep drives the duty cycle through a triangular ramp and
// captures the motor's reaction curve.
package sweep

import (
	"time"

	"github.com/golang/glog"

	"github.com/oscarg356/motorbench/pkg/bench/pulse"
	"github.com/oscarg356/motorbench/pkg/bench/pwm"
	"github.com/oscarg356/motorbench/pkg/bench/record"
	"github.com/oscarg356/motorbench/pkg/bench/rpm"
)

// Config defines the ramp and sampling timing.
type Config struct {
	// Step is the default duty increment per step tick, used when
	// Start receives no explicit step.
	Step int
	// MaxDuty is the ramp peak, normally 100.
	MaxDuty int
	// SampleInterval is the period of RPM capture during a sweep.
	SampleInterval time.Duration
	// StepInterval is the dwell time at each duty level.
	StepInterval time.Duration
	// PulsesPerRev is the encoder resolution.
	PulsesPerRev uint32
}

// Defaults matching the bench hardware.
const (
	DefaultStep           = 20
	DefaultSampleInterval = 4 * time.Millisecond
	DefaultStepInterval   = 2 * time.Second
	DefaultPulsesPerRev   = 20
)

// DefaultConfig returns the stock bench timing.
func DefaultConfig() Config {
	return Config{
		Step:           DefaultStep,
		MaxDuty:        pwm.MaxDuty,
		SampleInterval: DefaultSampleInterval,
		StepInterval:   DefaultStepInterval,
		PulsesPerRev:   DefaultPulsesPerRev,
	}
}

// Sequencer ramps the duty 0 to MaxDuty and back to 0 in fixed time
// steps while sampling RPM on a shorter, independent period. All
// methods are called from the single control loop goroutine; only the
// pulse counter is shared with another execution context.
type Sequencer struct {
	conf     Config
	counter  pulse.Taker
	actuator pwm.Actuator
	recorder *record.Recorder

	step    int
	duty    int
	dir     int
	running bool

	start      time.Time
	lastSample time.Time
	lastStep   time.Time
}

// New creates a Sequencer.
func New(conf Config, counter pulse.Taker, actuator pwm.Actuator, recorder *record.Recorder) *Sequencer {
	if conf.MaxDuty <= 0 {
		conf.MaxDuty = pwm.MaxDuty
	}
	if conf.Step <= 0 {
		conf.Step = DefaultStep
	}
	if conf.SampleInterval <= 0 {
		conf.SampleInterval = DefaultSampleInterval
	}
	if conf.StepInterval <= 0 {
		conf.StepInterval = DefaultStepInterval
	}
	if conf.PulsesPerRev == 0 {
		conf.PulsesPerRev = DefaultPulsesPerRev
	}
	return &Sequencer{conf: conf, counter: counter, actuator: actuator, recorder: recorder}
}

// Start begins a fresh sweep: duty 0, direction up, buffer cleared,
// timers re-based to now. A sweep already in progress is abandoned
// outright, dropping its unexported samples. step <= 0 selects the
// configured default.
func (s *Sequencer) Start(now time.Time, step int) {
	if step <= 0 {
		step = s.conf.Step
	}
	s.step = step
	s.duty, s.dir = 0, 1
	s.running = true
	s.start, s.lastSample, s.lastStep = now, now, now
	s.recorder.Reset()
	// Discard pulses accumulated before the sweep so the first
	// sampling window only sees its own edges.
	s.counter.TakeAndReset()
	s.actuator.SetDuty(0)
}

// Stop abandons a sweep in progress without touching the actuator.
// Buffered samples stay in the recorder until the next Start.
func (s *Sequencer) Stop() {
	s.running = false
}

// Running reports whether a sweep is in progress.
func (s *Sequencer) Running() bool {
	return s.running
}

// Duty returns the duty currently in effect.
func (s *Sequencer) Duty() int {
	return s.duty
}

// Recorder returns the sample buffer backing this sweep.
func (s *Sequencer) Recorder() *record.Recorder {
	return s.recorder
}

// SampleTick captures one RPM sample if the sampling period has
// elapsed, attributing it to the duty currently in effect. It must be
// called before StepTick within one loop iteration so a sample
// coinciding with a step change records the pre-step duty.
func (s *Sequencer) SampleTick(now time.Time) bool {
	if !s.running || now.Sub(s.lastSample) < s.conf.SampleInterval {
		return false
	}
	pulses := s.counter.TakeAndReset()
	speed := rpm.Estimate(pulses, s.conf.SampleInterval.Seconds(), s.conf.PulsesPerRev)
	rec := record.Record{
		TimeMs: uint32(now.Sub(s.start).Milliseconds()),
		Duty:   uint8(s.duty),
		RPM:    speed,
	}
	if !s.recorder.TryAppend(rec) {
		glog.V(2).Infof("sample buffer full, dropped sample at %dms", rec.TimeMs)
	}
	s.lastSample = now
	return true
}

// StepTick advances the ramp if the dwell time has elapsed and
// reports whether the sweep completed. On the downward ramp crossing
// below zero the sweep ends with the actuator at 0%.
func (s *Sequencer) StepTick(now time.Time) (done bool) {
	if !s.running || now.Sub(s.lastStep) < s.conf.StepInterval {
		return false
	}
	s.lastStep = now
	d := s.duty + s.dir*s.step
	switch {
	case d > s.conf.MaxDuty:
		// Peak reached. Hold the clamped duty and turn around;
		// nothing is re-applied when the level is unchanged.
		if s.duty != s.conf.MaxDuty {
			s.duty = s.conf.MaxDuty
			s.actuator.SetDuty(s.duty)
		}
		s.dir = -1
	case d < 0:
		s.running = false
		if s.duty != 0 {
			s.actuator.SetDuty(0)
		}
		s.duty = 0
		return true
	default:
		s.duty = d
		s.actuator.SetDuty(d)
	}
	return false
}
