// Package sim provides a simulated DC motor for running the bench
// without hardware: a first-order speed response to the applied duty,
// with an incremental encoder synthesized from the speed.
package sim

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/oscarg356/motorbench/pkg/bench/pulse"
	"github.com/oscarg356/motorbench/pkg/bench/pwm"
)

// Config defines the simulated plant.
type Config struct {
	// MaxRPM is the steady-state speed at 100% duty.
	MaxRPM float64
	// TimeConstant is the first-order lag of the speed response.
	TimeConstant time.Duration
	// PulsesPerRev is the synthesized encoder resolution.
	PulsesPerRev uint32
	// Deadband is the duty below which static friction keeps the
	// shaft stalled.
	Deadband int
}

// DefaultConfig models the small geared motor used on the bench.
func DefaultConfig() Config {
	return Config{
		MaxRPM:       9000,
		TimeConstant: 300 * time.Millisecond,
		PulsesPerRev: 20,
		Deadband:     10,
	}
}

// Motor is the simulated plant. It implements pwm.Actuator on the
// drive side; encoder edges are delivered to the configured Handler
// as simulated time advances.
type Motor struct {
	conf    Config
	handler pulse.Handler

	mu    sync.Mutex
	duty  int
	speed float64
	carry float64
	last  time.Time
}

// New creates a Motor feeding encoder edges to handler.
func New(conf Config, handler pulse.Handler) *Motor {
	if conf.MaxRPM <= 0 {
		conf.MaxRPM = DefaultConfig().MaxRPM
	}
	if conf.TimeConstant <= 0 {
		conf.TimeConstant = DefaultConfig().TimeConstant
	}
	if conf.PulsesPerRev == 0 {
		conf.PulsesPerRev = DefaultConfig().PulsesPerRev
	}
	return &Motor{conf: conf, handler: handler}
}

// SetDuty implements Actuator. The new level takes effect from the
// next Advance.
func (m *Motor) SetDuty(percent int) {
	m.mu.Lock()
	m.duty = pwm.Clamp(percent)
	m.mu.Unlock()
}

// RPM returns the current simulated shaft speed.
func (m *Motor) RPM() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speed
}

// Advance integrates the plant up to now and emits the encoder edges
// elapsed in the interval. Deterministic: tests drive it with a
// scripted clock.
func (m *Motor) Advance(now time.Time) {
	m.mu.Lock()
	if m.last.IsZero() {
		m.last = now
		m.mu.Unlock()
		return
	}
	dt := now.Sub(m.last).Seconds()
	if dt <= 0 {
		m.mu.Unlock()
		return
	}
	m.last = now

	target := 0.0
	if m.duty >= m.conf.Deadband {
		target = m.conf.MaxRPM * float64(m.duty) / 100
	}
	alpha := 1 - math.Exp(-dt*float64(time.Second)/float64(m.conf.TimeConstant))
	m.speed += (target - m.speed) * alpha

	edges := 0
	m.carry += m.speed / 60 * float64(m.conf.PulsesPerRev) * dt
	if m.carry >= 1 {
		edges = int(m.carry)
		m.carry -= float64(edges)
	}
	m.mu.Unlock()

	for i := 0; i < edges; i++ {
		m.handler.OnEdge()
	}
}

// Run implements Runnable, advancing the plant on a millisecond tick
// until the context is canceled.
func (m *Motor) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			m.Advance(now)
		}
	}
}
