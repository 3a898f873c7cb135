// Package bench implements the motor bench controller: a state
// machine over Idle, FixedDuty and Sweep driven by console commands
// and the shared loop clock.
package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/oscarg356/motorbench/pkg/bench/pulse"
	"github.com/oscarg356/motorbench/pkg/bench/pwm"
	"github.com/oscarg356/motorbench/pkg/bench/record"
	"github.com/oscarg356/motorbench/pkg/bench/rpm"
	"github.com/oscarg356/motorbench/pkg/bench/sweep"
	fx "github.com/oscarg356/motorbench/pkg/framework"
)

// Mode is the controller state.
type Mode int

// Controller states. Idle is initial; FixedDuty and Sweep are entered
// by command and return to Idle on command or sweep completion.
const (
	ModeIdle Mode = iota
	ModeFixedDuty
	ModeSweep
)

// String implements Stringer.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "Idle"
	case ModeFixedDuty:
		return "FixedDuty"
	case ModeSweep:
		return "Sweep"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// reportInterval is the FixedDuty RPM print period.
const reportInterval = time.Second

// Controller owns all bench state: the pulse counter, the actuator,
// the sweep sequencer and the sample buffer. Apart from the counter,
// which the edge source increments asynchronously, every field is
// touched only from the loop goroutine.
type Controller struct {
	counter      pulse.Taker
	actuator     pwm.Actuator
	seq          *sweep.Sequencer
	out          io.Writer
	pulsesPerRev uint32

	mode          Mode
	fixedDuty     int
	lastReport    time.Time
	exportPending bool
}

// NewController creates the bench controller writing console output
// to out.
func NewController(conf sweep.Config, counter pulse.Taker, actuator pwm.Actuator, capacity int, out io.Writer) *Controller {
	if capacity <= 0 {
		capacity = DefaultBufferCap
	}
	seq := sweep.New(conf, counter, actuator, record.NewRecorder(capacity))
	return &Controller{
		counter:      counter,
		actuator:     actuator,
		seq:          seq,
		out:          out,
		pulsesPerRev: conf.PulsesPerRev,
	}
}

// Mode returns the current state.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Sequencer exposes the sweep sequencer.
func (c *Controller) Sequencer() *sweep.Sequencer {
	return c.seq
}

// AddToLoop implements LoopAdder. The controller participates in all
// four stages; the stage ordering is what guarantees samples are
// attributed to the duty in effect before any step change of the same
// iteration.
func (c *Controller) AddToLoop(l *fx.Loop) {
	l.At(fx.StageSense, fx.ControlFunc(c.sense))
	l.At(fx.StageControl, fx.ControlFunc(c.control))
	l.At(fx.StageActuate, fx.ControlFunc(c.actuate))
	l.At(fx.StageReport, fx.ControlFunc(c.report))
}

func (c *Controller) sense(cc fx.ControlContext) error {
	if c.mode == ModeSweep {
		c.seq.SampleTick(cc.Time())
	}
	return nil
}

func (c *Controller) control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		switch msg := mctx.CurrentMessage().(type) {
		case *StartSweep:
			mctx.MessageTaken()
			c.startSweep(cc.Time(), msg.Step)
		case *SetDuty:
			mctx.MessageTaken()
			c.enterFixedDuty(cc.Time(), msg.Duty)
		}
	}))
	return nil
}

func (c *Controller) actuate(cc fx.ControlContext) error {
	if c.mode != ModeSweep {
		return nil
	}
	if c.seq.StepTick(cc.Time()) {
		glog.V(1).Infof("sweep complete, %d samples buffered", c.seq.Recorder().Len())
		c.mode = ModeIdle
		c.exportPending = true
	}
	return nil
}

func (c *Controller) report(cc fx.ControlContext) error {
	if c.exportPending {
		c.exportPending = false
		if err := c.exportCurve(); err != nil {
			return err
		}
	}
	if c.mode == ModeFixedDuty {
		now := cc.Time()
		if interval := now.Sub(c.lastReport); interval >= reportInterval {
			pulses := c.counter.TakeAndReset()
			speed := rpm.Estimate(pulses, interval.Seconds(), c.pulsesPerRev)
			c.lastReport = now
			if _, err := fmt.Fprintf(c.out, "[PWM] RPM = %.2f\n", speed); err != nil {
				return err
			}
		}
	}
	return nil
}

// startSweep hard-resets any run in progress and begins a new one.
// Unexported samples of an aborted sweep are discarded.
func (c *Controller) startSweep(now time.Time, step int) {
	c.seq.Start(now, step)
	c.mode = ModeSweep
	c.exportPending = false
	glog.V(1).Infof("sweep started, step=%d", step)
	fmt.Fprintln(c.out, "Modo CURVA iniciado")
}

// enterFixedDuty applies the clamped duty immediately and starts the
// once-per-second reporting timer. A sweep in progress is abandoned.
func (c *Controller) enterFixedDuty(now time.Time, duty int) {
	duty = pwm.Clamp(duty)
	c.seq.Stop()
	c.actuator.SetDuty(duty)
	c.mode, c.fixedDuty = ModeFixedDuty, duty
	c.lastReport = now
	// Drop pulses from before mode entry so the first report only
	// covers its own second.
	c.counter.TakeAndReset()
	fmt.Fprintf(c.out, "Modo PWM abierto, PWM=%d%%\n", duty)
}

func (c *Controller) exportCurve() error {
	if _, err := fmt.Fprintln(c.out, "Curva terminada. Exportando datos..."); err != nil {
		return err
	}
	return c.seq.Recorder().WriteCSV(c.out)
}
