package bench

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oscarg356/motorbench/pkg/bench/pulse"
	"github.com/oscarg356/motorbench/pkg/bench/pwm"
	"github.com/oscarg356/motorbench/pkg/bench/sweep"
	fx "github.com/oscarg356/motorbench/pkg/framework"
)

// testCtx is a scripted ControlContext standing in for the loop.
type testCtx struct {
	now  time.Time
	msgs []fx.Message
}

func (t *testCtx) Time() time.Time            { return t.now }
func (t *testCtx) Context() context.Context   { return context.Background() }
func (t *testCtx) Stage() int                 { return 0 }
func (t *testCtx) Messages() fx.MessageStore  { return t }
func (t *testCtx) PostMessage(msg fx.Message) { t.msgs = append(t.msgs, msg) }
func (t *testCtx) TriggerNext()               {}

func (t *testCtx) AddMessages(msgs ...fx.Message) {
	t.msgs = append(t.msgs, msgs...)
}

func (t *testCtx) ProcessMessages(proc fx.MessageProcessor) {
	msgs := t.msgs
	t.msgs = nil
	for _, msg := range msgs {
		mc := &testMsgCtx{ctx: t, msg: msg}
		proc.ProcessMessage(mc)
		if !mc.taken {
			t.msgs = append(t.msgs, msg)
		}
	}
}

type testMsgCtx struct {
	ctx   *testCtx
	msg   fx.Message
	taken bool
}

func (c *testMsgCtx) CurrentMessage() fx.Message     { return c.msg }
func (c *testMsgCtx) MessageTaken()                  { c.taken = true }
func (c *testMsgCtx) StopProcessing()                {}
func (c *testMsgCtx) AddMessages(msgs ...fx.Message) { c.ctx.AddMessages(msgs...) }

// harness drives the controller through full iterations in stage
// order, exactly as the loop would.
type harness struct {
	t       *testing.T
	ctl     *Controller
	ctx     *testCtx
	fake    *pwm.Fake
	counter *pulse.Counter
	out     strings.Builder
}

func newHarness(t *testing.T) *harness {
	h := &harness{t: t, ctx: &testCtx{now: time.Unix(0, 0)}}
	h.counter = &pulse.Counter{}
	h.fake = &pwm.Fake{}
	h.ctl = NewController(sweep.DefaultConfig(), h.counter, h.fake, DefaultBufferCap, &h.out)
	return h
}

func (h *harness) post(msg fx.Message) {
	h.ctx.PostMessage(msg)
}

func (h *harness) tick(now time.Time) {
	h.t.Helper()
	h.ctx.now = now
	require.NoError(h.t, h.ctl.sense(h.ctx))
	require.NoError(h.t, h.ctl.control(h.ctx))
	require.NoError(h.t, h.ctl.actuate(h.ctx))
	require.NoError(h.t, h.ctl.report(h.ctx))
}

// run advances in 1ms iterations for the given duration.
func (h *harness) run(d time.Duration) {
	end := h.ctx.now.Add(d)
	for h.ctx.now.Before(end) {
		h.tick(h.ctx.now.Add(time.Millisecond))
	}
}

func TestInitialStateIdle(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ModeIdle, h.ctl.Mode())
	h.run(10 * time.Millisecond)
	// Idle ticks have no periodic action.
	require.Empty(t, h.fake.Applied)
	require.Empty(t, h.out.String())
}

func TestPWMCommandClampsAndEntersFixedDuty(t *testing.T) {
	h := newHarness(t)
	h.post(&SetDuty{Duty: 150})
	h.tick(h.ctx.now.Add(time.Millisecond))

	require.Equal(t, ModeFixedDuty, h.ctl.Mode())
	require.Equal(t, 100, h.fake.Last())
	require.Contains(t, h.out.String(), "Modo PWM abierto, PWM=100%")
}

func TestFixedDutyReportsOncePerSecond(t *testing.T) {
	h := newHarness(t)
	h.post(&SetDuty{Duty: 50})
	h.tick(h.ctx.now.Add(time.Millisecond))
	h.out.Reset()

	// 20 pulses over the next second at 20 pulses/rev is 60 RPM.
	for i := 0; i < 20; i++ {
		h.counter.OnEdge()
	}
	h.run(time.Second)
	require.Equal(t, "[PWM] RPM = 60.00\n", h.out.String())

	// Nothing more until another full second elapses.
	h.run(500 * time.Millisecond)
	require.Equal(t, "[PWM] RPM = 60.00\n", h.out.String())
	h.run(500 * time.Millisecond)
	require.Equal(t, "[PWM] RPM = 60.00\n[PWM] RPM = 0.00\n", h.out.String())
}

func TestSweepRunsToCompletion(t *testing.T) {
	h := newHarness(t)
	h.post(&StartSweep{Step: 25})
	h.tick(h.ctx.now.Add(time.Millisecond))
	require.Equal(t, ModeSweep, h.ctl.Mode())
	require.Contains(t, h.out.String(), "Modo CURVA iniciado")

	// 4 steps up, 4 down plus the terminating one: 18 seconds of
	// dwell time covers the whole ramp.
	h.run(20 * time.Second)
	require.Equal(t, ModeIdle, h.ctl.Mode())
	require.Equal(t, []int{0, 25, 50, 75, 100, 75, 50, 25, 0}, h.fake.Applied)

	out := h.out.String()
	require.Contains(t, out, "Curva terminada. Exportando datos...")
	require.Contains(t, out, "Tiempo_ms,PWM,RPM\n")

	// One CSV line per sample tick elapsed during the sweep.
	idx := strings.Index(out, "Tiempo_ms,PWM,RPM\n")
	csv := strings.TrimRight(out[idx:], "\n")
	lines := strings.Split(csv, "\n")
	require.Equal(t, h.ctl.Sequencer().Recorder().Len(), len(lines)-1)
	require.Greater(t, len(lines), 1000)
}

func TestStartAbortsRunningSweep(t *testing.T) {
	h := newHarness(t)
	h.post(&StartSweep{})
	h.tick(h.ctx.now.Add(time.Millisecond))
	h.run(5 * time.Second)
	require.Equal(t, ModeSweep, h.ctl.Mode())
	buffered := h.ctl.Sequencer().Recorder().Len()
	require.NotZero(t, buffered)

	// A new START is a hard reset: buffer cleared, duty back to 0,
	// no export of the aborted run.
	h.fake.Reset()
	h.out.Reset()
	h.post(&StartSweep{Step: 50})
	h.tick(h.ctx.now.Add(time.Millisecond))
	require.Equal(t, ModeSweep, h.ctl.Mode())
	require.Equal(t, []int{0}, h.fake.Applied)
	require.NotContains(t, h.out.String(), "Curva terminada")

	h.run(15 * time.Second)
	require.Equal(t, ModeIdle, h.ctl.Mode())
	require.Equal(t, []int{0, 50, 100, 50, 0}, h.fake.Applied)
}

func TestPWMDuringSweepAbandonsIt(t *testing.T) {
	h := newHarness(t)
	h.post(&StartSweep{})
	h.tick(h.ctx.now.Add(time.Millisecond))
	h.run(3 * time.Second)
	require.Equal(t, ModeSweep, h.ctl.Mode())

	h.post(&SetDuty{Duty: 40})
	h.tick(h.ctx.now.Add(time.Millisecond))
	require.Equal(t, ModeFixedDuty, h.ctl.Mode())
	require.Equal(t, 40, h.fake.Last())

	// The abandoned sweep must not step or export afterwards.
	h.out.Reset()
	applied := len(h.fake.Applied)
	h.run(5 * time.Second)
	require.Len(t, h.fake.Applied, applied)
	require.NotContains(t, h.out.String(), "Curva terminada")
}
