package sweep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oscarg356/motorbench/pkg/bench/pulse"
	"github.com/oscarg356/motorbench/pkg/bench/pwm"
	"github.com/oscarg356/motorbench/pkg/bench/record"
)

func newTestSequencer(capacity int) (*Sequencer, *pwm.Fake, *pulse.Counter) {
	counter := &pulse.Counter{}
	fake := &pwm.Fake{}
	rec := record.NewRecorder(capacity)
	seq := New(DefaultConfig(), counter, fake, rec)
	return seq, fake, counter
}

// runToCompletion ticks the sequencer at 1ms resolution until the
// sweep terminates, mimicking the control loop ordering of sample
// before step.
func runToCompletion(t *testing.T, seq *Sequencer, start time.Time) time.Time {
	t.Helper()
	now := start
	for i := 0; i < 60000; i++ {
		now = now.Add(time.Millisecond)
		seq.SampleTick(now)
		if seq.StepTick(now) {
			return now
		}
	}
	t.Fatal("sweep did not terminate")
	return now
}

func TestSweepDutySequence(t *testing.T) {
	testCases := []struct {
		name   string
		step   int
		expect []int
	}{
		{
			name:   "default step",
			step:   0,
			expect: []int{0, 20, 40, 60, 80, 100, 80, 60, 40, 20, 0},
		},
		{
			name:   "step 25",
			step:   25,
			expect: []int{0, 25, 50, 75, 100, 75, 50, 25, 0},
		},
		{
			name:   "step 30 overshoots peak",
			step:   30,
			expect: []int{0, 30, 60, 90, 100, 70, 40, 10, 0},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			seq, fake, _ := newTestSequencer(100000)
			start := time.Unix(0, 0)
			seq.Start(start, tc.step)
			runToCompletion(t, seq, start)
			require.Equal(t, tc.expect, fake.Applied)
			require.False(t, seq.Running())
			require.Equal(t, 0, seq.Duty())
		})
	}
}

func TestSweepRecordsSamples(t *testing.T) {
	seq, _, counter := newTestSequencer(100000)
	start := time.Unix(0, 0)
	seq.Start(start, 20)

	// 10 pulses within the first 4ms window with 20 pulses/rev
	// gives 7500 RPM.
	for i := 0; i < 10; i++ {
		counter.OnEdge()
	}
	require.False(t, seq.SampleTick(start.Add(3*time.Millisecond)))
	require.True(t, seq.SampleTick(start.Add(4*time.Millisecond)))

	recs := seq.Recorder().Export()
	require.Len(t, recs, 1)
	require.Equal(t, uint32(4), recs[0].TimeMs)
	require.Equal(t, uint8(0), recs[0].Duty)
	require.Equal(t, 7500.0, recs[0].RPM)
}

func TestSampleBeforeStepAttribution(t *testing.T) {
	seq, _, _ := newTestSequencer(100000)
	start := time.Unix(0, 0)
	seq.Start(start, 20)

	// At exactly one step interval both ticks are due. The sample
	// taken in the same iteration must carry the pre-step duty.
	boundary := start.Add(DefaultStepInterval)
	require.True(t, seq.SampleTick(boundary))
	require.False(t, seq.StepTick(boundary))
	require.Equal(t, 20, seq.Duty())

	recs := seq.Recorder().Export()
	last := recs[len(recs)-1]
	require.Equal(t, uint8(0), last.Duty)
}

func TestRestartResetsState(t *testing.T) {
	seq, fake, _ := newTestSequencer(100000)
	start := time.Unix(0, 0)
	seq.Start(start, 20)

	// Run partway: a few samples and two duty steps.
	now := start
	for i := 0; i < 5000; i++ {
		now = now.Add(time.Millisecond)
		seq.SampleTick(now)
		seq.StepTick(now)
	}
	require.True(t, seq.Running())
	require.NotZero(t, seq.Recorder().Len())
	require.NotZero(t, seq.Duty())

	// A new START aborts the run: duty back to 0, buffer emptied.
	fake.Reset()
	seq.Start(now, 25)
	require.Equal(t, 0, seq.Duty())
	require.Equal(t, 0, seq.Recorder().Len())
	require.Equal(t, []int{0}, fake.Applied)

	runToCompletion(t, seq, now)
	require.Equal(t, []int{0, 25, 50, 75, 100, 75, 50, 25, 0}, fake.Applied)
}

func TestSamplesDroppedAtCapacity(t *testing.T) {
	seq, _, _ := newTestSequencer(3)
	start := time.Unix(0, 0)
	seq.Start(start, 20)

	now := start
	for i := 0; i < 6; i++ {
		now = now.Add(DefaultSampleInterval)
		require.True(t, seq.SampleTick(now))
	}
	require.Equal(t, 3, seq.Recorder().Len())
	require.Equal(t, 3, seq.Recorder().Dropped())
}
