package pulse

import (
	"context"
	"time"

	"github.com/golang/glog"
)

// LevelReader reads the instantaneous logic level of the encoder
// input. Used by Watcher when no event-driven source is available.
type LevelReader interface {
	Level() (bool, error)
}

// Watcher detects rising edges by polling a LevelReader. It is the
// polling counterpart of the event-driven sources: a 0 to 1 level
// transition between two consecutive polls counts as one edge, so the
// poll period must stay well under half the shortest pulse width.
type Watcher struct {
	Reader   LevelReader
	Handler  Handler
	Interval time.Duration

	last bool
}

// DefaultWatchInterval polls fast enough for low pulse-per-rev
// encoders on small DC motors.
const DefaultWatchInterval = 100 * time.Microsecond

// NewWatcher creates a Watcher feeding detected edges to handler.
func NewWatcher(reader LevelReader, handler Handler) *Watcher {
	return &Watcher{Reader: reader, Handler: handler, Interval: DefaultWatchInterval}
}

// Poll reads the level once and reports an edge if a 0 to 1
// transition is observed since the previous poll.
func (w *Watcher) Poll() error {
	level, err := w.Reader.Level()
	if err != nil {
		return err
	}
	if level && !w.last {
		w.Handler.OnEdge()
	}
	w.last = level
	return nil
}

// Run implements Runnable, polling until the context is canceled.
// Read errors are logged and do not stop the watcher; a transient
// read failure must not kill pulse counting mid-sweep.
func (w *Watcher) Run(ctx context.Context) error {
	interval := w.Interval
	if interval == 0 {
		interval = DefaultWatchInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Poll(); err != nil {
				glog.V(2).Infof("encoder poll error: %v", err)
			}
		}
	}
}
