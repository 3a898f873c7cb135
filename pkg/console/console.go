// Package console adapts a line-oriented character channel (stdio or
// a serial port) to the control loop: a background reader parses
// command lines and posts them into the loop, and writes from the
// controller are serialized so reports and CSV export never
// interleave.
package console

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	"github.com/oscarg356/motorbench/pkg/bench"
	fx "github.com/oscarg356/motorbench/pkg/framework"
)

// Console wraps the command channel.
type Console struct {
	rw   io.ReadWriter
	lock sync.Mutex
}

// New creates a Console over rw. If rw implements io.Closer it is
// closed when the loop context is canceled, unblocking the reader.
func New(rw io.ReadWriter) *Console {
	return &Console{rw: rw}
}

// Write implements io.Writer with mutual exclusion across writers.
func (c *Console) Write(p []byte) (int, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.rw.Write(p)
}

// Name implements Named.
func (c *Console) Name() string {
	return "console"
}

// AddToLoop implements LoopAdder.
func (c *Console) AddToLoop(l *fx.Loop) {
	l.AddRunnable(c)
}

// Run implements Runnable: reads command lines until EOF or cancel,
// posting parsed commands into the loop. Malformed or unknown
// commands are logged and ignored; the controller state is never
// disturbed by console noise.
func (c *Console) Run(ctx context.Context) error {
	loopCtl := fx.LoopCtlFrom(ctx)
	read := func() error {
		scanner := bufio.NewScanner(c.rw)
		scanner.Split(scanLines)
		for scanner.Scan() {
			line := scanner.Text()
			msg, err := bench.ParseCommand(line)
			if err != nil {
				glog.V(1).Infof("ignored command %q: %v", line, err)
				continue
			}
			if msg == nil {
				continue
			}
			loopCtl.PostMessage(msg)
			loopCtl.TriggerNext()
		}
		return scanner.Err()
	}
	if closer, ok := c.rw.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, read)
	}
	return fx.RunWithContext(ctx, read)
}

// scanLines splits on either LF or CR so terminals sending bare
// carriage returns still terminate commands.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
