//go:build linux

package pulse

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// LineSource delivers encoder edges from a Linux GPIO character
// device. Rising-edge events fire the Handler from the kernel event
// goroutine, so the Handler must be the atomic Counter (or something
// equally cheap).
type LineSource struct {
	line *gpiocdev.Line
}

// NewLineSource requests pin on chip as a pulled-up input with
// rising-edge detection and routes events to handler. A nil handler
// requests the line without edge detection, for rigs that poll it
// through a Watcher instead.
func NewLineSource(chip string, pin int, handler Handler) (*LineSource, error) {
	opts := []gpiocdev.LineReqOption{
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
	}
	if handler != nil {
		opts = append(opts,
			gpiocdev.WithRisingEdge,
			gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) {
				handler.OnEdge()
			}))
	}
	line, err := gpiocdev.RequestLine(chip, pin, opts...)
	if err != nil {
		return nil, fmt.Errorf("request encoder pin %d: %w", pin, err)
	}
	return &LineSource{line: line}, nil
}

// Level implements LevelReader from the same line, for rigs that
// prefer the polling Watcher over edge events.
func (s *LineSource) Level() (bool, error) {
	v, err := s.line.Value()
	if err != nil {
		return false, fmt.Errorf("read encoder pin: %w", err)
	}
	return v != 0, nil
}

// Close releases the GPIO line.
func (s *LineSource) Close() error {
	return s.line.Close()
}
