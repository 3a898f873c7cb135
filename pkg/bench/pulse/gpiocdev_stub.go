//go:build !linux

package pulse

import "errors"

// LineSource is not available on non-Linux platforms.
type LineSource struct{}

// NewLineSource returns an error on non-Linux platforms.
func NewLineSource(chip string, pin int, handler Handler) (*LineSource, error) {
	return nil, errors.New("pulse: gpio edge events require Linux")
}

// Level is not implemented on non-Linux platforms.
func (s *LineSource) Level() (bool, error) {
	return false, errors.New("pulse: not supported")
}

// Close is not implemented on non-Linux platforms.
func (s *LineSource) Close() error {
	return nil
}
