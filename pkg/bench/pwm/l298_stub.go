//go:build !linux

package pwm

import "errors"

// L298 is not available on non-Linux platforms.
type L298 struct {
	Actuator
}

// NewL298 returns an error on non-Linux platforms.
func NewL298(chip string, in1, in2 int, actuator Actuator) (*L298, error) {
	return nil, errors.New("pwm: L298 direction pins require Linux")
}

// Close is not implemented on non-Linux platforms.
func (l *L298) Close() error {
	return nil
}
