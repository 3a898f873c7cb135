//go:build linux

package pwm

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// L298 wraps an Actuator with the IN1/IN2 direction pins of an L298
// H-bridge. The bench only sweeps one direction; the pins are latched
// forward at construction and released on Close.
type L298 struct {
	Actuator

	in1 *gpiocdev.Line
	in2 *gpiocdev.Line
}

// NewL298 claims the two direction outputs on chip and sets them for
// forward rotation (IN1 high, IN2 low).
func NewL298(chip string, in1, in2 int, actuator Actuator) (*L298, error) {
	l1, err := gpiocdev.RequestLine(chip, in1, gpiocdev.AsOutput(1))
	if err != nil {
		return nil, fmt.Errorf("request IN1 pin %d: %w", in1, err)
	}
	l2, err := gpiocdev.RequestLine(chip, in2, gpiocdev.AsOutput(0))
	if err != nil {
		l1.Close()
		return nil, fmt.Errorf("request IN2 pin %d: %w", in2, err)
	}
	return &L298{Actuator: actuator, in1: l1, in2: l2}, nil
}

// Close drops the duty to zero and releases the direction pins.
func (l *L298) Close() error {
	l.SetDuty(0)
	var errs []error
	if err := l.in1.SetValue(0); err != nil {
		errs = append(errs, err)
	}
	if err := l.in1.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := l.in2.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
