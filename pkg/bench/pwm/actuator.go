// Package pwm abstracts the duty-cycle actuator driving the motor.
package pwm

// Actuator applies a duty-cycle percentage to the motor drive.
// Implementations must tolerate any integer input: the duty is
// clamped to [0,100] before it reaches hardware, silently.
type Actuator interface {
	SetDuty(percent int)
}

// ActuatorFunc is the func form of Actuator.
type ActuatorFunc func(percent int)

// SetDuty implements Actuator.
func (f ActuatorFunc) SetDuty(percent int) { f(Clamp(percent)) }

// MaxDuty is the upper clamp bound, in percent.
const MaxDuty = 100

// Clamp limits a duty percentage to [0,100]. No error is reported;
// an illegal value never reaches hardware.
func Clamp(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > MaxDuty {
		return MaxDuty
	}
	return percent
}
