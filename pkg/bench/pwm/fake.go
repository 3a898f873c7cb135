package pwm

// Fake is an Actuator for testing that records every applied duty.
type Fake struct {
	// Applied holds every duty value passed to SetDuty, after
	// clamping, in call order.
	Applied []int
}

// SetDuty implements Actuator.
func (f *Fake) SetDuty(percent int) {
	f.Applied = append(f.Applied, Clamp(percent))
}

// Last returns the most recently applied duty, or 0 if none.
func (f *Fake) Last() int {
	if len(f.Applied) == 0 {
		return 0
	}
	return f.Applied[len(f.Applied)-1]
}

// Reset clears the recorded history.
func (f *Fake) Reset() {
	f.Applied = nil
}
