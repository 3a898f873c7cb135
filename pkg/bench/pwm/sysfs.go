package pwm

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Sysfs drives a hardware PWM channel through the Linux sysfs PWM
// interface (/sys/class/pwm). The period is fixed at construction;
// SetDuty only rewrites the duty_cycle attribute, which is cheap
// enough for the 2 s step cadence of a sweep.
type Sysfs struct {
	dir    string
	period time.Duration
	duty   int
}

// DefaultPeriod gives a 2.5 kHz carrier, comfortably above the
// mechanical bandwidth of small geared DC motors.
const DefaultPeriod = 400 * time.Microsecond

// NewSysfs exports channel on pwmchip chip, programs period and
// enables the output at 0% duty.
func NewSysfs(chip string, channel int, period time.Duration) (*Sysfs, error) {
	if period <= 0 {
		period = DefaultPeriod
	}
	chipDir := filepath.Join("/sys/class/pwm", chip)
	dir := filepath.Join(chipDir, fmt.Sprintf("pwm%d", channel))
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := writeAttr(filepath.Join(chipDir, "export"), strconv.Itoa(channel)); err != nil {
			return nil, fmt.Errorf("export pwm channel %d: %w", channel, err)
		}
	}
	s := &Sysfs{dir: dir, period: period}
	if err := writeAttr(filepath.Join(dir, "period"), strconv.FormatInt(period.Nanoseconds(), 10)); err != nil {
		return nil, fmt.Errorf("set pwm period: %w", err)
	}
	s.SetDuty(0)
	if err := writeAttr(filepath.Join(dir, "enable"), "1"); err != nil {
		return nil, fmt.Errorf("enable pwm: %w", err)
	}
	return s, nil
}

// SetDuty implements Actuator. Write failures are swallowed after
// clamping; the control loop treats actuation as infallible and a
// transient sysfs error must not abort a sweep.
func (s *Sysfs) SetDuty(percent int) {
	s.duty = Clamp(percent)
	ns := s.period.Nanoseconds() * int64(s.duty) / 100
	writeAttr(filepath.Join(s.dir, "duty_cycle"), strconv.FormatInt(ns, 10))
}

// Duty returns the currently applied duty.
func (s *Sysfs) Duty() int {
	return s.duty
}

// Close disables the output.
func (s *Sysfs) Close() error {
	s.SetDuty(0)
	return writeAttr(filepath.Join(s.dir, "enable"), "0")
}

func writeAttr(path, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(value)
	return err
}
