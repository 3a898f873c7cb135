package bench

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	fx "github.com/oscarg356/motorbench/pkg/framework"
)

// StartSweep commands a fresh reaction-curve run.
type StartSweep struct {
	// Step is the duty increment per step; 0 selects the default.
	Step int
}

// SetDuty commands fixed-duty mode at the given percentage.
type SetDuty struct {
	Duty int
}

var (
	// ErrUnknownCommand indicates the command verb is not recognized.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrMissingArgument indicates a required argument is absent.
	ErrMissingArgument = errors.New("missing argument")
)

// ParseCommand parses one console line into a command message.
// A blank line yields (nil, nil). The verb is case-insensitive.
func ParseCommand(line string) (fx.Message, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}
	switch strings.ToUpper(fields[0]) {
	case "START":
		var step int
		if len(fields) > 1 {
			v, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("invalid step %q", fields[1])
			}
			step = v
		}
		return &StartSweep{Step: step}, nil
	case "PWM":
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: PWM requires a value", ErrMissingArgument)
		}
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("invalid duty %q", fields[1])
		}
		return &SetDuty{Duty: v}, nil
	}
	return nil, ErrUnknownCommand
}
