// Package motor exposes the bench command protocol as shell commands.
package motor

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/oscarg356/motorbench/pkg/cli/sh"
)

var (
	// StartCmd begins a reaction-curve sweep.
	StartCmd = ishell.Cmd{
		Name:    "start",
		Aliases: []string{"s"},
		Help:    "[STEP]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			line := "START"
			if len(c.Args) > 0 {
				step, err := strconv.Atoi(c.Args[0])
				if err != nil {
					c.Err(fmt.Errorf("Invalid STEP: %v", err))
					return
				}
				line = fmt.Sprintf("START %d", step)
			}
			sh.SendLine(c, line)
		}),
	}

	// PWMCmd enters fixed-duty mode.
	PWMCmd = ishell.Cmd{
		Name:    "pwm",
		Aliases: []string{"p"},
		Help:    "VALUE(0-100)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("VALUE required"))
				return
			}
			duty, err := strconv.Atoi(c.Args[0])
			if err != nil {
				c.Err(fmt.Errorf("Invalid VALUE: %v", err))
				return
			}
			sh.SendLine(c, fmt.Sprintf("PWM %d", duty))
		}),
	}

	// RawCmd sends an arbitrary line, for protocol experiments.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "LINE...",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("LINE required"))
				return
			}
			line := c.Args[0]
			for _, arg := range c.Args[1:] {
				line += " " + arg
			}
			sh.SendLine(c, line)
		}),
	}
)

func init() {
	sh.AddCmds(
		&StartCmd,
		&PWMCmd,
		&RawCmd,
	)
}
