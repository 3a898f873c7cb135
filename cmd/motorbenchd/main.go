package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/golang/glog"
	tarmserial "github.com/tarm/serial"

	"github.com/oscarg356/motorbench/pkg/bench"
	"github.com/oscarg356/motorbench/pkg/bench/pulse"
	"github.com/oscarg356/motorbench/pkg/bench/pwm"
	"github.com/oscarg356/motorbench/pkg/bench/sim"
	"github.com/oscarg356/motorbench/pkg/console"
	"github.com/oscarg356/motorbench/pkg/env"
	fx "github.com/oscarg356/motorbench/pkg/framework"
)

var (
	simulate   bool
	simMaxRPM  = sim.DefaultConfig().MaxRPM
	simTau     = sim.DefaultConfig().TimeConstant
	simDead    = sim.DefaultConfig().Deadband
	serialDev  string
	serialBaud = 115200
	gpioChip   = "gpiochip0"
	encoderPin = 28
	pollPin    bool
	in1Pin     = 12
	in2Pin     = 13
	pwmChip    = "pwmchip0"
	pwmChannel = 0
	pwmPeriod  = pwm.DefaultPeriod
)

func init() {
	if val := os.Getenv("MOTORBENCH_SERIAL"); val != "" {
		serialDev = val
	}
	flag.BoolVar(&simulate, "sim", simulate, "Run against a simulated motor instead of hardware.")
	flag.Float64Var(&simMaxRPM, "sim-max-rpm", simMaxRPM, "Simulated steady-state RPM at 100% duty.")
	flag.DurationVar(&simTau, "sim-tau", simTau, "Simulated speed response time constant.")
	flag.IntVar(&simDead, "sim-deadband", simDead, "Simulated static friction deadband (percent).")
	flag.StringVar(&serialDev, "serial", serialDev, "Serial device for the command console; empty uses stdio.")
	flag.IntVar(&serialBaud, "baud", serialBaud, "Serial baud rate.")
	flag.StringVar(&gpioChip, "gpiochip", gpioChip, "GPIO character device.")
	flag.IntVar(&encoderPin, "encoder-pin", encoderPin, "Encoder input line offset.")
	flag.BoolVar(&pollPin, "poll", pollPin, "Poll the encoder level instead of using edge events.")
	flag.IntVar(&in1Pin, "in1", in1Pin, "L298 IN1 line offset.")
	flag.IntVar(&in2Pin, "in2", in2Pin, "L298 IN2 line offset.")
	flag.StringVar(&pwmChip, "pwmchip", pwmChip, "sysfs PWM chip.")
	flag.IntVar(&pwmChannel, "pwm-channel", pwmChannel, "sysfs PWM channel.")
	flag.DurationVar(&pwmPeriod, "pwm-period", pwmPeriod, "PWM carrier period.")
	bench.SetupFlags()
}

func main() {
	flag.Parse()

	counter := &pulse.Counter{}
	loop := fx.NewLoop()

	var rw io.ReadWriter
	if serialDev != "" {
		port, err := tarmserial.OpenPort(&tarmserial.Config{Name: serialDev, Baud: serialBaud})
		if err != nil {
			log.Fatalf("open %s: %v", serialDev, err)
		}
		rw = port
	} else {
		rw = struct {
			io.Reader
			io.Writer
		}{os.Stdin, os.Stdout}
	}
	cons := console.New(rw)

	var actuator pwm.Actuator
	if simulate {
		motor := sim.New(sim.Config{
			MaxRPM:       simMaxRPM,
			TimeConstant: simTau,
			PulsesPerRev: uint32(bench.Default().PulsesPerRev),
			Deadband:     simDead,
		}, counter)
		actuator = motor
		loop.AddRunnable(fx.NamedRun("sim-motor", motor))
	} else {
		out, err := pwm.NewSysfs(pwmChip, pwmChannel, pwmPeriod)
		if err != nil {
			log.Fatalln(err)
		}
		drive, err := pwm.NewL298(gpioChip, in1Pin, in2Pin, out)
		if err != nil {
			log.Fatalln(err)
		}
		defer drive.Close()
		actuator = drive

		if pollPin {
			src, err := pulse.NewLineSource(gpioChip, encoderPin, nil)
			if err != nil {
				log.Fatalln(err)
			}
			defer src.Close()
			loop.AddRunnable(fx.NamedRun("encoder-poll", pulse.NewWatcher(src, counter)))
		} else {
			src, err := pulse.NewLineSource(gpioChip, encoderPin, counter)
			if err != nil {
				log.Fatalln(err)
			}
			defer src.Close()
		}
	}

	ctl := bench.NewConfig().NewController(counter, actuator, cons)
	loop.Add(cons, ctl)

	glog.Infof("motorbench %s ready", env.MachineID())
	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("loop", loop))
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
