// Package sh provides the ishell backed operator console for a bench
// reachable over a serial line.
package sh

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/tarm/serial"
)

// Shell wraps an interactive ishell session and the serial link to
// the bench.
type Shell struct {
	Interactive bool
	AutoConnect bool

	Shell *ishell.Shell
	Link  *Link
}

// Link is an open line channel to a bench.
type Link struct {
	Device string

	port *serial.Port
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly     bool
	serialDevice = "/dev/ttyACM0"
	serialBaud   = 115200

	// commands
	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	if val := os.Getenv("MOTORBENCH_SERIAL"); val != "" {
		serialDevice = val
	}
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.StringVar(&serialDevice, "serial", serialDevice, "Serial device of the bench.")
	flag.IntVar(&serialBaud, "baud", serialBaud, "Serial baud rate.")
}

// AddCmds is used by other command providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New() *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		Shell:       ishell.New(),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps a command func which requires a link.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Link == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// SendLine sends one command line to the connected bench.
func SendLine(c *ishell.Context, line string) {
	s := ShellFrom(c)
	if s.Link == nil {
		c.Err(fmt.Errorf("not connected"))
		return
	}
	if err := s.Link.SendLine(line); err != nil {
		c.Err(err)
	}
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Connect opens the serial link and starts echoing bench output.
func (s *Shell) Connect(device string) error {
	port, err := serial.OpenPort(&serial.Config{Name: device, Baud: serialBaud})
	if err != nil {
		return err
	}
	if s.Link != nil {
		s.Link.Close()
	}
	s.Link = &Link{Device: device, port: port}
	go s.echo(s.Link)
	s.Shell.SetPrompt(fmt.Sprintf("[%s] > ", device))
	return nil
}

// Disconnect closes the current link.
func (s *Shell) Disconnect() {
	if s.Link != nil {
		s.Link.Close()
		s.Link = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// echo copies bench output lines (RPM reports, exported CSV) to the
// terminal until the link closes.
func (s *Shell) echo(link *Link) {
	scanner := bufio.NewScanner(link.port)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			s.Shell.Println(line)
		}
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && serialDevice != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", serialDevice)
		}
		if err := s.Connect(serialDevice); err != nil {
			log.Fatalf("connect %q failed: %v", serialDevice, err)
		}
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// SendLine writes one command line terminated by newline.
func (l *Link) SendLine(line string) error {
	_, err := l.port.Write([]byte(line + "\n"))
	return err
}

// Close closes the serial port.
func (l *Link) Close() error {
	return l.port.Close()
}

var (
	// ConnectCmd connects a bench over serial.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[DEVICE]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			device := serialDevice
			if len(c.Args) > 0 {
				device = c.Args[0]
			}
			if err := s.Connect(device); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects the current bench.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New().WithAutoConnect(true).Run(flag.Args()...)
}
