// Package controller is the host side of the robot's serial console. It forwards commands typed on
// the host to the firmware and copies the firmware's log output back
package controller

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"github.com/calvinmclean/tankrc/rc"
)

// SerialPortNone is offered alongside detected ports so a user can run without hardware attached
const SerialPortNone = "None"

var (
	ErrNoUSBSerial = errors.New("no USB serial ports found")
	ErrNoPort      = errors.New("no serial port selected")
)

// Config selects and configures the serial port
type Config struct {
	SerialPort string `env:"SERIAL_PORT"`
	BaudRate   int    `env:"BAUD_RATE" envDefault:"115200"`
}

// Controller owns the serial connection to the robot
type Controller struct {
	port io.ReadWriteCloser
}

// NewFromEnv reads Config from TANKRC_ environment variables. If no port is set, the first USB
// serial port is used
func NewFromEnv() (*Controller, error) {
	var cfg Config
	err := env.ParseWithOptions(&cfg, env.Options{Prefix: rc.EnvPrefix})
	if err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.SerialPort == "" {
		ports, err := GetSerialPorts()
		if err != nil {
			return nil, err
		}
		cfg.SerialPort = ports[0]
	}

	return New(cfg)
}

// New opens the configured serial port
func New(cfg Config) (*Controller, error) {
	if cfg.SerialPort == "" || cfg.SerialPort == SerialPortNone {
		return nil, ErrNoPort
	}

	port, err := serial.Open(cfg.SerialPort, &serial.Mode{
		BaudRate: cfg.BaudRate,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening serial port %q: %w", cfg.SerialPort, err)
	}

	return newController(port), nil
}

func newController(port io.ReadWriteCloser) *Controller {
	return &Controller{port: port}
}

// GetSerialPorts lists the names of USB serial ports
func GetSerialPorts() ([]string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("error listing serial ports: %w", err)
	}

	var names []string
	for _, port := range ports {
		if port.IsUSB {
			names = append(names, port.Name)
		}
	}

	if len(names) == 0 {
		return nil, ErrNoUSBSerial
	}

	return names, nil
}

// Run copies firmware output to out and sends each line read from in as console commands. It returns
// when the context is cancelled or the serial connection fails. Running out of input does not stop
// the output
func (c *Controller) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	errs := make(chan error, 2)

	go func() {
		_, err := io.Copy(out, c.port)
		if err == nil {
			err = io.EOF
		}
		errs <- fmt.Errorf("error reading serial: %w", err)
	}()

	go func() {
		err := c.send(in)
		if err != nil {
			errs <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errs:
		return err
	}
}

// Send writes a single console command
func (c *Controller) Send(cmd string) error {
	cmd = strings.ToUpper(strings.TrimSpace(cmd))
	if cmd == "" {
		return nil
	}

	_, err := io.WriteString(c.port, cmd)
	if err != nil {
		return fmt.Errorf("error writing serial: %w", err)
	}
	return nil
}

func (c *Controller) send(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		err := c.Send(scanner.Text())
		if err != nil {
			return err
		}
	}

	err := scanner.Err()
	if err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}

// Close closes the serial port
func (c *Controller) Close() error {
	return c.port.Close()
}
