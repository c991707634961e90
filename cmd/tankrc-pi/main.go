//go:build linux

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calvinmclean/tankrc/gpio"
	"github.com/calvinmclean/tankrc/rc"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := rc.ConfigFromEnv()
	if err != nil {
		panic(err)
	}
	// leave CPU for the kernel edge handling
	if cfg.LoopInterval == 0 {
		cfg.LoopInterval = time.Millisecond
	}

	gpioCfg, err := gpio.ConfigFromEnv()
	if err != nil {
		panic(err)
	}
	gpioCfg.MaxCommand = cfg.MaxCommand

	clock := rc.SystemClock{}

	d, err := gpio.New(gpioCfg, clock)
	if err != nil {
		panic(err)
	}
	defer d.Close()

	c, err := rc.New(d.Capture, d.Motors, d.Headlight, cfg, clock)
	if err != nil {
		panic(err)
	}
	c.SetIndicator(d.Status)

	if os.Getenv("TANKRC_VERBOSE") == "true" {
		c.Verbose()
	}

	err = c.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		panic(err)
	}
}
