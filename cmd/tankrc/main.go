package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/calvinmclean/tankrc/controller"
	"github.com/calvinmclean/tankrc/ui"
)

func main() {
	if os.Getenv("ENABLE_UI") == "true" {
		runUI()
		return
	}

	runCLI()
}

func runUI() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ui.NewSimulatorUI().Run(ctx)
}

func runCLI() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c, err := controller.NewFromEnv()
	if err != nil {
		panic(err)
	}
	defer c.Close()

	err = c.Run(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		panic(err)
	}
}
