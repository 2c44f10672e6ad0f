package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"remindme/internal/app"
	"remindme/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, cfgm, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}

	a, err := app.New(cfg, cfgm)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}

	if err := a.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "fatal start:", err)
		os.Exit(1)
	}

	select {
	case <-ctx.Done():
	case <-a.Done():
	}
	_ = a.Stop(context.Background())
	if err := a.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}
