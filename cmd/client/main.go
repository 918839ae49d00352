package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"Portal/internal/cli/bootstrap"
	"Portal/internal/cli/commands"
	"Portal/internal/config"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// Load unified config (env + flags)
	cfg := config.NewConfig()

	if cfg.Version {
		printVersion()
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := bootstrap.New(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}

	// dispatcher
	exitCode := commands.Dispatch(ctx, app, flag.Args())
	if err := app.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
	}
	if exitCode == 0 {
		return
	}
	os.Exit(exitCode)
}

func printVersion() {
	fmt.Printf("Portal CLI\nVersion: %s\nBuild date: %s\n", version, buildDate)
}
