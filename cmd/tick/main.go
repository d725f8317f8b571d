// Package main is the entry point for the tick CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tick/internal/backend/ticktick"
	"tick/internal/cli"
	"tick/internal/commands"
	"tick/internal/config"
	"tick/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// A missing token is not an error here: the client reports
	// AUTH_REQUIRED on first use without touching the network.
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		token, err := cfg.LoadToken()
		if err != nil {
			return nil, err
		}
		return ticktick.New(token, cfg.Log), nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
