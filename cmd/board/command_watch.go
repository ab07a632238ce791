package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

type WatchCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
	log       *slog.Logger
	// signalContext is replaced in tests.
	signalContext func() (context.Context, context.CancelFunc)
}

func NewWatchCommand(stdout, stderr io.Writer, newClient clientFactory, log *slog.Logger) *WatchCommand {
	return &WatchCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
		log:       log,
		signalContext: func() (context.Context, context.CancelFunc) {
			return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		},
	}
}

func (c *WatchCommand) Run(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	interval := fs.Duration("interval", 5*time.Second, "how often to check the service")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", *interval)
	}

	ctx, cancel := c.signalContext()
	defer cancel()

	store, _, remote, err := openBoard(ctx, c.newClient, c.stderr, c.log)
	if err != nil {
		return err
	}
	printBoard(c.stdout, store.View(""))

	err = store.WatchConnectivity(ctx, remote, *interval, func(online bool) {
		if online {
			printBoard(c.stdout, store.View(""))
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
