package main

import (
	"io"
	"log/slog"
	"os"

	"thinkvault/internal/board"
	"thinkvault/internal/client"
	"thinkvault/internal/config"
)

type commandRunner interface {
	Run(args []string) error
}

// boardClient is what the commands need from the notes service.
type boardClient interface {
	board.Remote
	board.Pinger
}

type clientFactory func() (boardClient, error)

type commandWiring struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
	logger    *slog.Logger
}

func defaultCommandWiring(stdout, stderr io.Writer) commandWiring {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	level := slog.LevelWarn
	if cfg, err := config.Load(); err == nil && cfg.LogLevel() < level {
		level = cfg.LogLevel()
	}
	return commandWiring{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newServiceClient,
		logger:    slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
	}
}

func newServiceClient() (boardClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return client.New(cfg.ServerURL(), client.WithTimeout(cfg.RequestTimeout())), nil
}

func buildCommands(wiring commandWiring) map[string]commandRunner {
	return map[string]commandRunner{
		"list":   NewListCommand(wiring.stdout, wiring.stderr, wiring.newClient, wiring.logger),
		"create": NewCreateCommand(wiring.stdout, wiring.stderr, wiring.newClient, wiring.logger),
		"edit":   NewEditCommand(wiring.stdout, wiring.stderr, wiring.newClient, wiring.logger),
		"move":   NewMoveCommand(wiring.stdout, wiring.stderr, wiring.newClient, wiring.logger),
		"trash":  NewTrashCommand(wiring.stdout, wiring.stderr, wiring.newClient, wiring.logger),
		"watch":  NewWatchCommand(wiring.stdout, wiring.stderr, wiring.newClient, wiring.logger),
	}
}
