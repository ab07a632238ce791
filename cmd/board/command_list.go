package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
)

type ListCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
	log       *slog.Logger
}

func NewListCommand(stdout, stderr io.Writer, newClient clientFactory, log *slog.Logger) *ListCommand {
	return &ListCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
		log:       log,
	}
}

func (c *ListCommand) Run(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	query := fs.String("q", "", "only show notes whose title or content contains this text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, _, _, err := openBoard(context.Background(), c.newClient, c.stderr, c.log)
	if err != nil {
		return err
	}
	printBoard(c.stdout, store.View(*query))
	return nil
}
