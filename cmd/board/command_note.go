package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
)

type CreateCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
	log       *slog.Logger
}

func NewCreateCommand(stdout, stderr io.Writer, newClient clientFactory, log *slog.Logger) *CreateCommand {
	return &CreateCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
		log:       log,
	}
}

func (c *CreateCommand) Run(args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	title := fs.String("title", "", "note title")
	content := fs.String("content", "", "note body (markdown)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	_, coord, _, err := openBoard(ctx, c.newClient, c.stderr, c.log)
	if err != nil {
		return err
	}
	note, err := coord.Create(ctx, *title, *content)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, note.ID)
	return nil
}

type EditCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
	log       *slog.Logger
}

func NewEditCommand(stdout, stderr io.Writer, newClient clientFactory, log *slog.Logger) *EditCommand {
	return &EditCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
		log:       log,
	}
}

func (c *EditCommand) Run(args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	title := fs.String("title", "", "new title (default: keep)")
	content := fs.String("content", "", "new content (default: keep)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: board edit <id> [-title t] [-content c]")
	}
	id := fs.Arg(0)

	ctx := context.Background()
	store, coord, _, err := openBoard(ctx, c.newClient, c.stderr, c.log)
	if err != nil {
		return err
	}
	current, ok := store.Find(id)
	if !ok {
		return fmt.Errorf("note %s not found", id)
	}
	if *title == "" {
		*title = current.Title
	}
	if *content == "" {
		*content = current.Content
	}

	note, err := coord.Update(ctx, id, *title, *content)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, note.ID)
	return nil
}
