package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"thinkvault/internal/board"
)

type MoveCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
	log       *slog.Logger
}

func NewMoveCommand(stdout, stderr io.Writer, newClient clientFactory, log *slog.Logger) *MoveCommand {
	return &MoveCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
		log:       log,
	}
}

func (c *MoveCommand) Run(args []string) error {
	fs := flag.NewFlagSet("move", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 || fs.NArg() > 3 {
		return errors.New("usage: board move <id> <pending|current|completed|trash> [index]")
	}

	to, ok := board.ParseStatus(fs.Arg(1))
	if !ok {
		return fmt.Errorf("unknown column %q", fs.Arg(1))
	}
	index := 0
	if fs.NArg() == 3 {
		n, err := strconv.Atoi(fs.Arg(2))
		if err != nil {
			return fmt.Errorf("invalid index %q", fs.Arg(2))
		}
		index = n
	}
	return drop(context.Background(), c.stdout, c.stderr, c.newClient, c.log, fs.Arg(0), board.Location{Status: to, Index: index})
}

type TrashCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
	log       *slog.Logger
}

func NewTrashCommand(stdout, stderr io.Writer, newClient clientFactory, log *slog.Logger) *TrashCommand {
	return &TrashCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
		log:       log,
	}
}

func (c *TrashCommand) Run(args []string) error {
	fs := flag.NewFlagSet("trash", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: board trash <id>")
	}
	return drop(context.Background(), c.stdout, c.stderr, c.newClient, c.log, fs.Arg(0), board.Location{Status: board.Trash})
}

// drop replays a drag gesture from the note's current slot to dest.
func drop(ctx context.Context, stdout, stderr io.Writer, newClient clientFactory, log *slog.Logger, id string, dest board.Location) error {
	store, coord, _, err := openBoard(ctx, newClient, stderr, log)
	if err != nil {
		return err
	}
	from, ok := locate(store, id)
	if !ok {
		return fmt.Errorf("note %s: %w", id, board.ErrStaleReference)
	}

	outcome, err := coord.Drop(ctx, board.DragResult{NoteID: id, Source: from, Destination: &dest})
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, outcome)
	if outcome == board.OutcomeConfirmed {
		printBoard(stdout, store.View(""))
	}
	return nil
}
