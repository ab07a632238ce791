package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"thinkvault/internal/board"
)

var columnTitles = map[board.Status]string{
	board.StatusPending:   "Pending",
	board.StatusCurrent:   "Current",
	board.StatusCompleted: "Completed",
}

// printNotifier writes outcome messages the way the board shows toasts.
type printNotifier struct {
	out io.Writer
}

func (n printNotifier) Success(msg string) {
	fmt.Fprintf(n.out, "ok: %s\n", msg)
}

func (n printNotifier) Failure(msg string, err error) {
	if err != nil {
		fmt.Fprintf(n.out, "error: %s (%v)\n", msg, err)
		return
	}
	fmt.Fprintf(n.out, "error: %s\n", msg)
}

// openBoard builds a store over the service and loads it.
func openBoard(ctx context.Context, newClient clientFactory, stderr io.Writer, log *slog.Logger) (*board.Store, *board.Coordinator, boardClient, error) {
	remote, err := newClient()
	if err != nil {
		return nil, nil, nil, err
	}
	opts := []board.Option{board.WithLogger(log), board.WithNotifier(printNotifier{out: stderr})}
	store := board.NewStore(remote, opts...)
	if err := store.Load(ctx); err != nil {
		return nil, nil, nil, err
	}
	return store, board.NewCoordinator(store, opts...), remote, nil
}

// locate finds the column slot a note currently occupies.
func locate(store *board.Store, id string) (board.Location, bool) {
	for st, group := range store.View("") {
		for i, n := range group {
			if n.ID == id {
				return board.Location{Status: st, Index: i}, true
			}
		}
	}
	return board.Location{}, false
}

func printBoard(output io.Writer, groups board.Groups) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	for _, st := range board.Statuses {
		fmt.Fprintf(writer, "%s (%d)\n", columnTitles[st], len(groups[st]))
		for _, n := range groups[st] {
			fmt.Fprintf(writer, "  %d\t%s\t%s\n", n.Position, n.ID, oneLine(n.Title))
		}
	}
	_ = writer.Flush()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func exitOnErr(label string, err error, stderr io.Writer) {
	if err == nil {
		return
	}
	fmt.Fprintf(stderr, "%s error: %v\n", label, err)
	os.Exit(1)
}
