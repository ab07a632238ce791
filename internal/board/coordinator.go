package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Outcome is where a drop settled.
type Outcome int

const (
	// OutcomeIgnored: the gesture did not move anything.
	OutcomeIgnored Outcome = iota
	// OutcomeStale: the gesture referenced a note the store no longer has there.
	OutcomeStale
	// OutcomeDeleted: the note was dropped on the trash and the service deleted it.
	OutcomeDeleted
	// OutcomeFailed: the service refused a delete; the store is untouched.
	OutcomeFailed
	// OutcomeConfirmed: the optimistic reorder was accepted by the service.
	OutcomeConfirmed
	// OutcomeReverted: the reorder was refused and the store was resynchronised.
	OutcomeReverted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeStale:
		return "stale"
	case OutcomeDeleted:
		return "deleted"
	case OutcomeFailed:
		return "failed"
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeReverted:
		return "reverted"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

type opIDKey struct{}

// WithOperationID tags ctx with the id of a board operation.
func WithOperationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, opIDKey{}, id)
}

// OperationID returns the id set by WithOperationID, if any.
func OperationID(ctx context.Context) string {
	id, _ := ctx.Value(opIDKey{}).(string)
	return id
}

// Coordinator turns drag gestures and note edits into store mutations and
// service calls.
type Coordinator struct {
	store  *Store
	remote Remote
	log    *slog.Logger
	notify Notifier
}

func NewCoordinator(store *Store, opts ...Option) *Coordinator {
	o := buildOptions(opts)
	return &Coordinator{
		store:  store,
		remote: store.remote,
		log:    o.log,
		notify: o.notify,
	}
}

// Drop settles one drag gesture.
//
// Moves are applied to the store before the service confirms them. If the
// service refuses, the store is reloaded; if the reload fails too, the pre-drag
// collection is restored unless a newer change has been written since.
// Deletes through the trash are never applied before confirmation.
func (c *Coordinator) Drop(ctx context.Context, drag DragResult) (Outcome, error) {
	if drag.Unmoved() {
		return OutcomeIgnored, nil
	}

	opID := uuid.NewString()
	ctx = WithOperationID(ctx, opID)
	log := c.log.With("op", opID, "id", drag.NoteID)

	if drag.Destination.Status == Trash {
		if err := c.delete(ctx, drag.NoteID); err != nil {
			return OutcomeFailed, err
		}
		return OutcomeDeleted, nil
	}

	before := c.store.Notes()
	updated, err := Move(before, drag)
	if errors.Is(err, ErrStaleReference) {
		log.Debug("drop references stale note", "source", drag.Source.Status, "index", drag.Source.Index)
		return OutcomeStale, nil
	}
	if err != nil {
		return OutcomeIgnored, fmt.Errorf("move note %s: %w", drag.NoteID, err)
	}

	token := c.store.Apply(updated)
	log.Debug("move applied", "to", drag.Destination.Status, "index", drag.Destination.Index, "token", token)

	err = c.remote.Reorder(ctx, updated)
	if err == nil {
		c.notify.Success("Note order updated!")
		return OutcomeConfirmed, nil
	}

	log.Error("failed to update note order", "error", err)
	c.notify.Failure("Failed to update note order. Please try again.", err)

	loadErr := c.store.Load(ctx)
	switch {
	case loadErr == nil, errors.Is(loadErr, ErrSuperseded):
	default:
		if c.store.Rollback(before, token) {
			log.Warn("reload failed, restored previous order", "error", loadErr)
		}
	}
	return OutcomeReverted, fmt.Errorf("reorder notes: %w", err)
}

// Create sends a new note to the service and adds the stored copy locally.
func (c *Coordinator) Create(ctx context.Context, title, content string) (Note, error) {
	if err := validate(title, content); err != nil {
		c.notify.Failure("Please enter all fields", err)
		return Note{}, err
	}

	note, err := c.remote.Create(ctx, title, content)
	if err != nil {
		c.log.Error("failed to create note", "error", err)
		c.notify.Failure("Something went wrong", err)
		return Note{}, fmt.Errorf("create note: %w", err)
	}
	c.store.Upsert(note)
	c.notify.Success("Note created successfully")
	return note, nil
}

// Update saves a new title and content for a note.
func (c *Coordinator) Update(ctx context.Context, id, title, content string) (Note, error) {
	if err := validate(title, content); err != nil {
		c.notify.Failure("Please enter all fields", err)
		return Note{}, err
	}

	note, err := c.remote.Update(ctx, id, Patch{Title: &title, Content: &content})
	if err != nil {
		c.log.Error("failed to save note", "id", id, "error", err)
		c.notify.Failure("Save failed", err)
		return Note{}, fmt.Errorf("update note %s: %w", id, err)
	}
	c.store.Upsert(note)
	c.notify.Success("Note saved successfully")
	return note, nil
}

// Delete removes a note once the service has confirmed.
func (c *Coordinator) Delete(ctx context.Context, id string) error {
	return c.delete(WithOperationID(ctx, uuid.NewString()), id)
}

func (c *Coordinator) delete(ctx context.Context, id string) error {
	if err := c.remote.Delete(ctx, id); err != nil {
		c.log.Error("failed to delete note", "id", id, "op", OperationID(ctx), "error", err)
		c.notify.Failure("Failed to delete note.", err)
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	c.store.Remove(id)
	c.notify.Success("Note deleted!")
	return nil
}

func validate(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	return nil
}
