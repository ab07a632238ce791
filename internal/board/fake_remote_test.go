package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// fakeRemote is an in-memory notes service.
type fakeRemote struct {
	mu sync.Mutex

	notes  []Note
	nextID int

	listErr    error
	createErr  error
	updateErr  error
	deleteErr  error
	reorderErr error

	// onReorder runs before the reorder result is returned.
	onReorder func()

	listCalls  int
	reorders   [][]Note
	deleted    []string
	reorderOps []string
}

func newFakeRemote(notes ...Note) *fakeRemote {
	return &fakeRemote{notes: cloneNotes(notes), nextID: len(notes) + 1}
}

func (f *fakeRemote) List(ctx context.Context) ([]Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return cloneNotes(f.notes), nil
}

func (f *fakeRemote) Create(ctx context.Context, title, content string) (Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return Note{}, f.createErr
	}
	pending := 0
	for _, n := range f.notes {
		if n.Status == StatusPending {
			pending++
		}
	}
	now := time.Now()
	n := Note{
		ID:        fmt.Sprint(f.nextID),
		Title:     title,
		Content:   content,
		Status:    StatusPending,
		Position:  pending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.nextID++
	f.notes = append(f.notes, n)
	return n, nil
}

func (f *fakeRemote) Update(ctx context.Context, id string, patch Patch) (Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return Note{}, f.updateErr
	}
	for i, n := range f.notes {
		if n.ID != id {
			continue
		}
		if patch.Title != nil {
			n.Title = *patch.Title
		}
		if patch.Content != nil {
			n.Content = *patch.Content
		}
		if patch.Status != nil {
			n.Status = *patch.Status
		}
		if patch.Position != nil {
			n.Position = *patch.Position
		}
		n.UpdatedAt = time.Now()
		f.notes[i] = n
		return n, nil
	}
	return Note{}, &RejectedError{StatusCode: 404, Message: "note not found"}
}

func (f *fakeRemote) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, n := range f.notes {
		if n.ID == id {
			f.notes = append(f.notes[:i:i], f.notes[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return &RejectedError{StatusCode: 404, Message: "note not found"}
}

func (f *fakeRemote) Reorder(ctx context.Context, notes []Note) error {
	f.mu.Lock()
	f.reorders = append(f.reorders, cloneNotes(notes))
	f.reorderOps = append(f.reorderOps, OperationID(ctx))
	hook, err := f.onReorder, f.reorderErr
	if err == nil {
		f.notes = cloneNotes(notes)
	}
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return err
}

func (f *fakeRemote) set(notes ...Note) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes = cloneNotes(notes)
}

var errOffline = errors.New("dial tcp: connection refused")

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (r *recordingNotifier) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, msg)
}

func (r *recordingNotifier) Failure(msg string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, msg)
}

func (r *recordingNotifier) snapshot() (successes, failures []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.successes...), append([]string(nil), r.failures...)
}
