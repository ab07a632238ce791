package board

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Remote is the notes service as seen from the board.
type Remote interface {
	List(ctx context.Context) ([]Note, error)
	Create(ctx context.Context, title, content string) (Note, error)
	Update(ctx context.Context, id string, patch Patch) (Note, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, notes []Note) error
}

// Token identifies a store mutation. Tokens grow monotonically.
type Token uint64

type options struct {
	log    *slog.Logger
	notify Notifier
}

// Option configures a Store or Coordinator.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithNotifier sets where user-facing outcomes are reported.
func WithNotifier(n Notifier) Option {
	return func(o *options) { o.notify = n }
}

func buildOptions(opts []Option) options {
	o := options{
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		notify: nopNotifier{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Store holds the local copy of every note for the session.
//
// Every write bumps the version. Local writes (Apply, Upsert, Remove, Rollback)
// also record the version they produced, so a Load that started before a local
// write can tell its response is older than what the user is looking at.
type Store struct {
	remote Remote
	log    *slog.Logger
	notify Notifier

	mu        sync.RWMutex
	notes     []Note
	version   Token
	lastLocal Token
}

func NewStore(remote Remote, opts ...Option) *Store {
	o := buildOptions(opts)
	return &Store{
		remote: remote,
		log:    o.log,
		notify: o.notify,
		notes:  []Note{},
	}
}

// Load replaces the local collection with the service's. On failure the
// previous collection stays in place.
func (s *Store) Load(ctx context.Context) error {
	started := s.Version()

	notes, err := s.remote.List(ctx)
	if err != nil {
		s.log.Error("failed to load notes", "error", err)
		s.notify.Failure("Failed to load notes. Please try again.", err)
		return fmt.Errorf("load notes: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastLocal > started {
		s.log.Debug("discarding stale load", "started", started, "local", s.lastLocal)
		return ErrSuperseded
	}
	s.notes = cloneNotes(notes)
	s.version++
	s.log.Debug("notes loaded", "count", len(notes), "version", s.version)
	return nil
}

// Notes returns a copy of the flat collection.
func (s *Store) Notes() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneNotes(s.notes)
}

// View filters by term and groups the result by column.
func (s *Store) View(term string) Groups {
	return GroupByStatus(Filter(s.Notes(), term))
}

// Find returns the note with the given id.
func (s *Store) Find(id string) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notes {
		if n.ID == id {
			return n, true
		}
	}
	return Note{}, false
}

func (s *Store) Version() Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Apply replaces the collection ahead of confirmation and returns the token of
// that write.
func (s *Store) Apply(notes []Note) Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = cloneNotes(notes)
	return s.bumpLocked()
}

// Rollback restores prev if nothing has been written since token.
func (s *Store) Rollback(prev []Note, token Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != token {
		return false
	}
	s.notes = cloneNotes(prev)
	s.bumpLocked()
	return true
}

// Remove drops the note with the given id.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notes {
		if n.ID == id {
			s.notes = append(s.notes[:i:i], s.notes[i+1:]...)
			s.bumpLocked()
			return true
		}
	}
	return false
}

// Upsert replaces the note with the same id or appends it.
func (s *Store) Upsert(note Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notes {
		if n.ID == note.ID {
			s.notes[i] = note
			s.bumpLocked()
			return
		}
	}
	s.notes = append(s.notes, note)
	s.bumpLocked()
}

func (s *Store) bumpLocked() Token {
	s.version++
	s.lastLocal = s.version
	return s.version
}
