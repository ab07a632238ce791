package notes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"thinkvault/internal/board"
)

// ErrInvalidInput marks requests the service refuses before touching storage.
var ErrInvalidInput = errors.New("invalid input")

// Store is the persistence the service needs. *Repo and *Cache implement it.
type Store interface {
	Insert(ctx context.Context, n *Note) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Note, error)
	List(ctx context.Context, q ListQuery) ([]*Note, error)
	Search(ctx context.Context, q SearchQuery) ([]*Note, error)
	Update(ctx context.Context, id primitive.ObjectID, in UpdateNoteInput) (*Note, error)
	Reorder(ctx context.Context, placements []Placement) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context, status board.Status) (int64, error)
}

type Service struct {
	store Store
	md    goldmark.Markdown
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		md:    goldmark.New(),
	}
}

// Create adds a note at the end of the pending column.
func (s *Service) Create(ctx context.Context, input CreateNoteInput) (*Note, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	position, err := s.nextPosition(ctx, board.StatusPending)
	if err != nil {
		return nil, err
	}

	note := &Note{
		Title:    title,
		Content:  input.Content,
		Status:   board.StatusPending,
		Position: position,
	}
	if err := s.store.Insert(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// GetByID retrieves a note by ID
func (s *Service) GetByID(ctx context.Context, id string) (*Note, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, oid)
}

// List retrieves notes in board order
func (s *Service) List(ctx context.Context, q ListQuery) ([]*Note, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, q.Status)
	}
	return s.store.List(ctx, q)
}

// Search matches title and content
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]*Note, error) {
	q.Query = strings.TrimSpace(q.Query)
	if q.Status != "" && !q.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, q.Status)
	}
	return s.store.Search(ctx, q)
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id string, in UpdateNoteInput) (*Note, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		in.Title = &title
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) == "" {
		return nil, fmt.Errorf("%w: content cannot be empty", ErrInvalidInput)
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *in.Status)
	}
	if in.Position != nil && *in.Position < 0 {
		return nil, fmt.Errorf("%w: position must not be negative", ErrInvalidInput)
	}
	return s.store.Update(ctx, oid, in)
}

// Reorder applies the supplied statuses and positions as the new board order.
func (s *Service) Reorder(ctx context.Context, items []ReorderItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: notes are required", ErrInvalidInput)
	}

	seen := make(map[primitive.ObjectID]struct{}, len(items))
	placements := make([]Placement, 0, len(items))
	for _, it := range items {
		oid, err := parseID(it.ID)
		if err != nil {
			return err
		}
		if _, dup := seen[oid]; dup {
			return fmt.Errorf("%w: duplicate note %s", ErrInvalidInput, it.ID)
		}
		seen[oid] = struct{}{}
		if !it.Status.Valid() {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, it.Status)
		}
		if it.Position < 0 {
			return fmt.Errorf("%w: position must not be negative", ErrInvalidInput)
		}
		placements = append(placements, Placement{ID: oid, Status: it.Status, Position: it.Position})
	}
	return s.store.Reorder(ctx, placements)
}

// Board returns every note in wire form and board order.
func (s *Service) Board(ctx context.Context) ([]board.Note, error) {
	stored, err := s.store.List(ctx, ListQuery{})
	if err != nil {
		return nil, err
	}
	out := make([]board.Note, len(stored))
	for i, n := range stored {
		out[i] = n.Board()
	}
	return out, nil
}

// Move drops a note onto a column slot and persists the renumbered board.
func (s *Service) Move(ctx context.Context, id string, to board.Status, index int) ([]board.Note, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, to)
	}
	notes, err := s.Board(ctx)
	if err != nil {
		return nil, err
	}

	var from board.Location
	found := false
	for st, group := range board.GroupByStatus(notes) {
		for i, n := range group {
			if n.ID == id {
				from, found = board.Location{Status: st, Index: i}, true
			}
		}
	}
	if !found {
		return nil, ErrNoteNotFound
	}

	updated, err := board.Move(notes, board.DragResult{
		NoteID:      id,
		Source:      from,
		Destination: &board.Location{Status: to, Index: index},
	})
	if err != nil {
		return nil, fmt.Errorf("move note %s: %w", id, err)
	}

	items := make([]ReorderItem, len(updated))
	for i, n := range updated {
		items[i] = ReorderItem{ID: n.ID, Status: n.Status, Position: n.Position}
	}
	if err := s.Reorder(ctx, items); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a note by ID
func (s *Service) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, oid)
}

// RenderMarkdown converts markdown content to HTML
func (s *Service) RenderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(content), &buf); err != nil {
		return content // Return raw content on error
	}
	return buf.String()
}

// Count returns the note count, optionally for one status
func (s *Service) Count(ctx context.Context, status board.Status) (int64, error) {
	return s.store.Count(ctx, status)
}

// nextPosition is one past the last position in the column. Deletes leave
// gaps, so the column size is not enough.
func (s *Service) nextPosition(ctx context.Context, status board.Status) (int, error) {
	column, err := s.store.List(ctx, ListQuery{Status: status})
	if err != nil {
		return 0, err
	}
	next := 0
	for _, n := range column {
		next = max(next, n.Position+1)
	}
	return next, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid note ID %q", ErrInvalidInput, id)
	}
	return oid, nil
}
