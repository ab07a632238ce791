package notes

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"thinkvault/internal/board"
)

// memStore is an in-memory Store that orders listings like Repo.
type memStore struct {
	mu    sync.Mutex
	notes map[primitive.ObjectID]Note
	clock time.Time
	err   error

	listCalls int
	reorders  [][]Placement
}

func newMemStore() *memStore {
	return &memStore{
		notes: map[primitive.ObjectID]Note{},
		clock: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memStore) seed(title string, status board.Status, pos int) *Note {
	n := &Note{Title: title, Content: title + " body", Status: status, Position: pos}
	if err := m.Insert(context.Background(), n); err != nil {
		panic(err)
	}
	return n
}

func (m *memStore) Insert(ctx context.Context, n *Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	n.ID = primitive.NewObjectID()
	n.CreatedAt = m.tick()
	n.UpdatedAt = n.CreatedAt
	m.notes[n.ID] = *n
	return nil
}

func (m *memStore) FindByID(ctx context.Context, id primitive.ObjectID) (*Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	n, ok := m.notes[id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	return &n, nil
}

func (m *memStore) sorted(keep func(Note) bool) []*Note {
	out := []*Note{}
	for _, n := range m.notes {
		if keep(n) {
			n := n
			out = append(out, &n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if ci, cj := slices.Index(board.Statuses, out[i].Status), slices.Index(board.Statuses, out[j].Status); ci != cj {
			return ci < cj
		}
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *memStore) List(ctx context.Context, q ListQuery) ([]*Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(n Note) bool { return q.Status == "" || n.Status == q.Status }), nil
}

func (m *memStore) Search(ctx context.Context, q SearchQuery) ([]*Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	needle := strings.ToLower(q.Query)
	return m.sorted(func(n Note) bool {
		if q.Status != "" && n.Status != q.Status {
			return false
		}
		return strings.Contains(strings.ToLower(n.Title), needle) ||
			strings.Contains(strings.ToLower(n.Content), needle)
	}), nil
}

func (m *memStore) Update(ctx context.Context, id primitive.ObjectID, in UpdateNoteInput) (*Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	n, ok := m.notes[id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	if in.Title != nil {
		n.Title = *in.Title
	}
	if in.Content != nil {
		n.Content = *in.Content
	}
	if in.Status != nil {
		n.Status = *in.Status
	}
	if in.Position != nil {
		n.Position = *in.Position
	}
	n.UpdatedAt = m.tick()
	m.notes[id] = n
	return &n, nil
}

func (m *memStore) Reorder(ctx context.Context, placements []Placement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.reorders = append(m.reorders, append([]Placement(nil), placements...))
	for _, p := range placements {
		n, ok := m.notes[p.ID]
		if !ok {
			continue
		}
		n.Status = p.Status
		n.Position = p.Position
		m.notes[p.ID] = n
	}
	return nil
}

func (m *memStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.notes[id]; !ok {
		return ErrNoteNotFound
	}
	delete(m.notes, id)
	return nil
}

func (m *memStore) Count(ctx context.Context, status board.Status) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	var count int64
	for _, n := range m.notes {
		if status == "" || n.Status == status {
			count++
		}
	}
	return count, nil
}

var errStorageDown = errors.New("server selection timeout")
