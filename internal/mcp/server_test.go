package mcp

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"thinkvault/internal/board"
	"thinkvault/internal/notes"
)

// sliceStore keeps notes in insertion order and lists them by position.
type sliceStore struct {
	mu    sync.Mutex
	notes []notes.Note
}

func (s *sliceStore) Insert(ctx context.Context, n *notes.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Date(2025, 1, 1, 0, len(s.notes), 0, 0, time.UTC)
	n.UpdatedAt = n.CreatedAt
	s.notes = append(s.notes, *n)
	return nil
}

func (s *sliceStore) find(id primitive.ObjectID) int {
	return slices.IndexFunc(s.notes, func(n notes.Note) bool { return n.ID == id })
}

func (s *sliceStore) FindByID(ctx context.Context, id primitive.ObjectID) (*notes.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i < 0 {
		return nil, notes.ErrNoteNotFound
	}
	n := s.notes[i]
	return &n, nil
}

func (s *sliceStore) List(ctx context.Context, q notes.ListQuery) ([]*notes.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*notes.Note{}
	for _, n := range s.notes {
		if q.Status == "" || n.Status == q.Status {
			n := n
			out = append(out, &n)
		}
	}
	slices.SortStableFunc(out, func(a, b *notes.Note) int { return a.Position - b.Position })
	return out, nil
}

func (s *sliceStore) Search(ctx context.Context, q notes.SearchQuery) ([]*notes.Note, error) {
	all, _ := s.List(ctx, notes.ListQuery{Status: q.Status})
	out := []*notes.Note{}
	for _, n := range all {
		if strings.Contains(strings.ToLower(n.Title+" "+n.Content), strings.ToLower(q.Query)) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *sliceStore) Update(ctx context.Context, id primitive.ObjectID, in notes.UpdateNoteInput) (*notes.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i < 0 {
		return nil, notes.ErrNoteNotFound
	}
	if in.Title != nil {
		s.notes[i].Title = *in.Title
	}
	if in.Content != nil {
		s.notes[i].Content = *in.Content
	}
	n := s.notes[i]
	return &n, nil
}

func (s *sliceStore) Reorder(ctx context.Context, placements []notes.Placement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range placements {
		if i := s.find(p.ID); i >= 0 {
			s.notes[i].Status = p.Status
			s.notes[i].Position = p.Position
		}
	}
	return nil
}

func (s *sliceStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i < 0 {
		return notes.ErrNoteNotFound
	}
	s.notes = slices.Delete(s.notes, i, i+1)
	return nil
}

func (s *sliceStore) Count(ctx context.Context, status board.Status) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var c int64
	for _, n := range s.notes {
		if status == "" || n.Status == status {
			c++
		}
	}
	return c, nil
}

func newTestService(t *testing.T) (*notes.Service, *sliceStore) {
	t.Helper()
	store := &sliceStore{}
	return notes.NewService(store), store
}

func call(t *testing.T, h server.ToolHandlerFunc, args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text, res.IsError
}

func TestNewServerRegistersBoardTools(t *testing.T) {
	svc, _ := newTestService(t)
	s := NewServer(svc)

	resp := s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	var listed struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &listed))

	var names []string
	for _, tool := range listed.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"list_board", "search_notes", "get_note", "create_note", "move_note", "delete_note",
	}, names)
}

func TestCreateThenListBoard(t *testing.T) {
	svc, _ := newTestService(t)

	out, isErr := call(t, handleCreateNote(svc), map[string]any{"title": "Groceries", "content": "milk"})
	require.False(t, isErr, out)
	var created NoteResult
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, board.StatusPending, created.Status)
	assert.Equal(t, 0, created.Position)

	out, isErr = call(t, handleListBoard(svc), map[string]any{})
	require.False(t, isErr, out)
	var b BoardResult
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	require.Len(t, b.Pending, 1)
	assert.Equal(t, created.ID, b.Pending[0].ID)
	assert.Empty(t, b.Current)
	assert.Empty(t, b.Completed)
}

func TestCreateNoteRequiresFields(t *testing.T) {
	svc, _ := newTestService(t)

	out, isErr := call(t, handleCreateNote(svc), map[string]any{"title": "x"})
	assert.True(t, isErr)
	assert.Equal(t, "content is required", out)
}

func TestMoveNoteRenumbersColumns(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	a, err := svc.Create(ctx, notes.CreateNoteInput{Title: "a", Content: "a"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, notes.CreateNoteInput{Title: "b", Content: "b"})
	require.NoError(t, err)

	out, isErr := call(t, handleMoveNote(svc), map[string]any{
		"id": a.ID.Hex(), "status": "current", "index": float64(3),
	})
	require.False(t, isErr, out)

	var res BoardResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Pending, 1)
	assert.Equal(t, b.ID.Hex(), res.Pending[0].ID)
	assert.Equal(t, 0, res.Pending[0].Position)
	require.Len(t, res.Current, 1)
	assert.Equal(t, a.ID.Hex(), res.Current[0].ID)

	stored, err := svc.GetByID(ctx, a.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, board.StatusCurrent, stored.Status)
}

func TestMoveNoteRejectsTrashAndUnknownIDs(t *testing.T) {
	svc, _ := newTestService(t)

	out, isErr := call(t, handleMoveNote(svc), map[string]any{"id": primitive.NewObjectID().Hex(), "status": "trash"})
	assert.True(t, isErr)
	assert.Contains(t, out, "delete_note")

	id := primitive.NewObjectID().Hex()
	out, isErr = call(t, handleMoveNote(svc), map[string]any{"id": id, "status": "completed"})
	assert.True(t, isErr)
	assert.Equal(t, "note "+id+" not found", out)
}

func TestSearchAndDelete(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	n, err := svc.Create(ctx, notes.CreateNoteInput{Title: "Release plan", Content: "ship it"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, notes.CreateNoteInput{Title: "Other", Content: "nothing"})
	require.NoError(t, err)

	out, isErr := call(t, handleSearchNotes(svc), map[string]any{"query": "release"})
	require.False(t, isErr, out)
	var found []NoteResult
	require.NoError(t, json.Unmarshal([]byte(out), &found))
	require.Len(t, found, 1)
	assert.Equal(t, n.ID.Hex(), found[0].ID)

	_, isErr = call(t, handleSearchNotes(svc), map[string]any{"query": "x", "status": "archived"})
	assert.True(t, isErr)

	out, isErr = call(t, handleDeleteNote(svc), map[string]any{"id": n.ID.Hex()})
	require.False(t, isErr, out)
	assert.Len(t, store.notes, 1)

	_, isErr = call(t, handleGetNote(svc), map[string]any{"id": n.ID.Hex()})
	assert.True(t, isErr)
}
