package notes

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"thinkvault/internal/board"
)

// Note is a board note as stored in MongoDB.
type Note struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"` // markdown
	Status    board.Status       `bson:"status" json:"status"`
	Position  int                `bson:"position" json:"position"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Board converts the stored note to its wire form.
func (n *Note) Board() board.Note {
	return board.Note{
		ID:        n.ID.Hex(),
		Title:     n.Title,
		Content:   n.Content,
		Status:    n.Status,
		Position:  n.Position,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// CreateNoteInput is the input for creating a note
type CreateNoteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateNoteInput is a partial update; nil fields are left unchanged.
type UpdateNoteInput struct {
	Title    *string       `json:"title,omitempty"`
	Content  *string       `json:"content,omitempty"`
	Status   *board.Status `json:"status,omitempty"`
	Position *int          `json:"position,omitempty"`
}

// ReorderInput is the body of POST /api/notes/reorder. Clients send whole
// notes; only id, status and position are read.
type ReorderInput struct {
	Notes []ReorderItem `json:"notes"`
}

type ReorderItem struct {
	ID       string       `json:"_id"`
	Status   board.Status `json:"status"`
	Position int          `json:"position"`
}

// Placement is a validated reorder entry.
type Placement struct {
	ID       primitive.ObjectID
	Status   board.Status
	Position int
}

// SearchQuery represents search parameters
type SearchQuery struct {
	Query  string // case-insensitive match on title or content
	Status board.Status
	Limit  int
	Offset int
}

// ListQuery represents list parameters. The zero value lists every note.
type ListQuery struct {
	Status board.Status
	Limit  int
	Offset int
}
