package board

import "time"

// Status is the workflow column a note belongs to.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCurrent   Status = "current"
	StatusCompleted Status = "completed"

	// Trash is a drop target, not a status. Dropping a note on it deletes the note.
	Trash Status = "trash"
)

// Statuses lists the board columns in display order.
var Statuses = []Status{StatusPending, StatusCurrent, StatusCompleted}

// Valid reports whether s is one of the three board columns.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCurrent, StatusCompleted:
		return true
	}
	return false
}

// ParseStatus accepts a column name in any case.
func ParseStatus(s string) (Status, bool) {
	st := Status(normalize(s))
	if st == Trash {
		return st, true
	}
	return st, st.Valid()
}

// Note is the wire form of a note shared by the client and the service.
type Note struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Status    Status    `json:"status"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Patch carries the fields of a partial note update. Nil fields are left alone.
type Patch struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Status   *Status `json:"status,omitempty"`
	Position *int    `json:"position,omitempty"`
}

// Groups maps every board column to its ordered notes.
type Groups map[Status][]Note

func cloneNotes(notes []Note) []Note {
	if notes == nil {
		return []Note{}
	}
	out := make([]Note, len(notes))
	copy(out, notes)
	return out
}
