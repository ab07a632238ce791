package board

import "slices"

// Location is a slot on the board: a column and an index inside it.
type Location struct {
	Status Status `json:"status"`
	Index  int    `json:"index"`
}

// DragResult describes a finished drag gesture. A nil Destination means the
// note was released outside any drop target.
type DragResult struct {
	NoteID      string    `json:"noteId"`
	Source      Location  `json:"source"`
	Destination *Location `json:"destination,omitempty"`
}

// Unmoved reports whether the gesture leaves the board as it was.
func (d DragResult) Unmoved() bool {
	return d.Destination == nil || *d.Destination == d.Source
}

// Move computes the collection that results from dropping a note on a column.
//
// The note is taken out of its source column, given the destination status and
// inserted at the destination index (clamped to the column). Every column is
// then renumbered from zero, so positions stay dense. The returned collection
// is laid out in column order.
//
// The note must still be in the source column of notes; otherwise
// ErrStaleReference is returned and nothing is computed.
func Move(notes []Note, drag DragResult) ([]Note, error) {
	if drag.Destination == nil || !drag.Source.Status.Valid() || !drag.Destination.Status.Valid() {
		return nil, ErrInvalidInput
	}
	from, to := drag.Source.Status, drag.Destination.Status

	groups := GroupByStatus(notes)
	at := indexOf(groups[from], drag.NoteID)
	if at < 0 {
		return nil, ErrStaleReference
	}

	moved := groups[from][at]
	groups[from] = slices.Delete(slices.Clone(groups[from]), at, at+1)

	moved.Status = to
	dest := groups[to]
	i := min(max(drag.Destination.Index, 0), len(dest))
	groups[to] = slices.Insert(slices.Clone(dest), i, moved)

	out := make([]Note, 0, len(notes))
	for _, st := range Statuses {
		for pos, n := range groups[st] {
			n.Status = st
			n.Position = pos
			out = append(out, n)
		}
	}
	return out, nil
}

func indexOf(notes []Note, id string) int {
	return slices.IndexFunc(notes, func(n Note) bool { return n.ID == id })
}
