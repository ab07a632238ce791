package board

import "strings"

// Filter returns the notes whose title or content contains term, ignoring case.
// An empty term matches every note.
func Filter(notes []Note, term string) []Note {
	needle := strings.ToLower(term)
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		if needle == "" ||
			strings.Contains(strings.ToLower(n.Title), needle) ||
			strings.Contains(strings.ToLower(n.Content), needle) {
			out = append(out, n)
		}
	}
	return out
}

// GroupByStatus partitions notes into the board columns, keeping source order.
// Every column is present in the result. Notes with an unknown status are left out.
func GroupByStatus(notes []Note) Groups {
	groups := make(Groups, len(Statuses))
	for _, st := range Statuses {
		groups[st] = []Note{}
	}
	for _, n := range notes {
		if !n.Status.Valid() {
			continue
		}
		groups[n.Status] = append(groups[n.Status], n)
	}
	return groups
}

// Flatten lays groups out in column order.
func (g Groups) Flatten() []Note {
	out := make([]Note, 0)
	for _, st := range Statuses {
		out = append(out, g[st]...)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
