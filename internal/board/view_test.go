package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func note(id string, st Status, pos int) Note {
	return Note{ID: id, Title: "note " + id, Content: "body " + id, Status: st, Position: pos}
}

func ids(notes []Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func TestFilterMatchesTitleOrContentIgnoringCase(t *testing.T) {
	notes := []Note{
		{ID: "1", Title: "Meeting notes", Content: "agenda", Status: StatusPending},
		{ID: "2", Title: "Grocery list", Content: "milk, eggs", Status: StatusPending},
		{ID: "3", Title: "Call Bob", Content: "after the MEETING", Status: StatusCurrent},
	}

	assert.Equal(t, []string{"1", "3"}, ids(Filter(notes, "meeting")))
	assert.Equal(t, []string{"2"}, ids(Filter(notes, "EGGS")))
	assert.Empty(t, Filter(notes, "zebra"))
}

func TestFilterOnlyMeetingTitle(t *testing.T) {
	notes := []Note{
		{ID: "1", Title: "Meeting notes"},
		{ID: "2", Title: "Grocery list"},
	}
	assert.Equal(t, []string{"1"}, ids(Filter(notes, "meeting")))
}

func TestFilterEmptyTermKeepsEverything(t *testing.T) {
	notes := []Note{note("1", StatusPending, 0), note("2", StatusCompleted, 0)}
	assert.Equal(t, []string{"1", "2"}, ids(Filter(notes, "")))
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	notes := []Note{note("1", StatusPending, 0), note("2", StatusPending, 1)}
	_ = Filter(notes, "1")
	assert.Equal(t, []string{"1", "2"}, ids(notes))
}

func TestGroupByStatusKeepsSourceOrder(t *testing.T) {
	notes := []Note{
		note("a", StatusCurrent, 0),
		note("b", StatusPending, 0),
		note("c", StatusCurrent, 1),
		note("d", StatusCompleted, 0),
		note("e", StatusPending, 1),
	}

	groups := GroupByStatus(notes)
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"b", "e"}, ids(groups[StatusPending]))
	assert.Equal(t, []string{"a", "c"}, ids(groups[StatusCurrent]))
	assert.Equal(t, []string{"d"}, ids(groups[StatusCompleted]))
}

func TestGroupByStatusAlwaysHasEveryColumn(t *testing.T) {
	groups := GroupByStatus(nil)
	for _, st := range Statuses {
		assert.NotNil(t, groups[st], "column %s", st)
		assert.Empty(t, groups[st])
	}
}

func TestGroupByStatusSkipsUnknownStatus(t *testing.T) {
	groups := GroupByStatus([]Note{note("x", Status("archived"), 0), note("y", StatusPending, 0)})
	assert.Equal(t, []string{"y"}, ids(groups.Flatten()))
}

func TestParseStatus(t *testing.T) {
	st, ok := ParseStatus(" Current ")
	assert.True(t, ok)
	assert.Equal(t, StatusCurrent, st)

	st, ok = ParseStatus("TRASH")
	assert.True(t, ok)
	assert.Equal(t, Trash, st)

	_, ok = ParseStatus("done")
	assert.False(t, ok)
}
