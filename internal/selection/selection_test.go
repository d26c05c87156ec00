package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ecourts-tools/ecourts-console/internal/caselist"
)

func records(ids ...string) []caselist.Record {
	out := make([]caselist.Record, len(ids))
	for i, id := range ids {
		out[i] = caselist.Record{CINO: id}
	}
	return out
}

func TestToggle(t *testing.T) {
	s := NewSet(caselist.TabAll)

	assert.True(t, s.Toggle("a"), "first toggle selects")
	assert.True(t, s.Has("a"))
	assert.Equal(t, 1, s.Len())

	assert.False(t, s.Toggle("a"), "second toggle deselects")
	assert.False(t, s.Has("a"))
	assert.Equal(t, 0, s.Len())
}

func TestToggleAllSelectsOnlyVisible(t *testing.T) {
	s := NewSet(caselist.TabAll)
	visible := records("a", "b", "c")

	s.ToggleAll(visible)
	assert.Equal(t, []string{"a", "b", "c"}, s.CINOs())
	assert.True(t, s.AllSelected(visible))

	// Toggling again returns to the original state.
	s.ToggleAll(visible)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.AllSelected(visible))
}

func TestToggleAllLeavesHiddenSelectionsAlone(t *testing.T) {
	s := NewSet(caselist.TabAll)
	s.Toggle("hidden")

	visible := records("a", "b")
	s.ToggleAll(visible)
	assert.Equal(t, []string{"a", "b", "hidden"}, s.CINOs())

	// Deselecting "all" removes only the visible records.
	s.ToggleAll(visible)
	assert.Equal(t, []string{"hidden"}, s.CINOs())
}

func TestToggleAllCompletesPartialSelection(t *testing.T) {
	s := NewSet(caselist.TabAll)
	visible := records("a", "b", "c")
	s.Toggle("b")

	// Partial selection: toggle-all selects the remainder, not deselects.
	s.ToggleAll(visible)
	assert.Equal(t, []string{"a", "b", "c"}, s.CINOs())
}

func TestAllSelectedEmptyVisible(t *testing.T) {
	s := NewSet(caselist.TabAll)
	assert.False(t, s.AllSelected(nil), "empty visible set is never fully selected")

	s.Toggle("a")
	assert.False(t, s.AllSelected(nil))
}

func TestSwitchTabClearsSelection(t *testing.T) {
	s := NewSet(caselist.TabAll)
	s.Toggle("a")
	s.Toggle("b")

	s.SwitchTab(caselist.TabReviewed)
	assert.Equal(t, caselist.TabReviewed, s.Tab())
	assert.Equal(t, 0, s.Len(), "selection never survives a tab switch")

	// Switching back does not restore anything either.
	s.SwitchTab(caselist.TabAll)
	assert.Equal(t, 0, s.Len())
}

func TestClear(t *testing.T) {
	s := NewSet(caselist.TabUpcoming)
	s.Toggle("a")
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, caselist.TabUpcoming, s.Tab(), "clear keeps the tab binding")
}
