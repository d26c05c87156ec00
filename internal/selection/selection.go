// Package selection tracks which cases are selected in the active tab.
// Selection never spans tabs: switching tabs always starts from an empty set.
package selection

import (
	"sort"

	"github.com/ecourts-tools/ecourts-console/internal/caselist"
)

// Set is the selection scoped to one tab.
type Set struct {
	tab caselist.Tab
	ids map[string]bool
}

// NewSet creates an empty selection for the given tab.
func NewSet(tab caselist.Tab) *Set {
	return &Set{tab: tab, ids: make(map[string]bool)}
}

// Tab returns the tab this selection belongs to.
func (s *Set) Tab() caselist.Tab { return s.tab }

// Len returns the number of selected cases.
func (s *Set) Len() int { return len(s.ids) }

// Has reports whether the case is selected.
func (s *Set) Has(cino string) bool { return s.ids[cino] }

// Toggle flips membership of one case and reports the new state.
func (s *Set) Toggle(cino string) bool {
	if s.ids[cino] {
		delete(s.ids, cino)
		return false
	}
	s.ids[cino] = true
	return true
}

// AllSelected reports whether every currently visible record is selected.
// An empty visible set is never "all selected".
func (s *Set) AllSelected(visible []caselist.Record) bool {
	if len(visible) == 0 {
		return false
	}
	for _, r := range visible {
		if !s.ids[r.CINO] {
			return false
		}
	}
	return true
}

// ToggleAll selects every currently visible record, or deselects them all
// when they are already fully selected. Records hidden by an active filter
// are never touched. Calling it twice returns the selection to its
// original state.
func (s *Set) ToggleAll(visible []caselist.Record) {
	if s.AllSelected(visible) {
		for _, r := range visible {
			delete(s.ids, r.CINO)
		}
		return
	}
	for _, r := range visible {
		s.ids[r.CINO] = true
	}
}

// SwitchTab discards the selection and rebinds the set to a new tab.
func (s *Set) SwitchTab(tab caselist.Tab) {
	s.tab = tab
	s.ids = make(map[string]bool)
}

// Clear empties the selection without changing tabs.
func (s *Set) Clear() {
	s.ids = make(map[string]bool)
}

// CINOs returns the selected identifiers in stable order.
func (s *Set) CINOs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
