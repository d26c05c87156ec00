// Package filter implements the client-side case filter engine: text,
// date-range and advanced-field predicates applied to the in-memory case
// index, scoped to the active tab.
package filter

import (
	"strings"
	"time"

	"github.com/ecourts-tools/ecourts-console/internal/caselist"
)

// Advanced holds the optional field-level constraints. String fields match
// by case-insensitive substring; the boolean constraints match by equality
// when set.
type Advanced struct {
	Purpose       string
	CaseType      string
	Court         string
	Establishment string
	HasNotes      *bool
	Modified      *bool
}

// IsZero reports whether no advanced constraint is active.
func (a Advanced) IsZero() bool {
	return a.Purpose == "" && a.CaseType == "" && a.Court == "" &&
		a.Establishment == "" && a.HasNotes == nil && a.Modified == nil
}

// State is the filter state of one tab. One State is active at a time; the
// controller keeps a map of saved states keyed by tab so switching tabs
// restores what the user last typed there.
type State struct {
	Query    string
	From     time.Time // inclusive lower bound, zero = unset
	To       time.Time // inclusive upper bound (through end of day), zero = unset
	Advanced Advanced
}

// IsZero reports whether the state filters nothing.
func (s State) IsZero() bool {
	return s.Query == "" && s.From.IsZero() && s.To.IsZero() && s.Advanced.IsZero()
}

// adversarial query separators, checked in order. The longer forms come
// first so " versus " is not consumed by " v ".
var vsSeparators = []string{" versus ", " vs. ", " vs ", " v. ", " v "}

// Apply returns the subset of records that belong to tab and pass every
// active predicate of s. today anchors the upcoming tab.
func Apply(records []caselist.Record, tab caselist.Tab, s State, today time.Time) []caselist.Record {
	out := make([]caselist.Record, 0, len(records))
	for _, r := range records {
		if !r.InTab(tab, today) {
			continue
		}
		if !Matches(r, s) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Matches reports whether a single record passes every active predicate.
func Matches(r caselist.Record, s State) bool {
	if q := strings.ToLower(strings.TrimSpace(s.Query)); q != "" && !matchesText(r, q) {
		return false
	}
	if !s.From.IsZero() || !s.To.IsZero() {
		// A record without a hearing date cannot satisfy a date bound.
		if !r.HasHearingDate() {
			return false
		}
		if !s.From.IsZero() && r.NextHearingDate.Before(dayStart(s.From)) {
			return false
		}
		if !s.To.IsZero() && !r.NextHearingDate.Before(dayStart(s.To).AddDate(0, 0, 1)) {
			return false
		}
	}
	return matchesAdvanced(r, s.Advanced)
}

// matchesText implements the three-stage text query: plain substring over
// the display fields, the adversarial "X vs Y" pattern in either pairing,
// and the multi-word name match.
func matchesText(r caselist.Record, query string) bool {
	caseNo := strings.ToLower(r.CaseNumber)
	pet := strings.ToLower(r.Petitioner)
	resp := strings.ToLower(r.Respondent)
	estab := strings.ToLower(r.Establishment)

	if strings.Contains(caseNo, query) || strings.Contains(pet, query) ||
		strings.Contains(resp, query) || strings.Contains(estab, query) {
		return true
	}

	if first, second, ok := splitVersus(query); ok {
		if strings.Contains(pet, first) && strings.Contains(resp, second) {
			return true
		}
		// Symmetric: the user may have typed the parties in either order.
		if strings.Contains(pet, second) && strings.Contains(resp, first) {
			return true
		}
	}

	if words := significantWords(query); len(words) >= 2 {
		if everyWordInName(words, pet) || everyWordInName(words, resp) {
			return true
		}
	}

	return false
}

// splitVersus detects an adversarial query and returns its two sides.
func splitVersus(query string) (first, second string, ok bool) {
	for _, sep := range vsSeparators {
		idx := strings.Index(query, sep)
		if idx <= 0 {
			continue
		}
		first = strings.TrimSpace(query[:idx])
		second = strings.TrimSpace(query[idx+len(sep):])
		if first != "" && second != "" {
			return first, second, true
		}
	}
	return "", "", false
}

// significantWords returns the query's words when it qualifies for the
// multi-word match: at least two words, each longer than two runes.
func significantWords(query string) []string {
	words := strings.Fields(query)
	if len(words) < 2 {
		return nil
	}
	for _, w := range words {
		if len([]rune(w)) <= 2 {
			return nil
		}
	}
	return words
}

// everyWordInName reports whether each query word is a substring of some
// word of the (already lowercased) party name.
func everyWordInName(queryWords []string, name string) bool {
	nameWords := strings.Fields(name)
	if len(nameWords) == 0 {
		return false
	}
	for _, qw := range queryWords {
		found := false
		for _, nw := range nameWords {
			if strings.Contains(nw, qw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func matchesAdvanced(r caselist.Record, a Advanced) bool {
	if a.Purpose != "" && !containsFold(r.Purpose, a.Purpose) {
		return false
	}
	if a.CaseType != "" && !containsFold(r.CaseType, a.CaseType) {
		return false
	}
	if a.Court != "" && !containsFold(r.Court, a.Court) {
		return false
	}
	if a.Establishment != "" && !containsFold(r.Establishment, a.Establishment) {
		return false
	}
	if a.HasNotes != nil && (strings.TrimSpace(r.Notes) != "") != *a.HasNotes {
		return false
	}
	if a.Modified != nil && r.Modified != *a.Modified {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// TabCounts recomputes the badge count for every tab in one pass, applying
// each tab's own saved filter state so switching tabs shows accurate counts
// without re-querying. Tabs with no saved state count unfiltered.
func TabCounts(records []caselist.Record, states map[caselist.Tab]State, today time.Time) map[caselist.Tab]int {
	counts := make(map[caselist.Tab]int, len(caselist.Tabs))
	for _, tab := range caselist.Tabs {
		counts[tab] = len(Apply(records, tab, states[tab], today))
	}
	return counts
}
