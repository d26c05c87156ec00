package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, nil)
	require.NoError(t, err)
	return client
}

func TestNewClientRejectsEmptyURL(t *testing.T) {
	_, err := NewClient("", nil)
	assert.Error(t, err)
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	client, err := NewClient("http://localhost:5000/", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", client.baseURL)
}

func TestCases(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/cases", r.URL.Path)
		json.NewEncoder(w).Encode([]Case{
			{CINO: "ABC123", PetpartyName: "Asha Rao"},
			{CINO: "DEF456"},
		})
	})

	cases, err := client.Cases(context.Background())
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "ABC123", cases[0].CINO)
	assert.Equal(t, "Asha Rao", cases[0].PetpartyName)
}

func TestCasesServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Cases(context.Background())
	assert.Error(t, err)
}

func TestUpdateCaseSendsNotesAndFields(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/case/ABC123/update", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"message": "saved"})
	})

	err := client.UpdateCase(context.Background(), "ABC123", "call client", map[string]string{
		"date_next_list": "2025-09-20",
	})
	require.NoError(t, err)

	assert.Equal(t, "call client", got["notes"])
	updates, ok := got["updates"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2025-09-20", updates["date_next_list"])
}

func TestUpdateCaseOmitsEmptyUpdates(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{})
	})

	require.NoError(t, client.UpdateNotes(context.Background(), "ABC123", "note"))
	_, hasUpdates := got["updates"]
	assert.False(t, hasUpdates)
}

func TestErrorFieldShortCircuitsSuccess(t *testing.T) {
	// A 200 response whose body carries an error field is still a failure.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "case not found"})
	})

	err := client.UpdateNotes(context.Background(), "NOPE", "note")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "case not found")

	_, err = client.ToggleSelection(context.Background(), []string{"NOPE"}, ActionMarkReviewed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "case not found")
}

func TestErrorBodyPreferredOverStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "missing cinos"})
	})

	_, err := client.ToggleSelection(context.Background(), nil, ActionMarkReviewed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing cinos")
	assert.NotContains(t, err.Error(), "400")
}

func TestToggleSelection(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/toggle_case_selection", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(ToggleSelectionResult{MarkedCount: 3})
	})

	res, err := client.ToggleSelection(context.Background(), []string{"a", "b", "c"}, ActionMarkReviewed)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count())
	assert.Equal(t, "mark_reviewed", got["action"])
	assert.Len(t, got["cinos"], 3)
}

func TestToggleSelectionResultCount(t *testing.T) {
	assert.Equal(t, 2, ToggleSelectionResult{MarkedCount: 2}.Count())
	assert.Equal(t, 4, ToggleSelectionResult{RemovedCount: 4}.Count())
	assert.Equal(t, 0, ToggleSelectionResult{}.Count())
}

func TestRemoveFromReviewedAndRevert(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/remove_from_reviewed_and_revert", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(RevertResult{SuccessCount: 2})
	})

	res, err := client.RemoveFromReviewedAndRevert(context.Background(), []string{"a", "b"}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, false, got["clear_notes"])
}

func TestCreateCalendarEvents(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/create_calendar_events", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(CalendarCreateResult{Created: 2, Updated: 1})
	})

	res, err := client.CreateCalendarEvents(context.Background(), "reviewed_only",
		[]Case{{CINO: "a"}, {CINO: "b"}, {CINO: "c"}}, ScopeSelected)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, "reviewed_only", got["filter"])
	assert.Equal(t, "selected", got["scope"])
	assert.Len(t, got["cases"], 3)
}

func TestDeleteSelectedCalendarEvents(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/delete_selected_calendar_events", r.URL.Path)
		json.NewEncoder(w).Encode(CalendarDeleteResult{Deleted: 5})
	})

	res, err := client.DeleteSelectedCalendarEvents(context.Background(), []Case{{CINO: "a"}}, ScopeAllInTab)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Deleted)
}

func TestDeleteAllCasesAndCalendar(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/delete_all_cases_and_calendar", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"message": "all gone"})
	})

	require.NoError(t, client.DeleteAllCasesAndCalendar(context.Background(), "DELETE"))
	assert.Equal(t, "DELETE", got["confirmation"])
}
