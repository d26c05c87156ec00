package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecourts-tools/ecourts-console/internal/api"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore(t *testing.T) {
	s := newTestStore(t)

	// Verify tables were created
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table'").Scan(&count)
	require.NoError(t, err)
	assert.Greater(t, count, 0, "Expected tables to be created")
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cases := []api.Case{
		{
			CINO:         "ABC123",
			CaseNo:       "CRL.A/1/2025",
			PetpartyName: "Asha Rao",
			RespartyName: "Kiran Rao",
			DateNextList: "2025-09-20",
			IsReviewed:   true,
		},
		{CINO: "DEF456", UserNotes: "awaiting copy"},
	}

	require.NoError(t, s.SaveSnapshot(ctx, cases))

	n, err := s.SnapshotCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	loaded, fetchedAt, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.False(t, fetchedAt.IsZero())

	// Rows come back ordered by CINO.
	assert.Equal(t, "ABC123", loaded[0].CINO)
	assert.Equal(t, "Asha Rao", loaded[0].PetpartyName)
	assert.True(t, loaded[0].IsReviewed)
	assert.Equal(t, "awaiting copy", loaded[1].UserNotes)
}

func TestSaveSnapshotReplacesPrevious(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSnapshot(ctx, []api.Case{{CINO: "OLD1"}, {CINO: "OLD2"}}))
	require.NoError(t, s.SaveSnapshot(ctx, []api.Case{{CINO: "NEW1"}}))

	loaded, _, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "NEW1", loaded[0].CINO)
}

func TestLoadSnapshotEmpty(t *testing.T) {
	s := newTestStore(t)

	loaded, fetchedAt, err := s.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
	assert.True(t, fetchedAt.IsZero())
}

func TestRecordAndListActions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordAction(ctx, AuditEntry{
		Action:    "mark_reviewed",
		Scope:     "selected",
		CaseCount: 3,
		Details:   map[string]string{"tab": "all"},
	}))
	require.NoError(t, s.RecordAction(ctx, AuditEntry{
		Action:    "create_calendar_events",
		CaseCount: 1,
	}))

	entries, err := s.RecentActions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		assert.NotEmpty(t, e.ID, "ID filled in when absent")
		assert.False(t, e.CreatedAt.IsZero())
	}

	var marked *AuditEntry
	for i := range entries {
		if entries[i].Action == "mark_reviewed" {
			marked = &entries[i]
		}
	}
	require.NotNil(t, marked)
	assert.Equal(t, 3, marked.CaseCount)
	assert.Equal(t, "selected", marked.Scope)
	assert.Equal(t, "all", marked.Details["tab"])
}

func TestRecentActionsLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.RecordAction(ctx, AuditEntry{Action: "mark_reviewed"}))
	}

	entries, err := s.RecentActions(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
