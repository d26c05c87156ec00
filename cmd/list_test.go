package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetListFlags() {
	listSearch = ""
	listFrom = ""
	listTo = ""
	listPurpose = ""
	listEstablishment = ""
	listHasNotes = false
	listChanged = false
}

func TestListFilterState(t *testing.T) {
	resetListFlags()
	t.Cleanup(resetListFlags)

	listSearch = "sharma vs patel"
	listFrom = "2025-09-01"
	listTo = "2025-09-30"
	listPurpose = "evidence"
	listEstablishment = "district court"
	listHasNotes = true
	listChanged = true

	state, err := listFilterState()
	require.NoError(t, err)
	assert.Equal(t, "sharma vs patel", state.Query)
	assert.Equal(t, "2025-09-01", state.From.Format("2006-01-02"))
	assert.Equal(t, "2025-09-30", state.To.Format("2006-01-02"))
	assert.Equal(t, "evidence", state.Advanced.Purpose)
	assert.Equal(t, "district court", state.Advanced.Establishment)
	require.NotNil(t, state.Advanced.HasNotes)
	assert.True(t, *state.Advanced.HasNotes)
	require.NotNil(t, state.Advanced.Modified)
	assert.True(t, *state.Advanced.Modified)
}

func TestListFilterStateUnsetBooleansStayNil(t *testing.T) {
	resetListFlags()
	t.Cleanup(resetListFlags)

	state, err := listFilterState()
	require.NoError(t, err)
	assert.True(t, state.IsZero(), "no flags means no constraints")
	assert.Nil(t, state.Advanced.HasNotes)
	assert.Nil(t, state.Advanced.Modified)
}

func TestListFilterStateRejectsBadDates(t *testing.T) {
	resetListFlags()
	t.Cleanup(resetListFlags)

	listFrom = "01/09/2025"
	_, err := listFilterState()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--from")
}
