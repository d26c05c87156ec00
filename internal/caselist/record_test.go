package caselist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ecourts-tools/ecourts-console/internal/api"
)

func TestParseDate(t *testing.T) {
	got := ParseDate("2025-09-15")
	assert.Equal(t, time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC), got)

	// Placeholders and junk all map to the zero time.
	assert.True(t, ParseDate("").IsZero())
	assert.True(t, ParseDate("  ").IsZero())
	assert.True(t, ParseDate("Not set").IsZero())
	assert.True(t, ParseDate("NOT SET").IsZero())
	assert.True(t, ParseDate("15/09/2025").IsZero())
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2025-09-15", FormatDate(time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", FormatDate(time.Time{}))
}

func TestBuildIndexToleratesMissingFields(t *testing.T) {
	cases := []api.Case{
		{CINO: "ABC123"},
		{
			CINO:              "DEF456",
			CaseNo:            "CRL.A/1/2025",
			PetpartyName:      "Asha Rao",
			RespartyName:      "Kiran Rao",
			EstablishmentName: "District Court",
			DateNextList:      "2025-09-20",
			UserSide:          " Petitioner ",
			IsReviewed:        true,
			IsChanged:         true,
		},
	}

	records := BuildIndex(cases)
	assert.Len(t, records, 2)

	bare := records[0]
	assert.Equal(t, "ABC123", bare.CINO)
	assert.Empty(t, bare.Petitioner)
	assert.False(t, bare.HasHearingDate())
	assert.Equal(t, api.SideUnset, bare.UserSide)

	full := records[1]
	assert.Equal(t, "Asha Rao", full.Petitioner)
	assert.True(t, full.HasHearingDate())
	// User side is normalized to lowercase without padding.
	assert.Equal(t, api.SidePetitioner, full.UserSide)
	assert.True(t, full.Reviewed)
	assert.True(t, full.Modified)
}

func TestInTab(t *testing.T) {
	today := time.Date(2025, 9, 1, 10, 30, 0, 0, time.UTC)

	r := Record{
		CINO:            "X",
		UserSide:        api.SidePetitioner,
		NextHearingDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		Reviewed:        true,
	}

	assert.True(t, r.InTab(TabAll, today))
	assert.True(t, r.InTab(TabPetitioner, today))
	assert.False(t, r.InTab(TabRespondent, today))
	assert.False(t, r.InTab(TabUnassigned, today))
	assert.True(t, r.InTab(TabReviewed, today))
	assert.False(t, r.InTab(TabChanged, today))

	// A hearing today counts as upcoming even mid-afternoon.
	assert.True(t, r.InTab(TabUpcoming, today))

	past := r
	past.NextHearingDate = time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)
	assert.False(t, past.InTab(TabUpcoming, today))

	dateless := Record{CINO: "Y"}
	assert.False(t, dateless.InTab(TabUpcoming, today))
	assert.True(t, dateless.InTab(TabUnassigned, today))
}

func TestToAPICaseRoundTrip(t *testing.T) {
	r := Record{
		CINO:            "ABC123",
		CaseNumber:      "CRL.A/1/2025",
		Petitioner:      "Asha Rao",
		Respondent:      "Kiran Rao",
		NextHearingDate: time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC),
		Notes:           "note",
		UserSide:        api.SideRespondent,
		Reviewed:        true,
	}

	c := r.ToAPICase()
	assert.Equal(t, "ABC123", c.CINO)
	assert.Equal(t, "2025-09-20", c.DateNextList)
	assert.Equal(t, "", c.DateOfDecision)
	assert.True(t, c.IsReviewed)

	back := BuildIndex([]api.Case{c})[0]
	assert.Equal(t, r.CINO, back.CINO)
	assert.Equal(t, r.NextHearingDate, back.NextHearingDate)
	assert.Equal(t, r.UserSide, back.UserSide)
}
