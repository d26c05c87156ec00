package caselist

import (
	"strings"
	"time"

	"github.com/ecourts-tools/ecourts-console/internal/api"
)

// Tab identifies one of the fixed case views. Membership is always computed
// from record fields, never stored.
type Tab string

const (
	TabAll        Tab = "all"
	TabPetitioner Tab = "petitioner"
	TabRespondent Tab = "respondent"
	TabUnassigned Tab = "unassigned"
	TabUpcoming   Tab = "upcoming"
	TabReviewed   Tab = "reviewed"
	TabChanged    Tab = "changed"
)

// Tabs lists every view in display order.
var Tabs = []Tab{TabAll, TabPetitioner, TabRespondent, TabUnassigned, TabUpcoming, TabReviewed, TabChanged}

// Record is the in-memory case record the filter and selection engines
// operate on. The CINO is the stable identity across sessions.
type Record struct {
	CINO          string
	CaseNumber    string
	Petitioner    string
	Respondent    string
	Establishment string
	Court         string
	Purpose       string
	CaseType      string
	State         string
	District      string

	// NextHearingDate is zero when the export had no usable date; such a
	// record never matches a date-bounded filter.
	NextHearingDate time.Time
	LastHearingDate time.Time
	DecisionDate    time.Time

	Notes         string
	UserSide      string
	Modified      bool
	Reviewed      bool
	ChangeSummary string
}

// HasHearingDate reports whether a next hearing date is known.
func (r Record) HasHearingDate() bool {
	return !r.NextHearingDate.IsZero()
}

// InTab reports whether the record belongs to the given view. today is the
// reference date for the upcoming tab.
func (r Record) InTab(tab Tab, today time.Time) bool {
	switch tab {
	case TabAll:
		return true
	case TabPetitioner:
		return r.UserSide == api.SidePetitioner
	case TabRespondent:
		return r.UserSide == api.SideRespondent
	case TabUnassigned:
		return r.UserSide == api.SideUnset
	case TabUpcoming:
		if !r.HasHearingDate() {
			return false
		}
		y, m, d := today.Date()
		midnight := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
		return !r.NextHearingDate.Before(midnight)
	case TabReviewed:
		return r.Reviewed
	case TabChanged:
		return r.Modified
	}
	return false
}

// BuildIndex converts an API snapshot into the canonical record list.
// Missing optional fields come through as empty strings / zero dates.
func BuildIndex(cases []api.Case) []Record {
	records := make([]Record, 0, len(cases))
	for _, c := range cases {
		records = append(records, Record{
			CINO:            c.CINO,
			CaseNumber:      c.CaseNo,
			Petitioner:      c.PetpartyName,
			Respondent:      c.RespartyName,
			Establishment:   c.EstablishmentName,
			Court:           c.CourtNoDesgName,
			Purpose:         c.PurposeName,
			CaseType:        c.TypeName,
			State:           c.StateName,
			District:        c.DistrictName,
			NextHearingDate: ParseDate(c.DateNextList),
			LastHearingDate: ParseDate(c.DateLastList),
			DecisionDate:    ParseDate(c.DateOfDecision),
			Notes:           c.UserNotes,
			UserSide:        strings.ToLower(strings.TrimSpace(c.UserSide)),
			Modified:        c.IsChanged,
			Reviewed:        c.IsReviewed,
			ChangeSummary:   c.ChangeSummary,
		})
	}
	return records
}

// ParseDate parses the backend's YYYY-MM-DD date strings. Placeholder values
// ("Not set", empty) and unparseable input yield the zero time.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "not set") {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatDate renders a date back into the backend's YYYY-MM-DD form, empty
// for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// ToAPICase converts a record back to the wire shape expected by the
// calendar endpoints.
func (r Record) ToAPICase() api.Case {
	return api.Case{
		CINO:              r.CINO,
		CaseNo:            r.CaseNumber,
		PetpartyName:      r.Petitioner,
		RespartyName:      r.Respondent,
		EstablishmentName: r.Establishment,
		StateName:         r.State,
		DistrictName:      r.District,
		DateNextList:      FormatDate(r.NextHearingDate),
		DateLastList:      FormatDate(r.LastHearingDate),
		DateOfDecision:    FormatDate(r.DecisionDate),
		PurposeName:       r.Purpose,
		TypeName:          r.CaseType,
		CourtNoDesgName:   r.Court,
		UserNotes:         r.Notes,
		UserSide:          r.UserSide,
		IsChanged:         r.Modified,
		IsReviewed:        r.Reviewed,
		ChangeSummary:     r.ChangeSummary,
	}
}
