package api

// Case is the case record as served by the backend. Field names follow the
// eCourts export schema; optional fields may be empty strings.
type Case struct {
	CINO              string `json:"cino"`
	CaseNo            string `json:"case_no"`
	PetpartyName      string `json:"petparty_name"`
	RespartyName      string `json:"resparty_name"`
	EstablishmentName string `json:"establishment_name"`
	StateName         string `json:"state_name,omitempty"`
	DistrictName      string `json:"district_name,omitempty"`
	DateNextList      string `json:"date_next_list,omitempty"`
	DateLastList      string `json:"date_last_list,omitempty"`
	DateOfDecision    string `json:"date_of_decision,omitempty"`
	PurposeName       string `json:"purpose_name,omitempty"`
	TypeName          string `json:"type_name,omitempty"`
	CourtNoDesgName   string `json:"court_no_desg_name,omitempty"`
	DispName          string `json:"disp_name,omitempty"`
	UserNotes         string `json:"user_notes,omitempty"`
	UserSide          string `json:"user_side,omitempty"`
	IsChanged         bool   `json:"is_changed"`
	IsReviewed        bool   `json:"is_reviewed"`
	ChangeSummary     string `json:"change_summary,omitempty"`
	RegNo             int    `json:"reg_no,omitempty"`
	RegYear           int    `json:"reg_year,omitempty"`
}

// ToggleSelectionResult reports how many cases a mark/unmark request touched.
type ToggleSelectionResult struct {
	MarkedCount  int    `json:"marked_count"`
	RemovedCount int    `json:"removed_count"`
	Error        string `json:"error,omitempty"`
}

// Count returns whichever count the server filled in for the action.
func (r ToggleSelectionResult) Count() int {
	if r.MarkedCount > 0 {
		return r.MarkedCount
	}
	return r.RemovedCount
}

// RevertResult is the response of remove_from_reviewed_and_revert.
type RevertResult struct {
	SuccessCount int    `json:"success_count"`
	Message      string `json:"message,omitempty"`
	Error        string `json:"error,omitempty"`
}

// ComprehensiveResult is the response of remove_from_reviewed_comprehensive.
type ComprehensiveResult struct {
	Message        string `json:"message,omitempty"`
	FieldsRestored int    `json:"fields_restored,omitempty"`
	Error          string `json:"error,omitempty"`
}

// CalendarCreateResult reports created/updated event counts.
type CalendarCreateResult struct {
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Error   string `json:"error,omitempty"`
}

// CalendarDeleteResult reports the number of deleted events.
type CalendarDeleteResult struct {
	Deleted int    `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

// Bulk action identifiers accepted by toggle_case_selection.
const (
	ActionMarkReviewed       = "mark_reviewed"
	ActionRemoveFromReviewed = "remove_from_reviewed"
)

// Calendar action scopes.
const (
	ScopeSelected = "selected"
	ScopeAllInTab = "all_in_tab"
)

// User side values.
const (
	SideUnset      = ""
	SidePetitioner = "petitioner"
	SideRespondent = "respondent"
)
