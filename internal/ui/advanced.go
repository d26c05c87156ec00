package ui

import (
	"github.com/rivo/tview"

	"github.com/ecourts-tools/ecourts-console/internal/filter"
)

// Tri-state labels for the boolean constraints.
var triOptions = []string{"any", "yes", "no"}

func triIndex(v *bool) int {
	switch {
	case v == nil:
		return 0
	case *v:
		return 1
	default:
		return 2
	}
}

func triValue(index int) *bool {
	switch index {
	case 1:
		v := true
		return &v
	case 2:
		v := false
		return &v
	default:
		return nil
	}
}

// setAdvanced replaces the active tab's advanced constraints and re-runs
// the filter.
func (u *UI) setAdvanced(adv filter.Advanced) {
	st := u.filters[u.activeTab]
	st.Advanced = adv
	u.filters[u.activeTab] = st
	u.applyFilters()
}

// openAdvancedFilters shows the field-level filter form for the active tab:
// substring constraints for purpose/case type/court/establishment and
// tri-state has-notes/changed toggles, ANDed with the text and date filters.
func (u *UI) openAdvancedFilters() {
	adv := u.filters[u.activeTab].Advanced

	form := tview.NewForm().
		AddInputField("Purpose", adv.Purpose, 30, nil, func(text string) { adv.Purpose = text }).
		AddInputField("Case type", adv.CaseType, 30, nil, func(text string) { adv.CaseType = text }).
		AddInputField("Court", adv.Court, 30, nil, func(text string) { adv.Court = text }).
		AddInputField("Establishment", adv.Establishment, 30, nil, func(text string) { adv.Establishment = text }).
		AddDropDown("Has notes", triOptions, triIndex(adv.HasNotes), func(option string, index int) {
			adv.HasNotes = triValue(index)
		}).
		AddDropDown("Changed", triOptions, triIndex(adv.Modified), func(option string, index int) {
			adv.Modified = triValue(index)
		}).
		AddButton("Apply", func() {
			u.closeAdvancedFilters()
			u.setAdvanced(adv)
		}).
		AddButton("Reset", func() {
			u.closeAdvancedFilters()
			u.setAdvanced(filter.Advanced{})
		}).
		AddButton("Cancel", func() {
			u.closeAdvancedFilters()
		})
	form.SetBorder(true)
	form.SetTitle(" Advanced filters ")

	overlay := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(form, 17, 0, true).
			AddItem(nil, 0, 1, false), 60, 0, true).
		AddItem(nil, 0, 1, false)

	u.pages.AddPage("advanced-filters", overlay, true, true)
	u.app.SetFocus(form)
}

func (u *UI) closeAdvancedFilters() {
	u.pages.RemovePage("advanced-filters")
	u.app.SetFocus(u.table)
}
