package ui

import (
	"context"
	"fmt"

	"github.com/ecourts-tools/ecourts-console/internal/api"
	"github.com/ecourts-tools/ecourts-console/internal/caselist"
	"github.com/ecourts-tools/ecourts-console/internal/notify"
)

// calendarTargets resolves a scope to concrete records, with unsaved edits
// overlaid so the server sees what the user sees.
func (u *UI) calendarTargets(scope string) []caselist.Record {
	var targets []caselist.Record
	if scope == api.ScopeSelected {
		for _, r := range u.visible {
			if u.sel.Has(r.CINO) {
				targets = append(targets, u.withPendingEdits(r))
			}
		}
		return targets
	}
	for _, r := range u.visible {
		targets = append(targets, u.withPendingEdits(r))
	}
	return targets
}

// createEvents saves any pending edits for the target cases, then submits
// them for calendar event creation. If any save fails the creation request
// is never sent and the failing cases are named. When the scope is the
// current selection on the reviewed tab, successfully processed cases are
// removed from the reviewed set afterwards (best effort).
func (u *UI) createEvents(scope string) {
	targets := u.calendarTargets(scope)
	if len(targets) == 0 {
		if scope == api.ScopeSelected {
			u.notifier.Notify("Select at least one case first", notify.KindWarning)
		} else {
			u.notifier.Notify("No cases in the current view", notify.KindWarning)
		}
		return
	}
	if !u.beginOperation() {
		u.notifier.Notify("Another operation is still running", notify.KindWarning)
		return
	}

	fromReviewed := scope == api.ScopeSelected && u.activeTab == caselist.TabReviewed

	go func() {
		defer u.endOperation()

		loading := u.notifier.NotifyLoading(fmt.Sprintf("Creating calendar events for %d case(s)...", len(targets)))
		res, err := u.runCreateEvents(u.ctx, targets, scope, fromReviewed)
		loading.Dismiss()

		if err != nil {
			u.notifier.Notify(fmt.Sprintf("Calendar creation failed: %v", err), notify.KindError)
			return
		}

		u.recordAndBroadcast("create_calendar_events", scope, len(targets))
		if reloadErr := u.reloadIndex(u.ctx); reloadErr != nil {
			u.logger.Printf("Reload after calendar creation failed: %v", reloadErr)
		}
		u.app.QueueUpdateDraw(func() {
			u.sel.Clear()
			u.applyFilters()
			u.notifier.Notify(fmt.Sprintf("Calendar updated: %d created, %d updated", res.Created, res.Updated), notify.KindSuccess)
		})
	}()
}

// runCreateEvents is the synchronous body of createEvents: pending saves
// first, then the creation request, then the optional reviewed-tab cleanup.
func (u *UI) runCreateEvents(ctx context.Context, targets []caselist.Record, scope string, fromReviewed bool) (api.CalendarCreateResult, error) {
	if failed := u.savePendingEdits(ctx, targets); len(failed) > 0 {
		return api.CalendarCreateResult{}, fmt.Errorf("saving edits failed for %s; no events were created", pendingSummary(failed))
	}

	cases := make([]api.Case, 0, len(targets))
	for _, r := range targets {
		cases = append(cases, r.ToAPICase())
	}

	filterName := "reviewed_only"
	if scope == api.ScopeAllInTab {
		filterName = "all"
	}

	res, err := u.svc.CreateCalendarEvents(ctx, filterName, cases, scope)
	if err != nil {
		return api.CalendarCreateResult{}, err
	}

	if fromReviewed {
		cinos := make([]string, 0, len(targets))
		for _, r := range targets {
			cinos = append(cinos, r.CINO)
		}
		// Log-only on failure: the events exist, the reviewed flag is cosmetic.
		if _, err := u.svc.RemoveFromReviewedAndRevert(ctx, cinos, false); err != nil {
			u.logger.Printf("Removing %d case(s) from reviewed after calendar creation failed: %v", len(cinos), err)
		}
	}
	return res, nil
}

// deleteEvents asks for confirmation, then deletes the calendar events
// backing the scoped cases and reports the deleted count.
func (u *UI) deleteEvents(scope string) {
	targets := u.calendarTargets(scope)
	if len(targets) == 0 {
		if scope == api.ScopeSelected {
			u.notifier.Notify("Select at least one case first", notify.KindWarning)
		} else {
			u.notifier.Notify("No cases in the current view", notify.KindWarning)
		}
		return
	}
	if !u.beginOperation() {
		u.notifier.Notify("Another operation is still running", notify.KindWarning)
		return
	}

	result := u.notifier.Confirm(
		fmt.Sprintf("Delete calendar events for %d case(s)?", len(targets)),
		notify.KindError, "Delete events")

	go func() {
		defer u.endOperation()

		if !<-result {
			return
		}

		cases := make([]api.Case, 0, len(targets))
		for _, r := range targets {
			cases = append(cases, r.ToAPICase())
		}

		loading := u.notifier.NotifyLoading(fmt.Sprintf("Deleting events for %d case(s)...", len(cases)))
		res, err := u.svc.DeleteSelectedCalendarEvents(u.ctx, cases, scope)
		loading.Dismiss()

		if err != nil {
			u.notifier.Notify(fmt.Sprintf("Calendar deletion failed: %v", err), notify.KindError)
			return
		}

		u.recordAndBroadcast("delete_calendar_events", scope, len(cases))
		u.app.QueueUpdateDraw(func() {
			u.sel.Clear()
			u.applyFilters()
			u.notifier.Notify(fmt.Sprintf("Deleted %d calendar event(s)", res.Deleted), notify.KindSuccess)
		})
	}()
}
