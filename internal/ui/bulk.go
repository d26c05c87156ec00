package ui

import (
	"context"
	"fmt"

	"github.com/rivo/tview"

	"github.com/ecourts-tools/ecourts-console/internal/api"
	"github.com/ecourts-tools/ecourts-console/internal/bus"
	"github.com/ecourts-tools/ecourts-console/internal/notify"
	"github.com/ecourts-tools/ecourts-console/internal/store"
)

// Sub-choices for removing cases from the reviewed set.
const (
	removeOnly   = ""
	removeRevert = "revert_fields"
	removeClear  = "clear_fields"
)

// toggleCurrentRow flips selection of the highlighted case and refreshes
// the select-all label state.
func (u *UI) toggleCurrentRow() {
	row, _ := u.table.GetSelection()
	if row < 1 || row-1 >= len(u.visible) {
		return
	}
	cino := u.visible[row-1].CINO
	selected := u.sel.Toggle(cino)
	u.renderTable()
	u.table.Select(row, 0)
	if selected {
		u.updateStatus(fmt.Sprintf("Selected %s — %s", cino, u.selectAllLabel()))
	} else {
		u.updateStatus(fmt.Sprintf("Deselected %s — %s", cino, u.selectAllLabel()))
	}
}

// toggleSelectAll selects every currently visible case, or deselects them
// all when the visible set is already fully selected. Cases hidden by the
// active filter are never included.
func (u *UI) toggleSelectAll() {
	u.sel.ToggleAll(u.visible)
	u.renderTable()
	u.updateStatus(fmt.Sprintf("%d selected — %s", u.sel.Len(), u.selectAllLabel()))
}

// promptRemoveFromReviewed asks which flavor of removal the user wants
// before running the bulk action.
func (u *UI) promptRemoveFromReviewed() {
	if u.sel.Len() == 0 {
		u.notifier.Notify("Select at least one case first", notify.KindWarning)
		return
	}

	form := tview.NewForm().
		SetButtonsAlign(tview.AlignCenter).
		AddButton("Remove only", func() {
			u.closeRemoveChoices()
			u.submitBulkAction(api.ActionRemoveFromReviewed, removeOnly)
		}).
		AddButton("Revert fields", func() {
			u.closeRemoveChoices()
			u.submitBulkAction(api.ActionRemoveFromReviewed, removeRevert)
		}).
		AddButton("Clear fields", func() {
			u.closeRemoveChoices()
			u.submitBulkAction(api.ActionRemoveFromReviewed, removeClear)
		}).
		AddButton("Cancel", func() {
			u.closeRemoveChoices()
		})
	form.SetBorder(true)
	form.SetTitle(" Remove from reviewed ")

	overlay := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(form, 5, 0, true).
			AddItem(nil, 0, 1, false), 70, 0, true).
		AddItem(nil, 0, 1, false)

	u.pages.AddPage("remove-choices", overlay, true, true)
	u.app.SetFocus(form)
}

func (u *UI) closeRemoveChoices() {
	u.pages.RemovePage("remove-choices")
	u.app.SetFocus(u.table)
}

// submitBulkAction validates the selection, asks for confirmation and runs
// the bulk request in the background. On success the selection is cleared
// and the index refreshed; on failure nothing is mutated.
func (u *UI) submitBulkAction(action, subChoice string) {
	if u.sel.Len() == 0 {
		u.notifier.Notify("Select at least one case first", notify.KindWarning)
		return
	}
	if !u.beginOperation() {
		u.notifier.Notify("Another operation is still running", notify.KindWarning)
		return
	}

	verb := "Mark"
	if action == api.ActionRemoveFromReviewed {
		verb = "Remove"
	}

	// Snapshot the selection now; the event loop may mutate it while the
	// confirmation is pending.
	cinos := u.sel.CINOs()
	count := len(cinos)
	result := u.notifier.Confirm(
		fmt.Sprintf("%s %d case(s) as reviewed?", verb, count),
		notify.KindWarning, "Bulk action")

	go func() {
		if !<-result {
			u.endOperation()
			return
		}

		loading := u.notifier.NotifyLoading(fmt.Sprintf("%s %d case(s)...", verb, count))
		message, n, err := u.runBulkAction(u.ctx, action, subChoice, cinos)
		loading.Dismiss()

		if err != nil {
			u.endOperation()
			u.notifier.Notify(fmt.Sprintf("Bulk action failed: %v", err), notify.KindError)
			return
		}

		u.recordAndBroadcast(action, "", n)

		if reloadErr := u.reloadIndex(u.ctx); reloadErr != nil {
			u.logger.Printf("Refresh after bulk action failed: %v", reloadErr)
		}
		u.endOperation()
		u.app.QueueUpdateDraw(func() {
			u.sel.Clear()
			u.applyFilters()
			u.notifier.Notify(message, notify.KindSuccess)
		})
	}()
}

// runBulkAction performs the server request for a bulk action over the
// given selection snapshot and returns the user-facing success message plus
// the affected-case count.
func (u *UI) runBulkAction(ctx context.Context, action, subChoice string, cinos []string) (string, int, error) {
	switch {
	case action == api.ActionMarkReviewed:
		res, err := u.svc.ToggleSelection(ctx, cinos, api.ActionMarkReviewed)
		if err != nil {
			return "", 0, err
		}
		return fmt.Sprintf("Marked %d case(s) as reviewed", res.Count()), res.Count(), nil

	case subChoice == removeOnly:
		res, err := u.svc.ToggleSelection(ctx, cinos, api.ActionRemoveFromReviewed)
		if err != nil {
			return "", 0, err
		}
		return fmt.Sprintf("Removed %d case(s) from reviewed", res.Count()), res.Count(), nil

	case subChoice == removeRevert:
		// The revert endpoint reports a typed success_count, so the message
		// never depends on the server composing one.
		res, err := u.svc.RemoveFromReviewedAndRevert(ctx, cinos, false)
		if err != nil {
			return "", 0, err
		}
		return fmt.Sprintf("Removed %d case(s) from reviewed, fields reverted", res.SuccessCount), res.SuccessCount, nil

	default:
		res, err := u.svc.RemoveFromReviewedComprehensive(ctx, cinos, subChoice)
		if err != nil {
			return "", 0, err
		}
		message := res.Message
		if message == "" {
			message = fmt.Sprintf("Removed %d case(s) from reviewed", len(cinos))
		}
		return message, len(cinos), nil
	}
}

// recordAndBroadcast writes the audit entry and tells other consoles to
// refresh. Both are best-effort.
func (u *UI) recordAndBroadcast(action, scope string, count int) {
	if u.cache != nil {
		err := u.cache.RecordAction(u.ctx, store.AuditEntry{
			Action:    action,
			Scope:     scope,
			CaseCount: count,
		})
		if err != nil {
			u.logger.Printf("Audit write failed: %v", err)
		}
	}
	err := u.refresh.PublishRefresh(u.ctx, bus.RefreshMessage{
		Action:    action,
		CaseCount: count,
		Source:    u.instanceID,
	})
	if err != nil {
		u.logger.Printf("Refresh publish failed: %v", err)
	}
}
