package ui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"golang.org/x/sync/errgroup"

	"github.com/ecourts-tools/ecourts-console/internal/api"
	"github.com/ecourts-tools/ecourts-console/internal/caselist"
	"github.com/ecourts-tools/ecourts-console/internal/notify"
)

// PendingEdit holds locally edited, not yet saved fields for one case.
// Nil pointers mean "unchanged".
type PendingEdit struct {
	Notes        *string
	HearingDate  *string // YYYY-MM-DD
	DecisionDate *string // YYYY-MM-DD
	UserSide     *string
}

// isEmpty reports whether nothing is actually edited.
func (p PendingEdit) isEmpty() bool {
	return p.Notes == nil && p.HearingDate == nil && p.DecisionDate == nil && p.UserSide == nil
}

// setPending merges an edit into the pending map, dropping entries that
// carry no changes.
func (u *UI) setPending(cino string, mutate func(*PendingEdit)) {
	p := u.pending[cino]
	mutate(&p)
	if p.isEmpty() {
		delete(u.pending, cino)
	} else {
		u.pending[cino] = p
	}
}

// withPendingEdits overlays unsaved edits onto a record for display and for
// calendar submission.
func (u *UI) withPendingEdits(r caselist.Record) caselist.Record {
	p, ok := u.pending[r.CINO]
	if !ok {
		return r
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	if p.HearingDate != nil {
		r.NextHearingDate = caselist.ParseDate(*p.HearingDate)
	}
	if p.DecisionDate != nil {
		r.DecisionDate = caselist.ParseDate(*p.DecisionDate)
	}
	if p.UserSide != nil {
		r.UserSide = *p.UserSide
	}
	return r
}

// editCurrentNotes opens the notes editor for the highlighted case.
func (u *UI) editCurrentNotes() {
	row, _ := u.table.GetSelection()
	if row < 1 || row-1 >= len(u.visible) {
		return
	}
	rec := u.withPendingEdits(u.visible[row-1])

	editor := tview.NewTextArea()
	editor.SetText(rec.Notes, true)
	editor.SetBorder(true)
	editor.SetTitle(fmt.Sprintf(" Notes — %s (Ctrl-S save, Esc keep as draft) ", rec.CaseNumber))

	closeEditor := func() {
		u.pages.RemovePage("notes-editor")
		u.app.SetFocus(u.table)
		u.renderTable()
		u.showCaseDetail(u.visible[row-1])
	}

	editor.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			// Keep the edit pending; it is saved explicitly or swept up by
			// calendar creation.
			text := editor.GetText()
			u.setPending(rec.CINO, func(p *PendingEdit) {
				if text == u.baselineNotes(rec.CINO) {
					p.Notes = nil
				} else {
					p.Notes = &text
				}
			})
			closeEditor()
			return nil
		case tcell.KeyCtrlS:
			text := editor.GetText()
			u.saveCaseNotes(rec.CINO, text)
			closeEditor()
			return nil
		}
		return event
	})

	overlay := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(editor, 14, 0, true).
			AddItem(nil, 0, 1, false), 72, 0, true).
		AddItem(nil, 0, 1, false)

	u.pages.AddPage("notes-editor", overlay, true, true)
	u.app.SetFocus(editor)
}

// baselineNotes returns the server-side notes text for a case.
func (u *UI) baselineNotes(cino string) string {
	for _, r := range u.index {
		if r.CINO == cino {
			return r.Notes
		}
	}
	return ""
}

// saveCaseNotes persists one case's notes immediately.
func (u *UI) saveCaseNotes(cino, text string) {
	loading := u.notifier.NotifyLoading("Saving notes...")
	go func() {
		err := u.svc.UpdateCase(u.ctx, cino, text, nil)
		loading.Dismiss()
		if err != nil {
			u.notifier.Notify(fmt.Sprintf("Saving notes failed: %v", err), notify.KindError)
			return
		}
		if reloadErr := u.reloadIndex(u.ctx); reloadErr != nil {
			u.logger.Printf("Reload after notes save failed: %v", reloadErr)
		}
		u.app.QueueUpdateDraw(func() {
			u.setPending(cino, func(p *PendingEdit) { p.Notes = nil })
			u.applyFilters()
			u.notifier.Notify("Notes saved", notify.KindSuccess)
		})
	}()
}

// editCurrentUserSide cycles petitioner → respondent → unassigned for the
// highlighted case and saves immediately.
func (u *UI) editCurrentUserSide() {
	row, _ := u.table.GetSelection()
	if row < 1 || row-1 >= len(u.visible) {
		return
	}
	rec := u.withPendingEdits(u.visible[row-1])

	var next string
	switch rec.UserSide {
	case api.SidePetitioner:
		next = api.SideRespondent
	case api.SideRespondent:
		next = api.SideUnset
	default:
		next = api.SidePetitioner
	}

	loading := u.notifier.NotifyLoading("Updating side...")
	go func() {
		err := u.svc.UpdateUserSide(u.ctx, rec.CINO, next)
		loading.Dismiss()
		if err != nil {
			u.notifier.Notify(fmt.Sprintf("Updating side failed: %v", err), notify.KindError)
			return
		}
		if reloadErr := u.reloadIndex(u.ctx); reloadErr != nil {
			u.logger.Printf("Reload after side update failed: %v", reloadErr)
		}
		u.app.QueueUpdateDraw(func() {
			u.setPending(rec.CINO, func(p *PendingEdit) { p.UserSide = nil })
			u.applyFilters()
		})
	}()
}

// savePendingEdits persists every unsaved edit among the target cases, one
// save request per case, running in parallel. It returns the CINOs that
// failed; when any fail, the successfully saved ones are still cleared from
// the pending map.
func (u *UI) savePendingEdits(ctx context.Context, targets []caselist.Record) []string {
	type job struct {
		cino string
		edit PendingEdit
	}
	var jobs []job
	for _, r := range targets {
		if p, ok := u.pending[r.CINO]; ok {
			jobs = append(jobs, job{cino: r.CINO, edit: p})
		}
	}
	if len(jobs) == 0 {
		return nil
	}

	var mu sync.Mutex
	var failed []string
	saved := make(map[string]bool, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			if err := u.savePendingEdit(gctx, j.cino, j.edit); err != nil {
				u.logger.Printf("Pending save for %s failed: %v", j.cino, err)
				mu.Lock()
				failed = append(failed, j.cino)
				mu.Unlock()
				return nil // keep saving the rest; the caller aborts afterwards
			}
			mu.Lock()
			saved[j.cino] = true
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	for cino := range saved {
		delete(u.pending, cino)
	}
	sort.Strings(failed)
	return failed
}

// savePendingEdit pushes one case's pending fields to the server. Notes and
// date fields go through the case update endpoint; the user side has its
// own endpoint.
func (u *UI) savePendingEdit(ctx context.Context, cino string, p PendingEdit) error {
	notes := u.baselineNotes(cino)
	if p.Notes != nil {
		notes = *p.Notes
	}

	fields := make(map[string]string)
	if p.HearingDate != nil {
		fields["date_next_list"] = *p.HearingDate
	}
	if p.DecisionDate != nil {
		fields["date_of_decision"] = *p.DecisionDate
	}

	if p.Notes != nil || len(fields) > 0 {
		if err := u.svc.UpdateCase(ctx, cino, notes, fields); err != nil {
			return err
		}
	}
	if p.UserSide != nil {
		if err := u.svc.UpdateUserSide(ctx, cino, *p.UserSide); err != nil {
			return err
		}
	}
	return nil
}

// pendingSummary names cases for failure messages.
func pendingSummary(cinos []string) string {
	if len(cinos) <= 3 {
		return strings.Join(cinos, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(cinos[:3], ", "), len(cinos)-3)
}
