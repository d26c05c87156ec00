// Package ui implements the case-review terminal interface: tabbed case
// listing with client-side filtering, bulk selection, notes editing and
// calendar-event orchestration against the server API.
package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/rivo/tview"

	"github.com/ecourts-tools/ecourts-console/internal/api"
	"github.com/ecourts-tools/ecourts-console/internal/bus"
	"github.com/ecourts-tools/ecourts-console/internal/caselist"
	"github.com/ecourts-tools/ecourts-console/internal/filter"
	"github.com/ecourts-tools/ecourts-console/internal/notify"
	"github.com/ecourts-tools/ecourts-console/internal/selection"
	"github.com/ecourts-tools/ecourts-console/internal/store"
)

// CaseService is the subset of the API client the UI depends on.
type CaseService interface {
	Cases(ctx context.Context) ([]api.Case, error)
	UpdateCase(ctx context.Context, cino, notes string, fields map[string]string) error
	UpdateUserSide(ctx context.Context, cino, side string) error
	ToggleSelection(ctx context.Context, cinos []string, action string) (api.ToggleSelectionResult, error)
	RemoveFromReviewedAndRevert(ctx context.Context, cinos []string, clearNotes bool) (api.RevertResult, error)
	RemoveFromReviewedComprehensive(ctx context.Context, cinos []string, actionType string) (api.ComprehensiveResult, error)
	CreateCalendarEvents(ctx context.Context, filterName string, cases []api.Case, scope string) (api.CalendarCreateResult, error)
	DeleteSelectedCalendarEvents(ctx context.Context, cases []api.Case, scope string) (api.CalendarDeleteResult, error)
}

// tabLabels maps tabs to their display names.
var tabLabels = map[caselist.Tab]string{
	caselist.TabAll:        "All",
	caselist.TabPetitioner: "Petitioner",
	caselist.TabRespondent: "Respondent",
	caselist.TabUnassigned: "Unassigned",
	caselist.TabUpcoming:   "Upcoming",
	caselist.TabReviewed:   "Reviewed",
	caselist.TabChanged:    "Changed",
}

// UI represents the case-review terminal user interface. All mutable page
// state lives here explicitly; nothing is read from ambient globals.
type UI struct {
	app      *tview.Application
	svc      CaseService
	cache    *store.Store
	refresh  bus.Bus
	notifier *notify.Center
	logger   *log.Logger
	theme    Theme

	// Layout components
	pages       *tview.Pages
	layout      *tview.Flex
	tabBar      *tview.TextView
	searchInput *tview.InputField
	fromInput   *tview.InputField
	toInput     *tview.InputField
	table       *tview.Table
	detail      *tview.TextView
	statusBar   *tview.TextView

	// State
	index      []caselist.Record
	activeTab  caselist.Tab
	filters    map[caselist.Tab]filter.State
	visible    []caselist.Record
	sel        *selection.Set
	pending    map[string]PendingEdit
	counts     map[caselist.Tab]int
	offline    bool
	instanceID string

	// In-flight guard for bulk/calendar operations; the triggering controls
	// are ignored while a request is running.
	busy int32

	// Clock hook so filter presets and the upcoming tab are testable.
	now func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewUI creates the case-review interface. cache and refreshBus may be nil.
func NewUI(ctx context.Context, svc CaseService, cache *store.Store, refreshBus bus.Bus, logger *log.Logger) *UI {
	if logger == nil {
		logger = log.New(log.Writer(), "[UI] ", log.LstdFlags)
	}
	if refreshBus == nil {
		refreshBus = bus.NewNullBus(log.New(log.Writer(), "[NullBus] ", 0))
	}

	uiCtx, cancel := context.WithCancel(ctx)

	u := &UI{
		app:        tview.NewApplication(),
		svc:        svc,
		cache:      cache,
		refresh:    refreshBus,
		logger:     logger,
		theme:      themeDark(),
		activeTab:  caselist.TabAll,
		filters:    make(map[caselist.Tab]filter.State),
		sel:        selection.NewSet(caselist.TabAll),
		pending:    make(map[string]PendingEdit),
		counts:     make(map[caselist.Tab]int),
		instanceID: uuid.New().String(),
		now:        time.Now,
		ctx:        uiCtx,
		cancel:     cancel,
	}

	u.setupLayout()
	u.setupKeybindings()
	return u
}

// Notifier exposes the notification center (used by commands that embed the UI).
func (u *UI) Notifier() *notify.Center { return u.notifier }

// SetThemeName switches the color theme and repaints. Call before Start.
func (u *UI) SetThemeName(name string) {
	u.theme = themeByName(name)
	u.searchInput.SetFieldBackgroundColor(u.theme.Surface)
	u.fromInput.SetFieldBackgroundColor(u.theme.Surface)
	u.toInput.SetFieldBackgroundColor(u.theme.Surface)
	u.renderTabBar()
	u.renderTable()
}

// Start loads the initial case index and runs the application until the
// context is cancelled or the user quits.
func (u *UI) Start(ctx context.Context) error {
	u.logger.Println("Starting case review TUI")

	go func() {
		if err := u.reloadIndex(u.ctx); err != nil {
			u.logger.Printf("Initial load failed: %v", err)
		}
		u.app.QueueUpdateDraw(func() { u.app.SetFocus(u.table) })
	}()

	// Reload when another console reports a completed bulk action.
	go func() {
		err := u.refresh.Subscribe(u.ctx, u.instanceID, func(msg bus.RefreshMessage) {
			u.logger.Printf("Refresh message from %s (%s), reloading", msg.Source, msg.Action)
			if err := u.reloadIndex(u.ctx); err != nil {
				u.logger.Printf("Reload after refresh message failed: %v", err)
			}
		})
		if err != nil && u.ctx.Err() == nil {
			u.logger.Printf("Refresh subscription ended: %v", err)
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
		case <-u.ctx.Done():
		}
		u.cancel()
		u.app.Stop()
	}()

	err := u.app.Run()
	u.logger.Printf("app.Run() returned with error: %v", err)
	return err
}

// Stop stops the TUI application.
func (u *UI) Stop() {
	u.cancel()
	u.app.Stop()
}

// fetchIndex loads the case list from the server, falling back to the local
// snapshot cache when the server is unreachable. It never touches UI state,
// so it is safe to call from any goroutine.
func (u *UI) fetchIndex(ctx context.Context) (records []caselist.Record, offline bool, err error) {
	cases, err := u.svc.Cases(ctx)
	if err != nil {
		if u.cache != nil {
			cached, fetchedAt, cacheErr := u.cache.LoadSnapshot(ctx)
			if cacheErr == nil && len(cached) > 0 {
				u.notifier.Notify(
					fmt.Sprintf("Server unreachable, showing cached snapshot from %s", fetchedAt.Format("Jan 2 15:04")),
					notify.KindWarning)
				return caselist.BuildIndex(cached), true, nil
			}
		}
		u.notifier.Notify(fmt.Sprintf("Loading cases failed: %v", err), notify.KindError)
		return nil, false, err
	}

	if u.cache != nil {
		if err := u.cache.SaveSnapshot(ctx, cases); err != nil {
			// Cache trouble is not worth interrupting the user for.
			u.logger.Printf("Snapshot cache write failed: %v", err)
		}
	}
	return caselist.BuildIndex(cases), false, nil
}

// reloadIndex fetches a fresh index and hands it to the event loop, which
// is the only place the index and visible subset are ever written. Call
// from a background goroutine, never from inside the loop.
func (u *UI) reloadIndex(ctx context.Context) error {
	records, offline, err := u.fetchIndex(ctx)
	if err != nil {
		return err
	}
	u.app.QueueUpdateDraw(func() {
		u.index = records
		u.offline = offline
		u.applyFilters()
	})
	return nil
}

// setupLayout creates the main layout.
func (u *UI) setupLayout() {
	u.tabBar = tview.NewTextView().SetDynamicColors(true)
	u.tabBar.SetWrap(false)

	u.searchInput = tview.NewInputField().SetLabel(" Search: ")
	u.searchInput.SetFieldBackgroundColor(u.theme.Surface)
	u.searchInput.SetChangedFunc(func(text string) {
		st := u.filters[u.activeTab]
		st.Query = text
		u.filters[u.activeTab] = st
		u.applyFilters()
	})

	u.fromInput = tview.NewInputField().SetLabel(" From: ").SetPlaceholder("YYYY-MM-DD")
	u.toInput = tview.NewInputField().SetLabel(" To: ").SetPlaceholder("YYYY-MM-DD")
	u.fromInput.SetFieldBackgroundColor(u.theme.Surface)
	u.toInput.SetFieldBackgroundColor(u.theme.Surface)
	u.fromInput.SetChangedFunc(func(text string) {
		st := u.filters[u.activeTab]
		st.From = caselist.ParseDate(text)
		u.filters[u.activeTab] = st
		u.applyFilters()
	})
	u.toInput.SetChangedFunc(func(text string) {
		st := u.filters[u.activeTab]
		st.To = caselist.ParseDate(text)
		u.filters[u.activeTab] = st
		u.applyFilters()
	})

	u.table = tview.NewTable()
	u.table.SetBorder(true)
	u.table.SetTitle(" Cases ")
	u.table.SetTitleAlign(tview.AlignLeft)
	u.table.SetSelectable(true, false)
	// Pin header row so it stays visible when scrolling.
	u.table.SetFixed(1, 0)
	u.table.SetSelectionChangedFunc(func(row, col int) {
		if row > 0 && row-1 < len(u.visible) {
			u.showCaseDetail(u.visible[row-1])
		}
	})

	u.detail = tview.NewTextView()
	u.detail.SetBorder(true)
	u.detail.SetTitle(" Case Details ")
	u.detail.SetTitleAlign(tview.AlignLeft)
	u.detail.SetDynamicColors(true)
	u.detail.SetWordWrap(true)

	u.statusBar = tview.NewTextView()
	u.statusBar.SetDynamicColors(true)

	filterRow := tview.NewFlex().
		AddItem(u.searchInput, 0, 2, false).
		AddItem(u.fromInput, 0, 1, false).
		AddItem(u.toInput, 0, 1, false)

	left := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(u.tabBar, 2, 0, false).
		AddItem(filterRow, 1, 0, false).
		AddItem(u.table, 0, 1, true)

	u.pages = tview.NewPages()
	u.notifier = notify.NewCenter(u.app, u.pages, log.New(log.Writer(), "[notify] ", log.LstdFlags))

	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(u.notifier.Stack().(*tview.Flex), 0, 1, false).
		AddItem(u.detail, 0, 2, false)

	u.layout = tview.NewFlex().
		AddItem(left, 0, 3, true).
		AddItem(right, 42, 0, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(u.layout, 0, 1, true).
		AddItem(u.statusBar, 1, 0, false)

	u.pages.AddPage("main", root, true, true)
	u.app.SetRoot(u.pages, true)

	u.renderTabBar()
	u.renderTable()
	u.updateStatus("Ready")
}

// setupKeybindings wires the table-level and global key handlers.
func (u *UI) setupKeybindings() {
	u.table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyRune:
			switch event.Rune() {
			case ' ':
				u.toggleCurrentRow()
				return nil
			case 'a':
				u.toggleSelectAll()
				return nil
			case 'm':
				u.submitBulkAction(api.ActionMarkReviewed, removeOnly)
				return nil
			case 'u':
				u.promptRemoveFromReviewed()
				return nil
			case 'n':
				u.editCurrentNotes()
				return nil
			case 's':
				u.editCurrentUserSide()
				return nil
			case 'c':
				u.createEvents(api.ScopeSelected)
				return nil
			case 'C':
				u.createEvents(api.ScopeAllInTab)
				return nil
			case 'x':
				u.deleteEvents(api.ScopeSelected)
				return nil
			case 'X':
				u.deleteEvents(api.ScopeAllInTab)
				return nil
			case 'r':
				go func() {
					if err := u.reloadIndex(u.ctx); err != nil {
						u.logger.Printf("Manual reload failed: %v", err)
					}
				}()
				return nil
			case 'f':
				u.openAdvancedFilters()
				return nil
			case '/':
				u.app.SetFocus(u.searchInput)
				return nil
			case 'q':
				u.Stop()
				return nil
			}
		case tcell.KeyTab:
			u.switchTab(u.nextTab(1))
			return nil
		case tcell.KeyBacktab:
			u.switchTab(u.nextTab(-1))
			return nil
		}

		// Number keys jump straight to a tab.
		if event.Key() == tcell.KeyRune && event.Rune() >= '1' && event.Rune() <= '7' {
			u.switchTab(caselist.Tabs[event.Rune()-'1'])
			return nil
		}
		return event
	})

	u.searchInput.SetDoneFunc(func(key tcell.Key) {
		u.app.SetFocus(u.table)
	})
	u.fromInput.SetDoneFunc(func(key tcell.Key) { u.app.SetFocus(u.table) })
	u.toInput.SetDoneFunc(func(key tcell.Key) { u.app.SetFocus(u.table) })
}

func (u *UI) nextTab(delta int) caselist.Tab {
	for i, t := range caselist.Tabs {
		if t == u.activeTab {
			next := (i + delta + len(caselist.Tabs)) % len(caselist.Tabs)
			return caselist.Tabs[next]
		}
	}
	return caselist.TabAll
}

// switchTab activates another view. The outgoing tab's filter state stays
// in the map so revisiting restores it; the selection never survives a
// switch and the select-all control resets with it.
func (u *UI) switchTab(tab caselist.Tab) {
	if tab == u.activeTab {
		return
	}
	u.activeTab = tab
	u.sel.SwitchTab(tab)

	st := u.filters[tab]
	u.searchInput.SetText(st.Query)
	u.fromInput.SetText(caselist.FormatDate(st.From))
	u.toInput.SetText(caselist.FormatDate(st.To))

	u.applyFilters()
	u.updateStatus(fmt.Sprintf("Viewing %s", tabLabels[tab]))
}

// ApplyPreset sets the active tab's date bounds from a quick preset name.
func (u *UI) ApplyPreset(preset string) {
	from, to := filter.PresetRange(preset, u.now())
	st := u.filters[u.activeTab]
	st.From, st.To = from, to
	u.filters[u.activeTab] = st
	u.fromInput.SetText(caselist.FormatDate(from))
	u.toInput.SetText(caselist.FormatDate(to))
	u.applyFilters()
}

// applyFilters recomputes the visible subset and every tab's badge count,
// then re-renders the table and tab bar.
func (u *UI) applyFilters() {
	today := u.now()
	u.visible = filter.Apply(u.index, u.activeTab, u.filters[u.activeTab], today)
	u.counts = filter.TabCounts(u.index, u.filters, today)
	u.renderTable()
	u.renderTabBar()
	u.updateStatus(fmt.Sprintf("%d case(s)", len(u.visible)))
}

// renderTabBar paints framed tabs with per-tab count badges. The badge is
// muted when the count is zero and accented otherwise.
func (u *UI) renderTabBar() {
	var topLine, underline strings.Builder
	for _, tab := range caselist.Tabs {
		label := fmt.Sprintf("%s (%d)", tabLabels[tab], u.counts[tab])
		var piece string
		if tab == u.activeTab {
			piece = fmt.Sprintf(" ╭─ %s ─╮ ", label)
			topLine.WriteString("[::b]" + piece + "[-:-:-]")
		} else {
			piece = fmt.Sprintf(" ┌ %s ┐ ", label)
			tag := u.theme.TagMuted
			if u.counts[tab] > 0 {
				tag = u.theme.TagAccent
			}
			topLine.WriteString(fmt.Sprintf("[%s]%s[-]", tag, piece))
		}
		w := len([]rune(piece))
		if tab == u.activeTab {
			underline.WriteString(strings.Repeat(" ", w))
		} else {
			underline.WriteString(strings.Repeat("─", w))
		}
	}
	u.tabBar.SetText(topLine.String() + "\n" + underline.String())
}

// renderTable rebuilds the case table from the visible subset.
func (u *UI) renderTable() {
	u.table.Clear()

	headers := []string{"", "Case No", "Petitioner", "Respondent", "Next Hearing", "Purpose", "Flags"}
	for col, header := range headers {
		u.table.SetCell(0, col, tview.NewTableCell(header).
			SetTextColor(u.theme.TableHeader).
			SetBackgroundColor(u.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))
	}

	for i, r := range u.visible {
		row := i + 1
		mark := " "
		if u.sel.Has(r.CINO) {
			mark = "✓"
		}
		hearing := caselist.FormatDate(r.NextHearingDate)
		if hearing == "" {
			hearing = "-"
		}
		var flags []string
		if r.Modified {
			flags = append(flags, "M")
		}
		if r.Reviewed {
			flags = append(flags, "R")
		}
		if _, ok := u.pending[r.CINO]; ok {
			flags = append(flags, "*")
		}
		if strings.TrimSpace(r.Notes) != "" {
			flags = append(flags, "N")
		}

		rowColor := u.theme.TableRow
		if !r.HasHearingDate() {
			rowColor = u.theme.TableRowMuted
		}

		u.table.SetCell(row, 0, tview.NewTableCell(mark).SetTextColor(u.theme.Accent))
		u.table.SetCell(row, 1, tview.NewTableCell(r.CaseNumber).SetTextColor(rowColor))
		u.table.SetCell(row, 2, tview.NewTableCell(truncate(r.Petitioner, 28)).SetTextColor(rowColor))
		u.table.SetCell(row, 3, tview.NewTableCell(truncate(r.Respondent, 28)).SetTextColor(rowColor))
		u.table.SetCell(row, 4, tview.NewTableCell(hearing).SetTextColor(rowColor))
		u.table.SetCell(row, 5, tview.NewTableCell(truncate(r.Purpose, 20)).SetTextColor(rowColor))
		u.table.SetCell(row, 6, tview.NewTableCell(strings.Join(flags, "")).SetTextColor(u.theme.Warning))
	}

	title := fmt.Sprintf(" Cases — %s (%d) ", tabLabels[u.activeTab], len(u.visible))
	if u.offline {
		title += "[offline] "
	}
	u.table.SetTitle(title)
}

// showCaseDetail renders the right-hand detail pane for one record,
// overlaying any unsaved pending edits.
func (u *UI) showCaseDetail(r caselist.Record) {
	r = u.withPendingEdits(r)

	side := r.UserSide
	if side == "" {
		side = "unassigned"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]%s[-]\n\n", u.theme.TagAccent, r.CaseNumber)
	fmt.Fprintf(&b, "[%s]CINO:[-] %s\n", u.theme.TagMuted, r.CINO)
	fmt.Fprintf(&b, "[%s]Petitioner:[-] %s\n", u.theme.TagMuted, r.Petitioner)
	fmt.Fprintf(&b, "[%s]Respondent:[-] %s\n", u.theme.TagMuted, r.Respondent)
	fmt.Fprintf(&b, "[%s]Establishment:[-] %s\n", u.theme.TagMuted, r.Establishment)
	fmt.Fprintf(&b, "[%s]Court:[-] %s\n", u.theme.TagMuted, r.Court)
	fmt.Fprintf(&b, "[%s]Type:[-] %s\n", u.theme.TagMuted, r.CaseType)
	fmt.Fprintf(&b, "[%s]Purpose:[-] %s\n", u.theme.TagMuted, r.Purpose)
	fmt.Fprintf(&b, "[%s]Side:[-] %s\n", u.theme.TagMuted, side)
	fmt.Fprintf(&b, "[%s]Next hearing:[-] %s\n", u.theme.TagMuted, orDash(caselist.FormatDate(r.NextHearingDate)))
	fmt.Fprintf(&b, "[%s]Decision date:[-] %s\n", u.theme.TagMuted, orDash(caselist.FormatDate(r.DecisionDate)))
	if r.Modified {
		fmt.Fprintf(&b, "\n[%s]Changed since last review[-]\n", u.theme.TagWarning)
		if r.ChangeSummary != "" {
			fmt.Fprintf(&b, "[%s]%s[-]\n", u.theme.TagMuted, r.ChangeSummary)
		}
	}
	if strings.TrimSpace(r.Notes) != "" {
		fmt.Fprintf(&b, "\n[%s]Notes:[-]\n%s\n", u.theme.TagAccent, r.Notes)
	}
	if _, ok := u.pending[r.CINO]; ok {
		fmt.Fprintf(&b, "\n[%s]Unsaved edits[-]\n", u.theme.TagWarning)
	}
	u.detail.SetText(b.String())
}

// updateStatus refreshes the status bar with selection info and key hints.
func (u *UI) updateStatus(message string) {
	mut := u.theme.TagMuted
	acc := u.theme.TagAccent
	sep := fmt.Sprintf(" [%s]|[-] ", mut)

	statusText := fmt.Sprintf("[%s]%s[-]%s%s", mut, time.Now().Format("15:04:05"), sep, message)
	if u.sel.Len() > 0 {
		statusText = fmt.Sprintf("%s%s[%s]%d[-] selected", statusText, sep, acc, u.sel.Len())
	}
	statusText = fmt.Sprintf("%s%s[%s]space[-]-select [%s]a[-]-all [%s]f[-]-filter [%s]m[-]-review [%s]n[-]-notes [%s]c[-]-calendar [%s]q[-]-quit",
		statusText, sep, acc, acc, acc, acc, acc, acc, acc)
	u.statusBar.SetText(statusText)
}

// selectAllLabel is what a select-all control should currently read.
func (u *UI) selectAllLabel() string {
	if u.sel.AllSelected(u.visible) {
		return "Deselect All"
	}
	return "Select All"
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// beginOperation marks a bulk/calendar operation as in flight. It returns
// false when another operation is still running.
func (u *UI) beginOperation() bool {
	return atomic.CompareAndSwapInt32(&u.busy, 0, 1)
}

func (u *UI) endOperation() {
	atomic.StoreInt32(&u.busy, 0)
}
