package notify

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const confirmPageName = "confirm-dialog"

// confirmState tracks the single active confirm dialog. Every resolution
// path (confirm, cancel, close control, Escape, backdrop click) funnels
// through resolveConfirm so captures are cleaned up exactly once.
type confirmState struct {
	result    chan bool
	resolved  bool
	box       *tview.Flex
	prevFocus tview.Primitive
	prevMouse func(*tcell.EventMouse, tview.MouseAction) (*tcell.EventMouse, tview.MouseAction)
}

// Confirm shows a modal yes/no dialog and returns a channel that yields the
// outcome. Only the explicit confirm action yields true; cancelling,
// closing, pressing Escape or clicking outside the dialog all yield false.
// The caller's logical flow suspends on the channel; the UI thread never
// blocks. Opening a second dialog while one is active resolves the first
// with false so its waiter and captures are not leaked.
func (c *Center) Confirm(message string, severity Kind, title string) <-chan bool {
	c.mu.Lock()
	if c.confirm != nil {
		c.resolveConfirmLocked(false)
	}

	if title == "" {
		title = "Confirm"
	}

	state := &confirmState{
		result:    make(chan bool, 1),
		prevFocus: c.app.GetFocus(),
		prevMouse: c.app.GetMouseCapture(),
	}

	text := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetTextAlign(tview.AlignCenter).
		SetText(message)

	form := tview.NewForm().
		SetButtonsAlign(tview.AlignCenter).
		AddButton("Confirm", func() { c.resolveConfirm(state, true) }).
		AddButton("Cancel", func() { c.resolveConfirm(state, false) }).
		AddButton("✕", func() { c.resolveConfirm(state, false) })

	box := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(text, 0, 1, false).
		AddItem(form, 3, 0, true)
	box.SetBorder(true)
	box.SetTitle(" " + title + " ")
	box.SetBorderColor(kindColor(severity))
	box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			c.resolveConfirm(state, false)
			return nil
		}
		return event
	})
	state.box = box

	lines := 4 + countLines(message)
	overlay := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(box, lines+4, 0, true).
			AddItem(nil, 0, 1, false), 60, 0, true).
		AddItem(nil, 0, 1, false)

	c.confirm = state
	c.pages.AddPage(confirmPageName, overlay, true, true)

	// A click outside the dialog box counts as a cancel.
	c.app.SetMouseCapture(func(event *tcell.EventMouse, action tview.MouseAction) (*tcell.EventMouse, tview.MouseAction) {
		if action == tview.MouseLeftClick {
			x, y := event.Position()
			if !state.box.InRect(x, y) {
				c.resolveConfirm(state, false)
				return nil, 0
			}
		}
		return event, action
	})
	c.app.SetFocus(form)
	c.mu.Unlock()

	c.draw()
	return state.result
}

// resolveConfirm resolves the dialog once; later calls for the same state
// are no-ops.
func (c *Center) resolveConfirm(state *confirmState, value bool) {
	c.mu.Lock()
	if c.confirm != state || state.resolved {
		c.mu.Unlock()
		return
	}
	state.resolved = true
	state.result <- value
	c.teardownConfirmLocked(state)
	c.confirm = nil
	c.mu.Unlock()
	c.draw()
}

// resolveConfirmLocked resolves the currently active dialog. Caller holds mu.
func (c *Center) resolveConfirmLocked(value bool) {
	state := c.confirm
	if state == nil || state.resolved {
		return
	}
	state.resolved = true
	state.result <- value
	c.teardownConfirmLocked(state)
	c.confirm = nil
}

// teardownConfirmLocked removes the modal and restores the captures that
// were in place before the dialog opened. Caller holds mu.
func (c *Center) teardownConfirmLocked(state *confirmState) {
	c.pages.RemovePage(confirmPageName)
	c.app.SetMouseCapture(state.prevMouse)
	if state.prevFocus != nil {
		c.app.SetFocus(state.prevFocus)
	}
}

func countLines(s string) int {
	n := 1
	for _, r := range s {
		if r == '\n' {
			n++
		}
	}
	return n
}
