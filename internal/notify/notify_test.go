package notify

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCenter builds a center whose draw hook is a no-op so tests run
// without a terminal.
func newTestCenter() *Center {
	app := tview.NewApplication()
	pages := tview.NewPages()
	c := NewCenter(app, pages, nil)
	c.SetDrawHook(func() {})
	return c
}

func TestSetDrawHook(t *testing.T) {
	c := newTestCenter()

	var draws int
	c.SetDrawHook(func() { draws++ })
	c.Notify("saved", KindSuccess, WithDuration(0))
	assert.Greater(t, draws, 0, "hook fires on visual changes")

	// A nil hook is ignored, not installed.
	c.SetDrawHook(nil)
	c.Notify("still fine", KindInfo, WithDuration(0))
	assert.Equal(t, 2, c.Visible())
}

func TestNotifyAndDismiss(t *testing.T) {
	c := newTestCenter()

	h := c.Notify("saved", KindSuccess, WithDuration(0))
	assert.Equal(t, 1, c.Visible())

	h.Dismiss()
	assert.Equal(t, 0, c.Visible())

	// Dismissing an already removed handle is a no-op.
	h.Dismiss()
	assert.Equal(t, 0, c.Visible())
}

func TestNotifyAutoDismiss(t *testing.T) {
	c := newTestCenter()

	c.Notify("short lived", KindInfo, WithDuration(20*time.Millisecond))
	assert.Equal(t, 1, c.Visible())

	assert.Eventually(t, func() bool { return c.Visible() == 0 },
		time.Second, 10*time.Millisecond)
}

func TestMaxVisibleEvictsOldestFirst(t *testing.T) {
	c := newTestCenter()

	var handles []*Handle
	for i := 0; i < 6; i++ {
		handles = append(handles, c.Notify("msg", KindInfo, WithDuration(0)))
	}
	assert.Equal(t, DefaultMaxVisible, c.Visible())

	// The first notification was evicted; its handle is now inert.
	handles[0].Dismiss()
	assert.Equal(t, 5, c.Visible())

	// The second is still live.
	handles[1].Dismiss()
	assert.Equal(t, 4, c.Visible())
}

func TestSetMaxVisible(t *testing.T) {
	c := newTestCenter()
	c.SetMaxVisible(2)

	c.Notify("a", KindInfo, WithDuration(0))
	c.Notify("b", KindInfo, WithDuration(0))
	c.Notify("c", KindInfo, WithDuration(0))
	assert.Equal(t, 2, c.Visible())

	// Values below 1 are ignored.
	c.SetMaxVisible(0)
	c.Notify("d", KindInfo, WithDuration(0))
	assert.Equal(t, 2, c.Visible())
}

func TestNotifyLoadingNeverAutoDismisses(t *testing.T) {
	c := newTestCenter()

	h := c.NotifyLoading("fetching cases")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, c.Visible(), "loading notification stays until dismissed")

	h.Dismiss()
	assert.Equal(t, 0, c.Visible())
	h.Dismiss()
}

func TestClear(t *testing.T) {
	c := newTestCenter()
	c.Notify("a", KindInfo, WithDuration(0))
	h := c.NotifyLoading("b")

	c.Clear()
	assert.Equal(t, 0, c.Visible())
	h.Dismiss()
}

func TestConfirmResolvesTrueOnConfirm(t *testing.T) {
	c := newTestCenter()

	ch := c.Confirm("mark 3 cases as reviewed?", KindWarning, "")
	require.NotNil(t, c.confirm)

	c.resolveConfirm(c.confirm, true)

	select {
	case v := <-ch:
		assert.True(t, v)
	default:
		t.Fatal("confirm channel should have a value")
	}
	assert.Nil(t, c.confirm, "dialog state torn down after resolution")
}

func TestConfirmResolvesFalseOnCancel(t *testing.T) {
	c := newTestCenter()

	ch := c.Confirm("delete events?", KindError, "Delete")
	c.resolveConfirm(c.confirm, false)
	assert.False(t, <-ch)
}

func TestConfirmResolvesFalseOnEscape(t *testing.T) {
	c := newTestCenter()

	ch := c.Confirm("proceed?", KindWarning, "")
	state := c.confirm
	require.NotNil(t, state)

	capture := state.box.GetInputCapture()
	require.NotNil(t, capture)
	ev := capture(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	assert.Nil(t, ev, "escape is consumed by the dialog")
	assert.False(t, <-ch)
}

func TestConfirmResolvesFalseOnBackdropClick(t *testing.T) {
	c := newTestCenter()

	ch := c.Confirm("proceed?", KindWarning, "")
	capture := c.app.GetMouseCapture()
	require.NotNil(t, capture)

	// A left click far outside the dialog box cancels it.
	ev := tcell.NewEventMouse(500, 500, tcell.Button1, tcell.ModNone)
	out, _ := capture(ev, tview.MouseLeftClick)
	assert.Nil(t, out, "backdrop click is consumed")
	assert.False(t, <-ch)
}

func TestConfirmResolvesExactlyOnce(t *testing.T) {
	c := newTestCenter()

	ch := c.Confirm("proceed?", KindWarning, "")
	state := c.confirm

	c.resolveConfirm(state, true)
	// Later resolution attempts for the same dialog are no-ops.
	c.resolveConfirm(state, false)
	c.resolveConfirm(state, false)

	assert.True(t, <-ch)
	assert.Empty(t, ch, "channel must carry exactly one value")
}

func TestSecondConfirmResolvesFirstFalse(t *testing.T) {
	c := newTestCenter()

	first := c.Confirm("first?", KindWarning, "")
	second := c.Confirm("second?", KindWarning, "")

	// Opening the second dialog resolved the first with false.
	select {
	case v := <-first:
		assert.False(t, v)
	default:
		t.Fatal("first dialog should have been resolved")
	}

	c.resolveConfirm(c.confirm, true)
	assert.True(t, <-second)
}

func TestConfirmRestoresMouseCapture(t *testing.T) {
	c := newTestCenter()

	prev := func(event *tcell.EventMouse, action tview.MouseAction) (*tcell.EventMouse, tview.MouseAction) {
		return event, action
	}
	c.app.SetMouseCapture(prev)

	ch := c.Confirm("proceed?", KindWarning, "")
	c.resolveConfirm(c.confirm, false)
	<-ch

	assert.NotNil(t, c.app.GetMouseCapture(), "previous capture restored")
}
