// Package notify renders transient notifications and confirmation dialogs
// inside the TUI, replacing anything a native blocking dialog would do. All
// operations here are pure UI state: they cannot fail and never touch the
// network.
package notify

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rivo/tview"
)

// Kind selects the visual style of a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
	KindPrimary Kind = "primary"
)

// DefaultDuration is the auto-dismiss timeout when the caller does not give one.
const DefaultDuration = 5000 * time.Millisecond

// DefaultMaxVisible caps concurrent notifications; the oldest is evicted
// first when the cap is exceeded.
const DefaultMaxVisible = 5

var spinnerFrames = []string{"|", "/", "-", "\\"}

// Center owns the toast stack and the (at most one) active confirm dialog.
type Center struct {
	app    *tview.Application
	pages  *tview.Pages
	stack  *tview.Flex
	logger *log.Logger

	mu         sync.Mutex
	toasts     []*toast
	maxVisible int

	confirm *confirmState

	// draw requests a repaint; indirected so tests can run without a screen.
	draw func()
}

type toast struct {
	id        string
	kind      Kind
	title     string
	message   string
	duration  time.Duration
	startedAt time.Time
	loading   bool

	view  *tview.TextView
	timer *time.Timer
	stop  chan struct{} // closes the countdown/spinner goroutine
}

// Handle refers to one displayed notification. Dismissing an already
// removed handle is a no-op.
type Handle struct {
	center *Center
	id     string
}

// Dismiss removes the notification if it is still visible.
func (h *Handle) Dismiss() {
	if h == nil || h.center == nil {
		return
	}
	h.center.dismiss(h.id)
}

// NewCenter creates a notification center rendering into the given pages
// (for confirm modals) and stack flex (for toasts).
func NewCenter(app *tview.Application, pages *tview.Pages, logger *log.Logger) *Center {
	if logger == nil {
		logger = log.New(log.Writer(), "[notify] ", log.LstdFlags)
	}
	c := &Center{
		app:        app,
		pages:      pages,
		logger:     logger,
		maxVisible: DefaultMaxVisible,
		stack:      tview.NewFlex().SetDirection(tview.FlexRow),
	}
	c.draw = func() {
		if app != nil {
			app.Draw()
		}
	}
	return c
}

// SetDrawHook replaces the repaint callback invoked after every visual
// change. A no-op hook lets the center run without a terminal event loop,
// since tview's Draw blocks until a running application processes it.
// Nil hooks are ignored.
func (c *Center) SetDrawHook(fn func()) {
	if fn == nil {
		return
	}
	c.draw = fn
}

// SetMaxVisible overrides the concurrent notification cap. Values below 1
// are ignored.
func (c *Center) SetMaxVisible(n int) {
	if n < 1 {
		return
	}
	c.mu.Lock()
	c.maxVisible = n
	c.mu.Unlock()
}

// Stack returns the toast column for embedding into a layout.
func (c *Center) Stack() tview.Primitive { return c.stack }

// Visible returns the number of notifications currently shown.
func (c *Center) Visible() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.toasts)
}

// Option tweaks a single notification.
type Option func(*toast)

// WithTitle sets an explicit title instead of the kind's default.
func WithTitle(title string) Option {
	return func(t *toast) { t.title = title }
}

// WithDuration overrides the auto-dismiss timeout. Zero or negative keeps
// the notification visible until dismissed or cleared.
func WithDuration(d time.Duration) Option {
	return func(t *toast) { t.duration = d }
}

// Notify shows a dismissible notification panel. It auto-dismisses after
// its duration (default 5s) with a visible countdown, unless the duration
// is zero or negative.
func (c *Center) Notify(message string, kind Kind, opts ...Option) *Handle {
	t := &toast{
		id:        uuid.New().String(),
		kind:      kind,
		title:     defaultTitle(kind),
		message:   message,
		duration:  DefaultDuration,
		startedAt: time.Now(),
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	c.insert(t)
	return &Handle{center: c, id: t.id}
}

// NotifyLoading shows a non-closable notification with a spinner. It never
// auto-dismisses; the caller must dismiss it through the handle once the
// asynchronous operation finishes, success or failure.
func (c *Center) NotifyLoading(message string, opts ...Option) *Handle {
	t := &toast{
		id:        uuid.New().String(),
		kind:      KindPrimary,
		title:     "Working",
		message:   message,
		duration:  0,
		startedAt: time.Now(),
		loading:   true,
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	c.insert(t)
	return &Handle{center: c, id: t.id}
}

// Clear dismisses every visible notification.
func (c *Center) Clear() {
	c.mu.Lock()
	evicted := c.toasts
	c.toasts = nil
	c.rebuildLocked()
	c.mu.Unlock()
	for _, t := range evicted {
		t.release()
	}
	c.draw()
}

func (c *Center) insert(t *toast) {
	t.view = tview.NewTextView().SetDynamicColors(true).SetWrap(true)
	t.view.SetBorder(true)
	t.view.SetTitle(" " + t.title + " ")
	t.view.SetBorderColor(kindColor(t.kind))
	t.renderText()

	var evicted []*toast
	c.mu.Lock()
	c.toasts = append(c.toasts, t)
	// FIFO eviction: exceeding the cap removes the oldest still-visible
	// notification, not the most recent.
	for len(c.toasts) > c.maxVisible {
		evicted = append(evicted, c.toasts[0])
		c.toasts = c.toasts[1:]
	}
	c.rebuildLocked()
	c.mu.Unlock()

	for _, e := range evicted {
		e.release()
	}

	if t.duration > 0 {
		t.timer = time.AfterFunc(t.duration, func() { c.dismiss(t.id) })
		go c.runCountdown(t)
	} else if t.loading {
		go c.runSpinner(t)
	}
	c.draw()
}

// dismiss removes the notification with the given id. Unknown ids are a
// no-op so handles stay safe to dismiss twice.
func (c *Center) dismiss(id string) {
	c.mu.Lock()
	var removed *toast
	for i, t := range c.toasts {
		if t.id == id {
			removed = t
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
			break
		}
	}
	if removed != nil {
		c.rebuildLocked()
	}
	c.mu.Unlock()

	if removed == nil {
		return
	}
	removed.release()
	c.draw()
}

// rebuildLocked re-adds the visible toasts to the stack flex. Caller holds mu.
func (c *Center) rebuildLocked() {
	c.stack.Clear()
	for _, t := range c.toasts {
		lines := 3 + strings.Count(t.message, "\n")
		c.stack.AddItem(t.view, lines+2, 0, false)
	}
}

// runCountdown refreshes the remaining-time indicator until the toast goes away.
func (c *Center) runCountdown(t *toast) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.renderText()
			c.draw()
		}
	}
}

// runSpinner animates the loading indicator.
func (c *Center) runSpinner(t *toast) {
	ticker := time.NewTicker(120 * time.Millisecond)
	defer ticker.Stop()
	frame := 0
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			frame++
			t.view.SetTitle(fmt.Sprintf(" %s %s ", spinnerFrames[frame%len(spinnerFrames)], t.title))
			c.draw()
		}
	}
}

// renderText paints the message plus, for timed toasts, a countdown bar
// reflecting the remaining time.
func (t *toast) renderText() {
	if t.duration <= 0 {
		t.view.SetText(t.message)
		return
	}
	remaining := t.duration - time.Since(t.startedAt)
	if remaining < 0 {
		remaining = 0
	}
	const width = 20
	filled := int(float64(width) * float64(remaining) / float64(t.duration))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	t.view.SetText(fmt.Sprintf("%s\n[%s]%s[-] %.1fs", t.message, kindTag(t.kind), bar, remaining.Seconds()))
}

// release stops the toast's timer and background goroutine exactly once.
func (t *toast) release() {
	if t.timer != nil {
		t.timer.Stop()
	}
	select {
	case <-t.stop:
	default:
		close(t.stop)
	}
}

func defaultTitle(kind Kind) string {
	switch kind {
	case KindSuccess:
		return "Success"
	case KindError:
		return "Error"
	case KindWarning:
		return "Warning"
	case KindPrimary:
		return "Notice"
	default:
		return "Info"
	}
}
