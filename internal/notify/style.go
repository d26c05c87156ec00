package notify

import "github.com/gdamore/tcell/v2"

// kindColor maps a notification kind to its border color.
func kindColor(kind Kind) tcell.Color {
	switch kind {
	case KindSuccess:
		return tcell.GetColor("#22c55e")
	case KindError:
		return tcell.GetColor("#ef4444")
	case KindWarning:
		return tcell.GetColor("#f59e0b")
	case KindPrimary:
		return tcell.GetColor("#2dd4bf")
	default:
		return tcell.GetColor("#4aa8ff")
	}
}

// kindTag maps a notification kind to a tview color tag.
func kindTag(kind Kind) string {
	switch kind {
	case KindSuccess:
		return "#22c55e"
	case KindError:
		return "#ef4444"
	case KindWarning:
		return "#f59e0b"
	case KindPrimary:
		return "#2dd4bf"
	default:
		return "#4aa8ff"
	}
}
