package accounting

import "time"

// Window bounds a report period. Nil bounds are open; both are inclusive.
type Window struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

type windowPosition int

const (
	beforeWindow windowPosition = iota
	insideWindow
	afterWindow
)

// NewWindow builds a window from optional bounds.
func NewWindow(start, end *time.Time) Window {
	return Window{Start: start, End: end}
}

// AllTime is the unbounded window.
func AllTime() Window {
	return Window{}
}

// UpTo returns a window closing at end with no start.
func UpTo(end time.Time) Window {
	return Window{End: &end}
}

func (w Window) position(t time.Time) windowPosition {
	if w.Start != nil && t.Before(*w.Start) {
		return beforeWindow
	}
	if w.End != nil && t.After(*w.End) {
		return afterWindow
	}
	return insideWindow
}

// OpenEnded reports whether the window runs up to the present.
func (w Window) OpenEnded() bool {
	return w.End == nil
}
