package tui

// triggerResultMsg carries the outcome of one processing trigger. Overlapping
// triggers each produce their own message; the one processed last determines
// the final label text.
type triggerResultMsg struct {
	Message string
	Err     error
}
