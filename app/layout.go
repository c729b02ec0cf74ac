package app

// Layout holds computed dimensions for the current frame.
type Layout struct {
	TermWidth  int
	TermHeight int

	HeaderHeight int
	StatusHeight int
	HelpHeight   int

	ListWidth  int // terminal width minus the scrollbar column
	ListHeight int
}

// minListHeight keeps the feed usable on very short terminals.
const minListHeight = 3

// ComputeLayout splits the terminal into header, feed, status and help
// lines. The feed gets whatever is left, but never less than minListHeight.
func ComputeLayout(termW, termH int, showHelp bool) Layout {
	l := Layout{
		TermWidth:    termW,
		TermHeight:   termH,
		HeaderHeight: 1,
		StatusHeight: 1,
	}
	if showHelp {
		l.HelpHeight = 1
	}
	l.ListWidth = max(termW-1, 1)
	l.ListHeight = max(termH-l.HeaderHeight-l.StatusHeight-l.HelpHeight, minListHeight)
	return l
}
