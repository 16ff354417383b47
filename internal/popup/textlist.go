// Package popup implements a modal, scrollable, searchable selection list
// anchored just below the cursor line. A Session is activated with a set of
// caller-owned entries and synchronously returns a single outcome once the
// user accepts, alternate-accepts, or cancels. Rendering never permanently
// moves the terminal cursor; the input line underneath stays intact.
package popup

import (
	"github.com/popline/popline/internal/keys"
	"github.com/popline/popline/internal/logx"
	"github.com/popline/popline/internal/terminal"
)

// Result is the outcome kind of one activation.
type Result int

const (
	// ResultError means the popup could not be shown at all.
	ResultError Result = iota
	// ResultCancel means the user declined, or a resize forced teardown.
	ResultCancel
	// ResultUse means the user accepted the selection with Enter.
	ResultUse
	// ResultSelect means the user chose the alternate accept.
	ResultSelect
)

func (r Result) String() string {
	switch r {
	case ResultCancel:
		return "cancel"
	case ResultUse:
		return "use"
	case ResultSelect:
		return "select"
	default:
		return "error"
	}
}

// Results is what one activation yields. Index and Text are only meaningful
// for ResultUse and ResultSelect; Text is a copy of the chosen entry.
type Results struct {
	Result Result
	Index  int
	Text   string
}

// EntryInfo is optional per-row metadata: the row's history sequence number
// (zero-based; displayed one-based) and whether the line was modified after
// being recalled.
type EntryInfo struct {
	Index  int
	Marked bool
}

// HistoryMode selects how rows are numbered and what typed input means.
type HistoryMode int

const (
	// HistoryOff shows no gutter; typing searches incrementally.
	HistoryOff HistoryMode = iota
	// HistoryPlain shows sequence numbers; typing still searches.
	HistoryPlain
	// HistoryWindowed shows sequence numbers and digits jump directly to
	// the row with that number, like the conhost F7 popup.
	HistoryWindowed
)

// EventSource hands bound input events to a handler one at a time until the
// handler stops the loop. *keys.Dispatcher implements it.
type EventSource interface {
	Dispatch(g *keys.Group, h keys.Handler)
}

// Options carries host configuration for a session.
type Options struct {
	// Wraparound makes up/down navigation wrap at the list edges.
	Wraparound bool
	// IgnoreCase selects the search comparison mode.
	IgnoreCase IgnoreCase
	// FuzzyAccent makes accented and bare characters compare equal.
	FuzzyAccent bool
	// MaxRows caps the popup height; 0 means the mode default
	// (10 rows plain, 20 in history mode).
	MaxRows int
	// PopupColor and DescColor are SGR parameter strings for the box and
	// the auxiliary columns.
	PopupColor string
	DescColor  string
	// Recording reports whether the host is capturing a macro; activation
	// refuses to start while it returns true.
	Recording func() bool
}

// Bound action identifiers.
const (
	actUp = iota
	actDown
	actPgUp
	actPgDn
	actHome
	actEnd
	actFindNext
	actFindPrev
	actCopy
	actBackspace
	actEscape
	actEnter
	actInsert
	actCatchAll
)

// defaultBindings is the popup's key table. The catch-all receives printable
// input for incremental search and numeric history jumps.
func defaultBindings() *keys.Group {
	g := keys.NewGroup()
	g.Bind("\x1b[A", actUp)
	g.Bind("\x1bOA", actUp)
	g.Bind("\x1b[B", actDown)
	g.Bind("\x1bOB", actDown)
	g.Bind("\x1b[5~", actPgUp)
	g.Bind("\x1b[6~", actPgDn)
	g.Bind("\x1b[H", actHome)
	g.Bind("\x1b[1~", actHome)
	g.Bind("\x1b[F", actEnd)
	g.Bind("\x1b[4~", actEnd)
	g.Bind("\x1bOR", actFindNext)        // F3
	g.Bind("\x1b[1;2R", actFindPrev)     // Shift+F3
	g.Bind("\x0c", actFindNext)          // Ctrl+L
	g.Bind("\x1b[27;6;76~", actFindPrev) // Ctrl+Shift+L
	g.Bind("\x03", actCopy)              // Ctrl+C
	g.Bind("\x08", actBackspace)
	g.Bind("\x7f", actBackspace)
	g.Bind("\r", actEnter)
	g.Bind("\n", actEnter)
	g.Bind("\x1b[27;2;13~", actInsert) // Shift+Enter
	g.Bind("\x1b[27;5;13~", actInsert) // Ctrl+Enter
	g.Bind("\x07", actEscape)          // Ctrl+G
	g.Bind("\x1b", actEscape)
	g.BindCatchAll(actCatchAll)
	return g
}

// Session owns all state for popup activations. Exactly one activation may
// be open at a time; a re-entrant Activate fails with ResultError.
type Session struct {
	term   terminal.Terminal
	events EventSource
	clip   Clipboard
	opts   Options
	group  *keys.Group

	screenCols int
	screenRows int

	active           bool
	visibleRows      int
	defaultTitle     string
	overrideTitle    string
	hasOverrideTitle bool

	// Borrowed caller arrays plus the arena-owned render items.
	entries     []string
	infos       []EntryInfo
	count       int
	items       [][]byte
	longest     int
	store       Store
	columns     Columns
	reverse     bool
	historyMode bool
	winHistory  bool
	hasColumns  bool

	top           int
	index         int
	prevDisplayed int

	needle            []byte
	needleIsNumber    bool
	inputClearsNeedle bool

	// Cursor column of the input line, captured at activation; the box is
	// centered under it and the cursor returns to it after every frame.
	anchorCol int

	results Results
}

// NewSession creates a session rendering to term and fed by events.
func NewSession(term terminal.Terminal, events EventSource, clip Clipboard, opts Options) *Session {
	s := &Session{
		term:   term,
		events: events,
		clip:   clip,
		opts:   opts,
		group:  defaultBindings(),
	}
	s.columns = newColumns(&s.store)
	s.prevDisplayed = -1
	return s
}

// Request describes one activation.
type Request struct {
	Title      string
	Entries    []string
	Index      int // negative anchors the view at the last entry
	Reverse    bool
	History    HistoryMode
	Infos      []EntryInfo
	HasColumns bool
}

// Activate shows the popup and blocks until a terminal action. Entries (and
// Infos, when given) are borrowed for the duration of the call; the returned
// Text is a copy the caller may keep.
func (s *Session) Activate(req Request) Results {
	errResult := Results{Result: ResultError, Index: -1}

	if s.active {
		// Re-entrant activation is a caller bug; refuse without touching
		// the live activation's state.
		logx.Errorf("popup: re-entrant activation refused")
		return errResult
	}

	// Defensive reset, guarding against stale state from a prior
	// activation that ended abnormally.
	s.reset()
	s.results = errResult

	if len(req.Entries) == 0 {
		return errResult
	}
	if s.opts.Recording != nil && s.opts.Recording() {
		// A popup cannot be driven while the host records a macro.
		return errResult
	}

	s.screenCols, s.screenRows = s.term.Size()
	s.reverse = req.Reverse
	s.historyMode = req.History != HistoryOff
	s.winHistory = req.History == HistoryWindowed
	s.updateLayout()
	if s.visibleRows <= 0 {
		s.reverse = false
		s.historyMode = false
		s.winHistory = false
		return errResult
	}

	// Gather the items.
	s.entries = req.Entries
	s.infos = req.Infos
	s.count = len(req.Entries)
	for i := 0; i < s.count; i++ {
		text := s.entries[i]
		if req.HasColumns {
			text = s.columns.AddEntry(text)
		}
		rendered, cells := makeItem(text)
		if cells > s.longest {
			s.longest = cells
		}
		s.items = append(s.items, s.store.Add(rendered))
	}
	s.hasColumns = req.HasColumns

	s.defaultTitle = req.Title

	// Initialize the view: bottom-anchored without an index, else centered.
	if req.Index < 0 {
		s.index = s.count - 1
		s.top = max(0, s.count-s.visibleRows)
	} else {
		s.index = req.Index
		s.top = max(0, min(s.index-s.visibleRows/2, s.count-s.visibleRows))
	}

	if col, _, ok := s.term.CursorPos(); ok {
		s.anchorCol = col
	}

	s.term.WriteString("\x1b[?25l")
	s.active = true
	logx.Debugf("popup: activate %q count=%d history=%d columns=%v",
		req.Title, s.count, req.History, req.HasColumns)
	s.updateDisplay()

	s.events.Dispatch(s.group, s)

	// Cancel if the dispatch loop was left without a terminal action.
	if s.active {
		s.cancel(ResultCancel)
	}
	s.updateDisplay() // inactive: clears the box

	s.term.WriteString("\x1b[?25h")

	results := s.results
	s.reset()
	s.results = errResult
	logx.Debugf("popup: result %s index=%d", results.Result, results.Index)
	return results
}

// Show presents a plain list selected at index.
func (s *Session) Show(title string, entries []string, index int, hasColumns bool) Results {
	return s.Activate(Request{
		Title:      title,
		Entries:    entries,
		Index:      index,
		HasColumns: hasColumns,
	})
}

// ShowDirectories presents a reverse-ordered directory list anchored at its
// last entry.
func (s *Session) ShowDirectories(dirs []string) Results {
	return s.Activate(Request{
		Title:   "Directories",
		Entries: dirs,
		Index:   len(dirs) - 1,
		Reverse: true,
	})
}

// ShowHistory presents a reverse-ordered history list with per-row metadata
// and the chosen history-number mode.
func (s *Session) ShowHistory(entries []string, current int, infos []EntryInfo, mode HistoryMode) Results {
	return s.Activate(Request{
		Title:   "History",
		Entries: entries,
		Index:   current,
		Reverse: true,
		History: mode,
		Infos:   infos,
	})
}

// cancel records the outcome and deactivates. For accepting results it
// captures the chosen row and a copy of its entry text.
func (s *Session) cancel(r Result) {
	s.results = Results{Result: r, Index: -1}
	if r == ResultUse || r == ResultSelect {
		if s.index >= 0 && s.index < s.count {
			s.results.Index = s.index
			s.results.Text = s.entries[s.index]
		}
	}
	s.active = false
}

// reset clears all per-activation state. Screen geometry is left alone; it
// stays in sync with the terminal across activations.
func (s *Session) reset() {
	s.visibleRows = 0
	s.defaultTitle = ""
	s.overrideTitle = ""
	s.hasOverrideTitle = false

	s.count = 0
	s.entries = nil // borrowed
	s.infos = nil   // borrowed
	s.items = nil
	s.longest = 0
	s.columns.Clear()
	s.reverse = false
	s.historyMode = false
	s.winHistory = false
	s.hasColumns = false

	s.top = 0
	s.index = 0
	s.prevDisplayed = -1

	s.needle = nil
	s.needleIsNumber = false
	s.inputClearsNeedle = false
	s.anchorCol = 0

	s.store.Clear()
}
