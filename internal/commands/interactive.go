package commands

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/popline/popline/internal/config"
	"github.com/popline/popline/internal/keys"
	"github.com/popline/popline/internal/logx"
	"github.com/popline/popline/internal/popup"
	"github.com/popline/popline/internal/storage"
	"github.com/popline/popline/internal/terminal"
)

const prompt = "> "

// Editor actions.
const (
	edLeft = iota
	edRight
	edHome
	edEnd
	edBackspace
	edDelete
	edEnter
	edClear
	edEOF
	edHistory
	edDirs
	edComplete
	edInsert
)

func editorBindings() *keys.Group {
	g := keys.NewGroup()
	g.Bind("\x1b[D", edLeft)
	g.Bind("\x1bOD", edLeft)
	g.Bind("\x1b[C", edRight)
	g.Bind("\x1bOC", edRight)
	g.Bind("\x1b[H", edHome)
	g.Bind("\x1b[1~", edHome)
	g.Bind("\x01", edHome) // Ctrl+A
	g.Bind("\x1b[F", edEnd)
	g.Bind("\x1b[4~", edEnd)
	g.Bind("\x05", edEnd) // Ctrl+E
	g.Bind("\x08", edBackspace)
	g.Bind("\x7f", edBackspace)
	g.Bind("\x1b[3~", edDelete)
	g.Bind("\r", edEnter)
	g.Bind("\n", edEnter)
	g.Bind("\x03", edClear) // Ctrl+C
	g.Bind("\x04", edEOF)   // Ctrl+D
	g.Bind("\x12", edHistory)
	g.Bind("\x1b[18~", edHistory) // F7
	g.Bind("\x1bd", edDirs)       // Alt+D
	g.Bind("\t", edComplete)
	g.BindCatchAll(edInsert)
	return g
}

// editor is a single-line prompt that hosts the popups. It owns no screen
// real estate beyond its line; popups draw below it and clean up after
// themselves.
type editor struct {
	tty        *terminal.TTY
	dispatcher *keys.Dispatcher
	session    *popup.Session
	cfg        *config.Config

	line []rune
	col  int

	// In-memory history view, oldest first; modified flags rows recalled
	// and then edited so the popup can mark them.
	history  []string
	modified []bool
	recalled int

	eof bool
}

func runInteractive() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	store := storage.NewHistoryStore(dir)

	tty, err := terminal.Open()
	if err != nil {
		return err
	}

	dispatcher := keys.NewDispatcher(tty)
	defer dispatcher.Close()

	ed := &editor{
		tty:        tty,
		dispatcher: dispatcher,
		cfg:        cfg,
		recalled:   -1,
	}
	ed.session = popup.NewSession(tty, dispatcher, popup.SystemClipboard{}, popupOptions(cfg))

	if lines, err := store.List(); err == nil {
		for _, l := range lines {
			ed.history = append(ed.history, l.Text)
		}
	} else {
		logx.Warnf("interactive: history load failed: %v", err)
	}
	ed.modified = make([]bool, len(ed.history))

	fmt.Printf("%spopline %s%s  Ctrl+R history  Alt+D directories  Tab files  Ctrl+D exit\n",
		terminal.Bold, Version, terminal.Reset)

	restore, err := tty.MakeRaw()
	if err != nil {
		return err
	}
	defer restore()

	for {
		text, ok := ed.readLine()
		tty.WriteString("\r\n")
		if !ok {
			return nil
		}
		if text == "" {
			continue
		}
		ed.history = append(ed.history, text)
		ed.modified = append(ed.modified, false)
		if err := store.Append(text); err != nil {
			logx.Warnf("interactive: history append failed: %v", err)
		}
	}
}

// readLine edits one line until Enter or EOF. ok is false on EOF.
func (ed *editor) readLine() (string, bool) {
	ed.line = ed.line[:0]
	ed.col = 0
	ed.recalled = -1
	ed.eof = false
	ed.redraw()

	ed.dispatcher.Dispatch(editorBindings(), ed)

	if ed.eof {
		return "", false
	}
	return string(ed.line), true
}

// OnEvent applies one editor action. Returning false ends the line.
func (ed *editor) OnEvent(ev keys.Event) bool {
	if ev.Resize {
		ed.redraw()
		return true
	}

	switch ev.ID {
	case edLeft:
		if ed.col > 0 {
			ed.col--
		}
	case edRight:
		if ed.col < len(ed.line) {
			ed.col++
		}
	case edHome:
		ed.col = 0
	case edEnd:
		ed.col = len(ed.line)
	case edBackspace:
		if ed.col > 0 {
			ed.line = append(ed.line[:ed.col-1], ed.line[ed.col:]...)
			ed.col--
			ed.markEdited()
		}
	case edDelete:
		if ed.col < len(ed.line) {
			ed.line = append(ed.line[:ed.col], ed.line[ed.col+1:]...)
			ed.markEdited()
		}
	case edEnter:
		return false
	case edClear:
		ed.line = ed.line[:0]
		ed.col = 0
		ed.recalled = -1
	case edEOF:
		if len(ed.line) == 0 {
			ed.eof = true
			return false
		}
	case edHistory:
		ed.historyPopup()
	case edDirs:
		ed.directoryPopup()
	case edComplete:
		ed.filePopup()
	case edInsert:
		ed.insert([]rune(ev.Keys))
	}

	ed.redraw()
	return true
}

func (ed *editor) insert(runes []rune) {
	for _, r := range runes {
		if !unicode.IsPrint(r) {
			continue
		}
		ed.line = append(ed.line[:ed.col], append([]rune{r}, ed.line[ed.col:]...)...)
		ed.col++
	}
	ed.markEdited()
}

// markEdited flags the recalled history entry once the user changes it.
func (ed *editor) markEdited() {
	if ed.recalled >= 0 && ed.recalled < len(ed.modified) {
		ed.modified[ed.recalled] = true
	}
}

func (ed *editor) redraw() {
	ed.tty.WriteString("\r\x1b[K")
	ed.tty.WriteString(terminal.Bold + prompt + terminal.Reset)
	ed.tty.WriteString(string(ed.line))
	col := len(prompt) + runewidth.StringWidth(string(ed.line[:ed.col]))
	ed.tty.WriteString(fmt.Sprintf("\r\x1b[%dG", col+1))
}

func (ed *editor) historyPopup() {
	if len(ed.history) == 0 {
		return
	}
	infos := make([]popup.EntryInfo, len(ed.history))
	for i := range infos {
		infos[i] = popup.EntryInfo{Index: i, Marked: ed.modified[i]}
	}
	mode := popup.HistoryPlain
	if ed.cfg.WinHistory {
		mode = popup.HistoryWindowed
	}

	res := ed.session.ShowHistory(ed.history, len(ed.history)-1, infos, mode)
	switch res.Result {
	case popup.ResultUse:
		ed.line = []rune(res.Text)
		ed.col = len(ed.line)
		ed.recalled = res.Index
	case popup.ResultSelect:
		ed.insert([]rune(res.Text))
	}
}

func (ed *editor) directoryPopup() {
	entries, err := os.ReadDir(".")
	if err != nil {
		logx.Warnf("interactive: read directory failed: %v", err)
		return
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name()+string(os.PathSeparator))
		}
	}
	if len(dirs) == 0 {
		return
	}

	res := ed.session.ShowDirectories(dirs)
	if res.Result == popup.ResultUse || res.Result == popup.ResultSelect {
		ed.insert([]rune(res.Text))
	}
}

// filePopup completes the word under the cursor from the current directory,
// with size and modification time as auxiliary columns.
func (ed *editor) filePopup() {
	word := ed.currentWord()

	entries, err := os.ReadDir(".")
	if err != nil {
		logx.Warnf("interactive: read directory failed: %v", err)
		return
	}
	var encoded []string
	for _, e := range entries {
		name := e.Name()
		if word != "" && !strings.HasPrefix(name, word) {
			continue
		}
		if e.IsDir() {
			name += string(os.PathSeparator)
		}
		size, modified := "", ""
		if info, err := e.Info(); err == nil {
			if !e.IsDir() {
				size = formatSize(info.Size())
			}
			modified = info.ModTime().Format(time.DateTime)
		}
		encoded = append(encoded, popup.EncodeEntry(name, name, size, modified))
	}
	if len(encoded) == 0 {
		return
	}

	res := ed.session.Show("Files", encoded, 0, true)
	if res.Result == popup.ResultUse || res.Result == popup.ResultSelect {
		chosen := popup.EntryDisplay(res.Text)
		ed.line = append(ed.line[:ed.col-len([]rune(word))], ed.line[ed.col:]...)
		ed.col -= len([]rune(word))
		ed.insert([]rune(chosen))
	}
}

// currentWord returns the whitespace-delimited token ending at the cursor.
func (ed *editor) currentWord() string {
	start := ed.col
	for start > 0 && !unicode.IsSpace(ed.line[start-1]) {
		start--
	}
	return string(ed.line[start:ed.col])
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fM", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fK", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}
