package popup

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/popline/popline/internal/keys"
	"github.com/popline/popline/internal/logx"
)

// OnEvent is the state machine: it turns one bound input event into a
// navigation, search, or termination action. Returning false ends the
// activation's dispatch loop.
func (s *Session) OnEvent(ev keys.Event) bool {
	if ev.Resize {
		s.screenCols, s.screenRows = ev.Cols, ev.Rows
		if s.active {
			// Geometry is not recomputed mid-activation.
			logx.Debugf("popup: resize to %dx%d cancels activation", ev.Cols, ev.Rows)
			s.cancel(ResultCancel)
			return false
		}
		return true
	}

	if s.visibleRows <= 0 {
		s.cancel(ResultCancel)
		return false
	}

	// Most actions arm the one-shot "next typed character starts a fresh
	// needle" flag; search editing and copy leave the needle alone.
	clearsNeedle := true

	switch ev.ID {
	case actUp:
		s.moveIndex(-1)
		s.updateDisplay()
	case actDown:
		s.moveIndex(1)
		s.updateDisplay()

	case actHome:
		s.index = 0
		s.updateDisplay()
	case actEnd:
		s.index = s.count - 1
		s.updateDisplay()

	case actPgUp:
		if s.pageUp() {
			s.updateDisplay()
		}
	case actPgDn:
		if s.pageDown() {
			s.updateDisplay()
		}

	case actFindNext, actFindPrev:
		clearsNeedle = false
		if !s.winHistory {
			direction := 1
			if ev.ID == actFindPrev {
				direction = -1
			}
			if s.find(direction, false, true) {
				s.updateDisplay()
			}
		}

	case actCopy:
		clearsNeedle = false
		if s.clip != nil {
			// Clipboard failures are not surfaced to the caller.
			if err := s.clip.SetText(s.entries[s.index]); err != nil {
				logx.Warnf("popup: clipboard copy failed: %v", err)
			}
		}

	case actEscape:
		s.cancel(ResultCancel)
		return false
	case actEnter:
		s.cancel(ResultUse)
		return false
	case actInsert:
		s.cancel(ResultSelect)
		return false

	case actBackspace:
		clearsNeedle = false
		s.backspace()

	case actCatchAll:
		clearsNeedle = false
		s.collectInput(ev.Keys)
	}

	if clearsNeedle && !s.winHistory {
		s.inputClearsNeedle = true
	}
	return true
}

// moveIndex moves the selection one row, wrapping or clamping at the edges
// per the host's wraparound setting.
func (s *Session) moveIndex(direction int) {
	s.index += direction
	if s.index < 0 {
		if s.opts.Wraparound {
			s.index = s.count - 1
		} else {
			s.index = 0
		}
	} else if s.index >= s.count {
		if s.opts.Wraparound {
			s.index = 0
		} else {
			s.index = s.count - 1
		}
	}
}

// pageUp and pageDown use a full page (not the more common rows-1) and snap
// to the page edge before jumping, for parity with the conhost F7 popup.
func (s *Session) pageUp() bool {
	y := s.index
	if y <= 0 {
		return false
	}
	rows := min(s.count, s.visibleRows)
	newY := s.top
	if y == s.top {
		newY = max(0, y-rows)
	}
	s.index += newY - y
	return true
}

func (s *Session) pageDown() bool {
	y := s.index
	if y >= s.count-1 {
		return false
	}
	rows := min(s.count, s.visibleRows)
	bottom := s.top + rows - 1
	newY := bottom
	if y == bottom {
		newY = min(s.count-1, y+rows)
	}
	s.index += newY - y
	if s.index > s.count-1 {
		s.setTop(max(0, s.count-s.visibleRows))
		s.index = s.count - 1
	}
	return true
}

// advanceIndex steps i one row in direction, wrapping circularly.
func advanceIndex(i, direction, count int) int {
	i += direction
	if direction < 0 {
		if i < 0 {
			i = count - 1
		}
	} else if i >= count {
		i = 0
	}
	return i
}

// find scans circularly for the needle as a substring of the primary text,
// then of each column. advance starts one past the current index (find
// next/prev); fromBegin restarts from the list edge (backspace re-search);
// with neither, the scan anchors at the current index so incremental typing
// keeps a still-matching selection. The direction flips when the list is
// displayed in reverse order. No match leaves the selection unchanged.
func (s *Session) find(direction int, fromBegin, advance bool) bool {
	if s.reverse {
		direction = -direction
	}
	sc := scope{mode: s.opts.IgnoreCase, fuzzyAccent: s.opts.FuzzyAccent}
	needle := string(s.needle)

	i := s.index
	if fromBegin {
		if s.reverse {
			i = s.count - 1
		} else {
			i = 0
		}
	}
	if advance {
		i = advanceIndex(i, direction, s.count)
	}

	for {
		match := sc.contains(needle, string(s.items[i]))
		if !match && s.hasColumns {
			for col := 0; col < maxColumns && !match; col++ {
				match = sc.contains(needle, string(s.columns.ColText(i, col)))
			}
		}
		if match {
			s.selectFound(i, false)
			return true
		}
		i = advanceIndex(i, direction, s.count)
		if i == s.index {
			return false
		}
	}
}

// selectFound moves the selection to a search hit, pulling the viewport
// along when the hit is off screen (optionally centering it).
func (s *Session) selectFound(i int, center bool) {
	s.index = i
	if s.index < s.top || s.index >= s.top+s.visibleRows {
		target := s.index
		if center {
			target = s.index - s.visibleRows/2
		}
		s.top = max(0, min(target, s.count-s.visibleRows))
	}
	s.prevDisplayed = -1
}

// backspace removes the last character of the needle (multi-byte aware) and
// re-runs the search from the start of the list in free-text mode.
func (s *Session) backspace() {
	if len(s.needle) == 0 {
		return
	}
	_, size := utf8.DecodeLastRune(s.needle)
	s.needle = s.needle[:len(s.needle)-size]
	s.updateNeedle(!s.winHistory)
}

// collectInput appends typed characters to the needle. In free-text mode
// every character extends the search text; in numeric mode digits accumulate
// a history number (at most 6) while any other character restarts the needle
// as a one-character prefix search.
func (s *Session) collectInput(input string) {
	if s.inputClearsNeedle {
		s.needle = s.needle[:0]
		s.needleIsNumber = false
		s.inputClearsNeedle = false
	}

	for _, c := range input {
		switch {
		case !s.winHistory:
			s.overrideTitle = ""
			s.needle = utf8.AppendRune(s.needle, c)
		case c >= '0' && c <= '9':
			if !s.needleIsNumber {
				s.overrideTitle = ""
				s.needle = s.needle[:0]
				s.needleIsNumber = true
			}
			if len(s.needle) < 6 {
				s.needle = append(s.needle, byte(c))
			}
		default:
			s.overrideTitle = ""
			s.needle = utf8.AppendRune(s.needle[:0], c)
			s.needleIsNumber = false
		}
	}

	s.updateNeedle(false)
}

// updateNeedle reacts to an edited needle: incremental search with a
// transient title in free-text mode; a numeric jump or a backward prefix
// search in windowed-history mode.
func (s *Session) updateNeedle(fromBegin bool) {
	switch {
	case !s.winHistory:
		s.overrideTitle = ""
		if len(s.needle) > 0 {
			s.overrideTitle = fmt.Sprintf("find: %-10s", s.needle)
		}
		s.find(1, fromBegin, false)
		s.updateDisplay()

	case s.needleIsNumber:
		if len(s.needle) > 0 {
			s.overrideTitle = fmt.Sprintf("enter history number: %-6s", s.needle)
			s.jumpToHistoryNumber()
			s.updateDisplay()
		} else if s.overrideTitle != "" {
			s.overrideTitle = ""
			s.updateDisplay()
		}

	case len(s.needle) > 0:
		if s.findPrefixBackward() {
			s.updateDisplay()
		}
	}
}

// jumpToHistoryNumber looks the accumulated digits up against each row's
// history sequence number by decimal prefix, so typing "4" can land on 4,
// 40, or 42 progressively. An unmatched number leaves the index unchanged.
func (s *Session) jumpToHistoryNumber() {
	n, err := strconv.Atoi(string(s.needle))
	if err != nil {
		return
	}

	i := -1
	if s.infos != nil {
		needleStr := strconv.Itoa(n)
		for k := 0; k < s.count; k++ {
			if strings.HasPrefix(strconv.Itoa(s.infos[k].Index+1), needleStr) {
				i = k
				break
			}
		}
	} else {
		i = n - 1
	}

	if i >= 0 && i < s.count {
		s.selectFound(i, true)
	}
}

// findPrefixBackward is the windowed-history fallback for non-digit input:
// a backward, case-insensitive, accent-fuzzy prefix scan over primary text
// only, starting just before the current index.
func (s *Session) findPrefixBackward() bool {
	sc := scope{mode: CaseIgnore, fuzzyAccent: true}
	needle := string(s.needle)

	i := s.index
	for {
		i--
		if i < 0 {
			i = s.count - 1
		}
		if i == s.index {
			return false
		}
		if sc.hasPrefix(needle, string(s.items[i])) {
			s.selectFound(i, false)
			return true
		}
	}
}
