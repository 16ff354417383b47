package popup

import (
	"fmt"
	"strconv"
	"strings"
)

// Popups are not shown on screens this narrow.
const minScreenCols = 20

// The content area never shrinks below this many cells.
const minContentCells = 40

const (
	defaultPopupColor = "0;37;44"
	defaultDescColor  = "0;36;44"
)

func (s *Session) popupColor() string {
	if s.opts.PopupColor != "" {
		return s.opts.PopupColor
	}
	return defaultPopupColor
}

func (s *Session) descColor() string {
	if s.opts.DescColor != "" {
		return s.opts.DescColor
	}
	return defaultDescColor
}

// updateLayout computes how many rows the popup may use: the mode's target
// height, capped by the host configuration and by half the screen less the
// border and a little slop. Zero means the popup cannot be shown.
func (s *Session) updateLayout() {
	const slopRows = 2
	const borderRows = 2

	target := 10
	if s.historyMode {
		target = 20
	}
	if s.opts.MaxRows > 0 && target > s.opts.MaxRows {
		target = s.opts.MaxRows
	}

	s.visibleRows = min(target, s.screenRows/2-borderRows-slopRows)

	if s.screenCols <= minScreenCols {
		s.visibleRows = 0
	}
}

// setTop moves the scroll offset and forces a full repaint when it changed.
func (s *Session) setTop(top int) {
	if top != s.top {
		s.top = top
		s.prevDisplayed = -1
	}
}

// updateTop drags the scroll offset the minimum distance needed to keep the
// selection inside the viewport.
func (s *Session) updateTop() {
	y := s.index
	if s.top > y {
		s.setTop(y)
	} else {
		rows := min(s.count, s.visibleRows)
		top := max(0, y-(rows-1))
		if s.top < top {
			s.setTop(top)
		}
	}
}

// updateDisplay draws one frame. The list goes immediately below the cursor
// line and may overlay lines already on screen. Only relative vertical
// movement is used, so a scroll at the bottom screen edge cannot
// desynchronize the cursor restore. When the session is inactive the frame
// clears everything below the input line instead.
func (s *Session) updateDisplay() {
	if s.visibleRows <= 0 {
		return
	}
	w := s.term

	// Raw mode leaves OPOST off, so LF alone does not imply CR; re-home the
	// column explicitly or the frame starts at the anchor column.
	w.WriteString("\r\n")
	up := 1

	if s.active && s.count > 0 {
		s.updateTop()

		// A full border repaint is needed on the first frame, after any
		// scroll, and whenever the transient title appears or goes away.
		drawBorder := s.prevDisplayed < 0 || s.overrideTitle != "" || s.hasOverrideTitle
		s.hasOverrideTitle = s.overrideTitle != ""

		maxNumLen := 0
		if s.historyMode {
			last := s.count
			if s.infos != nil {
				last = s.infos[s.count-1].Index + 1
			}
			maxNumLen = len(strconv.Itoa(last))
		}

		longest := s.longest
		if maxNumLen > 0 {
			longest += maxNumLen + 2 // colon and the modified mark
		}
		if s.hasColumns {
			for col := 0; col < maxColumns; col++ {
				if cw := s.columns.ColWidth(col); cw > 0 {
					longest += 2 + cw
				}
			}
		}
		if longest < minContentCells {
			longest = minContentCells
		}

		effective := s.screenCols
		if s.screenCols >= 40 {
			effective = max(40, s.screenCols-4)
		}
		colWidth := min(longest+2, effective) // +2 for the borders

		// Center under the input cursor column, clamped to the screen.
		x := s.anchorCol - (colWidth+1)/2
		centerX := (s.screenCols - effective) / 2
		if x+colWidth > centerX+effective {
			x = s.screenCols - centerX - colWidth
		}
		if x < centerX {
			x = centerX
		}
		left := ""
		if x > 0 {
			left = fmt.Sprintf("\x1b[%dG", x+1)
		}

		color := "\x1b[" + s.popupColor() + "m"
		descColor := "\x1b[" + s.descColor() + "m"

		if drawBorder {
			w.WriteString(left)
			w.WriteString(color)
			w.WriteString("┌")
			s.drawTopLine(colWidth)
			w.WriteString("┐\x1b[m")
		}

		for row := 0; row < s.visibleRows; row++ {
			i := s.top + row
			if i >= s.count {
				break
			}
			w.WriteString("\r\n")
			up++
			if s.prevDisplayed >= 0 && i != s.index && i != s.prevDisplayed {
				continue // row unchanged since the last frame
			}
			s.drawRow(i, colWidth, maxNumLen, left, color, descColor)
		}

		if drawBorder {
			w.WriteString("\r\n")
			up++
			w.WriteString(left)
			w.WriteString(color)
			w.WriteString("└")
			w.WriteString(strings.Repeat("─", colWidth-2))
			w.WriteString("┘\x1b[m")
		}

		s.prevDisplayed = s.index
	} else {
		w.WriteString("\x1b[m\x1b[J")
		s.prevDisplayed = -1
	}

	// Restore the cursor to exactly where it was before the frame.
	w.WriteString(fmt.Sprintf("\x1b[%dA", up))
	w.WriteString(fmt.Sprintf("\x1b[%dG", s.anchorCol+1))
}

// drawTopLine renders the inside of the top border: a plain rule, or the
// title centered between flanking spaces. Title truncation keeps whole
// characters. An override title gets junction glyphs where it interrupts
// the rule.
func (s *Session) drawTopLine(colWidth int) {
	w := s.term

	title := s.defaultTitle
	if s.hasOverrideTitle {
		title = s.overrideTitle
	}
	if title == "" {
		w.WriteString(strings.Repeat("─", colWidth-2))
		return
	}

	// Budget excludes the corners, the junction bars, and the spaces.
	title, titleCells := limitCells(title, colWidth-6)

	dashes := (colWidth-2-titleCells)/2 - 1
	for i := dashes; i > 0; i-- {
		if i == 1 && s.hasOverrideTitle {
			w.WriteString("┤")
		} else {
			w.WriteString("─")
		}
	}

	w.WriteString(" ")
	w.WriteString(title)
	w.WriteString(" ")

	right := colWidth - 2 - (dashes + 1 + titleCells + 1)
	for i := 0; i < right; i++ {
		if i == 0 && s.hasOverrideTitle {
			w.WriteString("├")
		} else {
			w.WriteString("─")
		}
	}
}

// drawRow renders one row: optional history gutter (number, colon, modified
// mark), the primary text truncated and padded to the content width, then
// each non-empty column two spaces apart padded to its tracked maximum. The
// selected row renders in reverse video.
func (s *Session) drawRow(i, colWidth, maxNumLen int, left, color, descColor string) {
	w := s.term

	w.WriteString(left)
	w.WriteString(color)
	w.WriteString("│")

	selected := i == s.index
	if selected {
		w.WriteString("\x1b[7m")
	}

	space := colWidth - 2

	if s.historyMode {
		histIndex := i
		marked := false
		if s.infos != nil {
			histIndex = s.infos[i].Index
			marked = s.infos[i].Marked
		}
		mark := " "
		if marked {
			if selected {
				mark = "*"
			} else {
				mark = descColor + "*" + color
			}
		}
		w.WriteString(fmt.Sprintf("%*d:", maxNumLen, histIndex+1))
		w.WriteString(mark)
		space -= maxNumLen + 2
	}

	text, cells := limitCells(string(s.items[i]), space)
	w.WriteString(text)
	space -= cells

	if s.hasColumns {
		if !selected {
			w.WriteString(descColor)
		}
		for col := 0; col < maxColumns && space > 0; col++ {
			if s.columns.ColWidth(col) == 0 {
				continue
			}
			text, cells := limitCells("  "+string(s.columns.ColText(i, col)), space)
			w.WriteString(text)
			space -= cells

			pad := min(space, s.columns.ColWidth(col)-(cells-2))
			if pad > 0 {
				writeSpaces(w, pad)
				space -= pad
			}
		}
	}

	writeSpaces(w, space)

	if selected {
		w.WriteString("\x1b[27m")
	}
	if s.hasColumns {
		w.WriteString(color)
	}
	w.WriteString("│\x1b[m")
}
