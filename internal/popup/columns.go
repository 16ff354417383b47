package popup

import "strings"

// maxColumns caps how many auxiliary columns one row may carry; extra
// tab-separated fields in an encoded entry are dropped.
const maxColumns = 3

// columnRow holds the arena handles for one row's column strings. Unused
// slots stay nil.
type columnRow struct {
	text [maxColumns][]byte
}

// Columns decodes encoded entries into a display string plus auxiliary
// column strings, and tracks the widest rendered width seen per column for
// alignment. An encoded entry is a NUL-separated record of match text,
// display text, and an optional tail of tab-separated column fields.
type Columns struct {
	store   *Store
	rows    []columnRow
	longest [maxColumns]int
}

func newColumns(store *Store) Columns {
	return Columns{store: store}
}

// AddEntry decodes one encoded entry, copies its normalized column strings
// into the arena, and returns the display text.
func (c *Columns) AddEntry(encoded string) string {
	rest := encoded

	// Match text is only used by the caller's completion machinery.
	if i := strings.IndexByte(rest, 0); i >= 0 {
		rest = rest[i+1:]
	} else {
		rest = ""
	}

	display := rest
	if i := strings.IndexByte(rest, 0); i >= 0 {
		display = rest[:i]
		rest = rest[i+1:]
	} else {
		rest = ""
	}

	var row columnRow
	if rest != "" {
		if i := strings.IndexByte(rest, 0); i >= 0 {
			rest = rest[:i]
		}
		for col := 0; col < maxColumns; col++ {
			field := rest
			tab := strings.IndexByte(rest, '\t')
			if tab >= 0 {
				field = rest[:tab]
			}
			text, cells := makeColumn(field)
			row.text[col] = c.store.Add(text)
			if cells > c.longest[col] {
				c.longest[col] = cells
			}
			if tab < 0 {
				break
			}
			rest = rest[tab+1:]
		}
	}

	c.rows = append(c.rows, row)
	return display
}

// ColText returns the column string for one row, or nil when absent.
func (c *Columns) ColText(row, col int) []byte {
	if row < 0 || row >= len(c.rows) {
		return nil
	}
	return c.rows[row].text[col]
}

// ColWidth returns the widest cell width seen for a column index.
func (c *Columns) ColWidth(col int) int {
	return c.longest[col]
}

// Clear drops all rows and resets the per-column width tracking. The arena
// backing the strings is cleared separately by its owner.
func (c *Columns) Clear() {
	c.rows = nil
	c.longest = [maxColumns]int{}
}

// EncodeEntry builds an encoded entry in the record format AddEntry decodes:
// match text, display text, then tab-separated column fields.
func EncodeEntry(match, display string, columns ...string) string {
	return match + "\x00" + display + "\x00" + strings.Join(columns, "\t")
}

// EntryDisplay extracts the display text from an encoded entry. Plain
// entries come back unchanged.
func EntryDisplay(encoded string) string {
	parts := strings.SplitN(encoded, "\x00", 3)
	if len(parts) >= 2 {
		return parts[1]
	}
	return encoded
}
