package popup

import "testing"

func TestColumnsRoundTrip(t *testing.T) {
	var store Store
	c := newColumns(&store)

	display := c.AddEntry("match\x00Display Text\x00size\tmodified")
	if display != "Display Text" {
		t.Fatalf("display = %q", display)
	}
	if got := string(c.ColText(0, 0)); got != "size" {
		t.Fatalf("col 0 = %q", got)
	}
	if got := string(c.ColText(0, 1)); got != "modified" {
		t.Fatalf("col 1 = %q", got)
	}
	if c.ColText(0, 2) != nil {
		t.Fatal("col 2 should be empty")
	}
	if c.ColWidth(0) != 4 || c.ColWidth(1) != 8 {
		t.Fatalf("widths = %d, %d", c.ColWidth(0), c.ColWidth(1))
	}
}

func TestColumnsNoColumnTail(t *testing.T) {
	var store Store
	c := newColumns(&store)

	display := c.AddEntry("match\x00just display")
	if display != "just display" {
		t.Fatalf("display = %q", display)
	}
	for col := 0; col < maxColumns; col++ {
		if c.ColText(0, col) != nil {
			t.Fatalf("col %d unexpectedly set", col)
		}
	}
}

func TestColumnsExtraFieldsDropped(t *testing.T) {
	var store Store
	c := newColumns(&store)

	c.AddEntry("m\x00d\x00a\tb\tc\td\te")
	if got := string(c.ColText(0, 2)); got != "c" {
		t.Fatalf("col 2 = %q", got)
	}
}

func TestColumnsTailTrimmedAtNul(t *testing.T) {
	var store Store
	c := newColumns(&store)

	c.AddEntry("m\x00d\x00col\x00garbage")
	if got := string(c.ColText(0, 0)); got != "col" {
		t.Fatalf("col 0 = %q", got)
	}
}

func TestColumnsWidthTracksWidest(t *testing.T) {
	var store Store
	c := newColumns(&store)

	c.AddEntry("m\x00d\x00ab")
	c.AddEntry("m\x00d\x00abcdef")
	c.AddEntry("m\x00d\x00abc")
	if c.ColWidth(0) != 6 {
		t.Fatalf("width = %d", c.ColWidth(0))
	}
}

func TestEncodeEntryRoundTrip(t *testing.T) {
	encoded := EncodeEntry("file.go", "file.go", "1.2K", "2026-01-02")
	if got := EntryDisplay(encoded); got != "file.go" {
		t.Fatalf("display = %q", got)
	}

	var store Store
	c := newColumns(&store)
	if display := c.AddEntry(encoded); display != "file.go" {
		t.Fatalf("decoded display = %q", display)
	}
	if got := string(c.ColText(0, 0)); got != "1.2K" {
		t.Fatalf("col 0 = %q", got)
	}

	if got := EntryDisplay("plain line"); got != "plain line" {
		t.Fatalf("plain display = %q", got)
	}
}
