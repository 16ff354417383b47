package popup

import (
	"strings"
	"testing"
)

func TestStoreAddReturnsStableCopies(t *testing.T) {
	var s Store

	h1 := s.Add("alpha")
	h2 := s.Add("beta")

	if string(h1) != "alpha" || string(h2) != "beta" {
		t.Fatalf("got %q, %q", h1, h2)
	}

	// Handle capacity is pinned, so appending forces a reallocation instead
	// of scribbling over the neighbor.
	h1 = append(h1, 'X')
	if string(h2) != "beta" {
		t.Fatalf("neighbor corrupted: %q", h2)
	}
}

func TestStoreSpillsToNewPages(t *testing.T) {
	var s Store

	text := strings.Repeat("x", 1000)
	var handles [][]byte
	for i := 0; i < 200; i++ {
		handles = append(handles, s.Add(text))
	}

	if s.PageCount() < 2 {
		t.Fatalf("expected multiple pages, got %d", s.PageCount())
	}
	for i, h := range handles {
		if string(h) != text {
			t.Fatalf("handle %d corrupted after page spill", i)
		}
	}
}

func TestStoreOversizedText(t *testing.T) {
	var s Store

	big := strings.Repeat("y", pageSize+100)
	h := s.Add(big)
	if string(h) != big {
		t.Fatal("oversized text not stored intact")
	}

	after := s.Add("small")
	if string(after) != "small" {
		t.Fatalf("got %q", after)
	}
}

func TestStoreClear(t *testing.T) {
	var s Store

	s.Add("a")
	s.Clear()
	if s.PageCount() != 0 {
		t.Fatalf("pages after clear: %d", s.PageCount())
	}

	if h := s.Add("b"); string(h) != "b" {
		t.Fatalf("got %q", h)
	}
}
