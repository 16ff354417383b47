package keys

import (
	"errors"
	"testing"
	"time"
)

// fakeSrc hands out one queued chunk per read and errors when drained, which
// ends the dispatch loop.
type fakeSrc struct {
	chunks []string
}

func (f *fakeSrc) ReadInput(buf []byte, timeout time.Duration) (int, error) {
	if len(f.chunks) == 0 {
		return 0, errors.New("input closed")
	}
	n := copy(buf, f.chunks[0])
	f.chunks = f.chunks[1:]
	return n, nil
}

func (f *fakeSrc) Size() (int, int) { return 80, 25 }

type recorder struct {
	events []Event
}

func (r *recorder) OnEvent(ev Event) bool {
	r.events = append(r.events, ev)
	return true
}

const (
	idUp = iota + 1
	idDown
	idEsc
	idAltD
	idEnter
	idText
)

func testGroup() *Group {
	g := NewGroup()
	g.Bind("\x1b[A", idUp)
	g.Bind("\x1b[B", idDown)
	g.Bind("\x1b", idEsc)
	g.Bind("\x1bd", idAltD)
	g.Bind("\r", idEnter)
	g.BindCatchAll(idText)
	return g
}

func dispatch(t *testing.T, chunks ...string) []Event {
	t.Helper()
	d := NewDispatcher(&fakeSrc{chunks: chunks})
	defer d.Close()
	d.escTimeout = time.Millisecond

	var r recorder
	d.Dispatch(testGroup(), &r)
	return r.events
}

func TestDispatchExactSequence(t *testing.T) {
	events := dispatch(t, "\x1b[A")
	if len(events) != 1 || events[0].ID != idUp {
		t.Fatalf("got %+v", events)
	}
}

func TestDispatchSplitSequence(t *testing.T) {
	// A sequence arriving across two reads must still resolve as one key.
	events := dispatch(t, "\x1b", "[A")
	if len(events) != 1 || events[0].ID != idUp {
		t.Fatalf("got %+v", events)
	}
}

func TestDispatchLoneEsc(t *testing.T) {
	events := dispatch(t, "\x1b")
	if len(events) != 1 || events[0].ID != idEsc {
		t.Fatalf("got %+v", events)
	}
}

func TestDispatchLongestMatchWins(t *testing.T) {
	// Esc is bound on its own, but Esc+d must resolve to the longer binding.
	events := dispatch(t, "\x1bd")
	if len(events) != 1 || events[0].ID != idAltD {
		t.Fatalf("got %+v", events)
	}
}

func TestDispatchQueuedSequences(t *testing.T) {
	events := dispatch(t, "\x1b[A\x1b[B\x1b[A")
	want := []int{idUp, idDown, idUp}
	if len(events) != len(want) {
		t.Fatalf("got %d events", len(events))
	}
	for i, id := range want {
		if events[i].ID != id {
			t.Fatalf("event %d: got %d, want %d", i, events[i].ID, id)
		}
	}
}

func TestDispatchCatchAllRun(t *testing.T) {
	events := dispatch(t, "ab\r")
	if len(events) != 2 {
		t.Fatalf("got %+v", events)
	}
	if events[0].ID != idText || events[0].Keys != "ab" {
		t.Fatalf("got %+v", events[0])
	}
	if events[1].ID != idEnter {
		t.Fatalf("got %+v", events[1])
	}
}

func TestDispatchSplitUTF8Rune(t *testing.T) {
	// A multi-byte character split across two reads must arrive whole, not
	// as replacement-character garbage.
	events := dispatch(t, "caf\xc3", "\xa9")
	if len(events) != 1 || events[0].Keys != "café" {
		t.Fatalf("got %+v", events)
	}
}

func TestDispatchDropsOrphanedFragment(t *testing.T) {
	// A lead byte whose continuation never arrives is discarded, and the
	// bytes before it still form a clean run.
	events := dispatch(t, "ab\xc3")
	if len(events) != 1 || events[0].Keys != "ab" {
		t.Fatalf("got %+v", events)
	}
}

func TestDispatchDropsUnboundControl(t *testing.T) {
	events := dispatch(t, "\x02x")
	if len(events) != 1 || events[0].Keys != "x" {
		t.Fatalf("got %+v", events)
	}
}

func TestDispatchStopsWhenHandlerDeclines(t *testing.T) {
	d := NewDispatcher(&fakeSrc{chunks: []string{"\r\r\r"}})
	defer d.Close()

	stop := &stopAfter{n: 1}
	d.Dispatch(testGroup(), stop)
	if stop.seen != 1 {
		t.Fatalf("saw %d events", stop.seen)
	}
}

type stopAfter struct {
	n, seen int
}

func (s *stopAfter) OnEvent(ev Event) bool {
	s.seen++
	return s.seen < s.n
}
