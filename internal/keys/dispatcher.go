package keys

import (
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/popline/popline/internal/logx"
)

// Event is one identified input delivered to a handler. Either ID/Keys
// describe a bound action (Keys carries the raw bytes, which matters for the
// catch-all), or Resize is set with the new geometry.
type Event struct {
	ID     int
	Keys   string
	Resize bool
	Cols   int
	Rows   int
}

// Handler consumes dispatched events. Returning false stops the dispatch
// loop and hands control back to the caller of Dispatch.
type Handler interface {
	OnEvent(ev Event) bool
}

// InputSource supplies raw bytes and geometry. *terminal.TTY implements it.
type InputSource interface {
	ReadInput(buf []byte, timeout time.Duration) (int, error)
	Size() (cols, rows int)
}

// Dispatcher reads raw input, resolves it against a binding group, and
// delivers one event at a time. A SIGWINCH between reads becomes a Resize
// event; it is never queued behind pending key input.
type Dispatcher struct {
	src   InputSource
	winch chan os.Signal

	// poll bounds how long a read blocks before the resize channel is
	// rechecked; escTimeout disambiguates a lone Esc from a sequence.
	poll       time.Duration
	escTimeout time.Duration
}

// NewDispatcher returns a dispatcher reading from src.
func NewDispatcher(src InputSource) *Dispatcher {
	d := &Dispatcher{
		src:        src,
		winch:      make(chan os.Signal, 1),
		poll:       100 * time.Millisecond,
		escTimeout: 50 * time.Millisecond,
	}
	signal.Notify(d.winch, syscall.SIGWINCH)
	return d
}

// Close releases the resize signal registration.
func (d *Dispatcher) Close() {
	signal.Stop(d.winch)
}

// Dispatch delivers events to h until h asks to stop or input ends.
func (d *Dispatcher) Dispatch(g *Group, h Handler) {
	var pending []byte
	buf := make([]byte, 64)

	for {
		select {
		case <-d.winch:
			cols, rows := d.src.Size()
			logx.Debugf("keys: resize to %dx%d", cols, rows)
			if !h.OnEvent(Event{Resize: true, Cols: cols, Rows: rows}) {
				return
			}
			continue
		default:
		}

		if len(pending) == 0 {
			n, err := d.src.ReadInput(buf, d.poll)
			if err != nil {
				logx.Debugf("keys: read error: %v", err)
				return
			}
			if n == 0 {
				continue
			}
			pending = append(pending, buf[:n]...)
		}

		ev, rest, ok := d.resolve(g, pending)
		pending = rest
		if !ok {
			continue
		}
		if !h.OnEvent(ev) {
			return
		}
	}
}

// resolve consumes one event's worth of bytes from pending. The longest
// bound sequence wins; when all of pending is still a proper prefix of some
// binding, or it ends inside a multi-byte character, resolve waits briefly
// for the remainder, so a lone Esc that stays lone is delivered through
// Esc's own binding instead of swallowing the next key, and a UTF-8
// character split across reads is delivered whole.
func (d *Dispatcher) resolve(g *Group, pending []byte) (Event, []byte, bool) {
	for len(pending) > 0 {
		best, bestID := 0, 0
		for i := 1; i <= len(pending); i++ {
			if id, ok := g.exact(string(pending[:i])); ok {
				best, bestID = i, id
			}
		}

		if g.canExtend(string(pending)) || incompleteTail(pending) {
			buf := make([]byte, 64)
			n, err := d.src.ReadInput(buf, d.escTimeout)
			if err == nil && n > 0 {
				pending = append(pending, buf[:n]...)
				continue
			}
			// Nothing more is coming; fall through to the best match.
		}

		if best > 0 {
			return Event{ID: bestID, Keys: string(pending[:best])}, pending[best:], true
		}
		if run := printableRun(string(pending)); run != "" && g.catchAll >= 0 {
			return Event{ID: g.catchAll, Keys: run}, pending[len(run):], true
		}
		// Unbound control byte or an orphaned UTF-8 fragment; discard it.
		pending = pending[1:]
	}
	return Event{}, nil, false
}

// incompleteTail reports whether pending ends inside a multi-byte UTF-8
// character, meaning further bytes may still complete it.
func incompleteTail(pending []byte) bool {
	n := len(pending)
	for back := 1; back <= utf8.UTFMax-1 && back <= n; back++ {
		b := pending[n-back]
		if b < 0x80 {
			return false
		}
		if b >= 0xc0 {
			return !utf8.FullRune(pending[n-back:])
		}
	}
	return false
}
