// Package keys maps raw terminal input to bound action identifiers and
// delivers them, one at a time, to a handler that decides whether dispatch
// continues. Terminal resize arrives out of band and is surfaced as its own
// event rather than being merged into the key stream.
package keys

import (
	"strings"
	"unicode/utf8"
)

// Binding associates one input byte sequence with an action identifier.
type Binding struct {
	Seq string
	ID  int
}

// Group is an ordered set of bindings plus an optional catch-all that
// receives printable input not claimed by any sequence.
type Group struct {
	bindings []Binding
	catchAll int
}

// NewGroup returns an empty binding group with no catch-all.
func NewGroup() *Group {
	return &Group{catchAll: -1}
}

// Bind adds a sequence binding. Later bindings do not shadow earlier ones;
// the first exact match wins.
func (g *Group) Bind(seq string, id int) {
	g.bindings = append(g.bindings, Binding{Seq: seq, ID: id})
}

// BindCatchAll routes unclaimed printable input to id.
func (g *Group) BindCatchAll(id int) {
	g.catchAll = id
}

// exact returns the identifier bound to in, if any.
func (g *Group) exact(in string) (int, bool) {
	for _, b := range g.bindings {
		if b.Seq == in {
			return b.ID, true
		}
	}
	return 0, false
}

// canExtend reports whether in is a proper prefix of some binding, meaning
// further bytes could still complete a longer sequence.
func (g *Group) canExtend(in string) bool {
	for _, b := range g.bindings {
		if len(in) < len(b.Seq) && strings.HasPrefix(b.Seq, in) {
			return true
		}
	}
	return false
}

// printableRun returns the leading run of printable bytes in in: everything
// up to the first C0 control byte or DEL. Multi-byte UTF-8 is kept whole; a
// character left incomplete by a read boundary ends the run rather than
// being delivered as broken bytes.
func printableRun(in string) string {
	i := 0
	for i < len(in) {
		b := in[i]
		if b < 0x20 || b == 0x7f {
			break
		}
		if b < utf8.RuneSelf {
			i++
			continue
		}
		if !utf8.FullRuneInString(in[i:]) {
			break
		}
		_, size := utf8.DecodeRuneInString(in[i:])
		i += size
	}
	return in[:i]
}
