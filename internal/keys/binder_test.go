package keys

import "testing"

func TestGroupExact(t *testing.T) {
	g := NewGroup()
	g.Bind("\x1b[A", 1)
	g.Bind("\x1b", 2)

	if id, ok := g.exact("\x1b[A"); !ok || id != 1 {
		t.Fatalf("got %d, %v", id, ok)
	}
	if id, ok := g.exact("\x1b"); !ok || id != 2 {
		t.Fatalf("got %d, %v", id, ok)
	}
	if _, ok := g.exact("\x1b["); ok {
		t.Fatal("partial sequence should not match")
	}
}

func TestGroupFirstBindingWins(t *testing.T) {
	g := NewGroup()
	g.Bind("\r", 1)
	g.Bind("\r", 2)

	if id, _ := g.exact("\r"); id != 1 {
		t.Fatalf("got %d", id)
	}
}

func TestGroupCanExtend(t *testing.T) {
	g := NewGroup()
	g.Bind("\x1b[A", 1)

	if !g.canExtend("\x1b") || !g.canExtend("\x1b[") {
		t.Fatal("prefixes should be extendable")
	}
	if g.canExtend("\x1b[A") {
		t.Fatal("a complete sequence is not extendable")
	}
	if g.canExtend("x") {
		t.Fatal("unrelated input is not extendable")
	}
}

func TestPrintableRun(t *testing.T) {
	tests := []struct{ in, want string }{
		{"abc", "abc"},
		{"ab\rcd", "ab"},
		{"\x1b[A", ""},
		{"héllo\x7f", "héllo"},
		{"日本\x03", "日本"},
		{"ab\xc3", "ab"}, // incomplete trailing character ends the run
	}
	for _, tt := range tests {
		if got := printableRun(tt.in); got != tt.want {
			t.Errorf("printableRun(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
