package logx

import (
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	SetLevel(Warn)
	defer SetLevel(Info)

	Debugf("hidden debug")
	Infof("hidden info")
	Warnf("visible warning")
	Errorf("visible error")

	dump := Dump()
	if strings.Contains(dump, "hidden") {
		t.Fatalf("low-level lines leaked: %s", dump)
	}
	if !strings.Contains(dump, "visible warning") || !strings.Contains(dump, "visible error") {
		t.Fatalf("high-level lines missing: %s", dump)
	}
}

func TestLinesReturnsCopy(t *testing.T) {
	Errorf("first")
	lines := Lines()
	if len(lines) == 0 {
		t.Fatal("no lines buffered")
	}
	lines[len(lines)-1] = "mutated"
	if Lines()[len(Lines())-1] == "mutated" {
		t.Fatal("Lines exposed the internal buffer")
	}
}
