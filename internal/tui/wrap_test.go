package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typers/internal/stats"
	"github.com/verte-zerg/typers/internal/typing"
)

func TestBuildStyledRunesStates(t *testing.T) {
	st := typing.Load("abcd")
	c := typing.NewCounters(time.Now())
	typing.Apply(st, c, typing.Char('a'))
	typing.Apply(st, c, typing.Char('x'))
	typing.Apply(st, c, typing.Char('b'))
	typing.Apply(st, c, typing.Char('z'))

	runes := buildStyledRunes(st)
	if len(runes) != 4 {
		t.Fatalf("expected 4 runes, got %d", len(runes))
	}
	want := []string{
		correctStyle.Render("a"),
		correctedStyle.Render("b"),
		wrongStyle.Render("c"),
		pendingStyle.Render("d"),
	}
	for i, w := range want {
		if runes[i].s != w {
			t.Fatalf("rune %d: got %q, want %q", i, runes[i].s, w)
		}
	}
}

func TestBuildStyledRunesCursor(t *testing.T) {
	st := typing.Load("ab")
	runes := buildStyledRunes(st)
	if runes[0].s != currentStyle.Render("a") {
		t.Fatalf("expected current style for the cursor position")
	}
	if runes[1].s != pendingStyle.Render("b") {
		t.Fatalf("expected pending style after the cursor")
	}
}

func TestBuildStyledRunesNonASCIIByte(t *testing.T) {
	st := typing.Load("é")
	runes := buildStyledRunes(st)
	if len(runes) != 2 {
		t.Fatalf("expected one styled rune per byte, got %d", len(runes))
	}
	if runes[1].s != pendingStyle.Render("?") {
		t.Fatalf("expected placeholder for non-ASCII byte, got %q", runes[1].s)
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	st := typing.Load("one two three")
	out := wrapStyledRunes(buildStyledRunes(st), 8)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	for _, line := range lines {
		if w := lipgloss.Width(line); w > 8 {
			t.Fatalf("line %q is %d wide", line, w)
		}
	}
}

func TestWrapStyledRunesKeepsAllPositions(t *testing.T) {
	st := typing.Load("a bb ccc dddd")
	styled := buildStyledRunes(st)
	total := 0
	for _, line := range strings.Split(wrapStyledRunes(styled, 4), "\n") {
		total += lipgloss.Width(line)
	}
	if total != st.Len() {
		t.Fatalf("expected %d visible cells after wrap, got %d", st.Len(), total)
	}
}

func TestWrapStyledRunesLongWord(t *testing.T) {
	st := typing.Load("abcdefgh")
	out := wrapStyledRunes(buildStyledRunes(st), 3)
	if n := len(strings.Split(out, "\n")); n != 3 {
		t.Fatalf("expected hard break into 3 lines, got %d: %q", n, out)
	}
}

func TestRenderMetrics(t *testing.T) {
	got := RenderMetrics(stats.Snapshot{Errors: 1, Accuracy: 75, HasAccuracy: true, WPM: 42.5})
	if got != "Errors: 1 | Accuracy: 75.00% | WPM: 42.50" {
		t.Fatalf("unexpected metrics line %q", got)
	}
	got = RenderMetrics(stats.Snapshot{})
	if got != "Errors: 0 | Accuracy: -- | WPM: 0.00" {
		t.Fatalf("unexpected metrics line before typing %q", got)
	}
}
