// Package tui provides the terminal typing interface.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typers/internal/stats"
	"github.com/verte-zerg/typers/internal/typing"
)

var (
	pendingStyle   = lipgloss.NewStyle()
	currentStyle   = lipgloss.NewStyle().Reverse(true)
	correctStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	wrongStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")).Reverse(true)
	correctedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")).Underline(true)
	metricsStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

func styleFor(s typing.CharState) lipgloss.Style {
	switch s {
	case typing.Current:
		return currentStyle
	case typing.Correct:
		return correctStyle
	case typing.Wrong:
		return wrongStyle
	case typing.Corrected:
		return correctedStyle
	default:
		return pendingStyle
	}
}

// Positions are bytes; anything outside printable ASCII is shown as '?'.
func buildStyledRunes(st *typing.State) []styledRune {
	sentence := st.Sentence()
	out := make([]styledRune, 0, len(sentence))
	for i := 0; i < len(sentence); i++ {
		b := sentence[i]
		displayed := rune(b)
		if b < 0x20 || b >= 0x7f {
			displayed = '?'
		}
		out = append(out, styledRune{
			s:       styleFor(st.At(i)).Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: b == typing.WordSeparator,
		})
	}
	return out
}

// RenderSentence draws the sentence with per-character status, wrapped to
// width when width is positive.
func RenderSentence(st *typing.State, width int) string {
	styled := buildStyledRunes(st)
	if width <= 0 {
		return renderStyledRunes(styled)
	}
	return wrapStyledRunes(styled, width)
}

// RenderMetrics draws the errors, accuracy, and speed line.
func RenderMetrics(snap stats.Snapshot) string {
	acc := "--"
	if snap.HasAccuracy {
		acc = fmt.Sprintf("%.2f%%", snap.Accuracy)
	}
	return fmt.Sprintf("Errors: %d | Accuracy: %s | WPM: %.2f", snap.Errors, acc, snap.WPM)
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				// Keep the space on the line it ends so every position stays visible.
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx+1]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
