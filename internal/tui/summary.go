package tui

import (
	"fmt"
	"io"

	"github.com/verte-zerg/typers/internal/session"
	"github.com/verte-zerg/typers/internal/stats"
)

// Feedback bands the final accuracy into a short message.
func Feedback(sum session.Summary) string {
	switch {
	case !sum.HasAccuracy:
		return "Nothing typed yet. Come back for another round!"
	case sum.Accuracy >= 98:
		return "Outstanding! Near-perfect accuracy."
	case sum.Accuracy >= 90:
		return "Great job! Your accuracy is solid."
	case sum.Accuracy >= 75:
		return "Not bad. Slow down a little to cut the errors."
	default:
		return "Keep practicing. Accuracy comes before speed."
	}
}

// RenderSummary prints the end-of-run summary.
func RenderSummary(w io.Writer, sum session.Summary) error {
	if _, err := fmt.Fprintln(w, Feedback(sum)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Rounds: %d\n", sum.Rounds); err != nil {
		return err
	}
	acc := "--"
	if sum.HasAccuracy {
		acc = fmt.Sprintf("%.2f%%", sum.Accuracy)
	}
	if _, err := fmt.Fprintf(w, "Accuracy: %s (%d errors, %d chars)\n", acc, sum.Errors, sum.TypedChars); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "WPM: %.2f\n", sum.WPM); err != nil {
		return err
	}
	if len(sum.RoundWPM) > 1 {
		if _, err := fmt.Fprintf(w, "WPM by round: [%s]\n", stats.Sparkline(sum.RoundWPM)); err != nil {
			return err
		}
	}
	return nil
}
