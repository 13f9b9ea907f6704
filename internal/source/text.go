package source

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// DefaultSeparator splits inline text into sentences.
const DefaultSeparator = '.'

// Text serves sentences split from an inline block of text, such as piped stdin.
type Text struct {
	sentences []string
	rnd       *rand.Rand
}

// NewText splits text after every separator, keeping the separator with its
// sentence. Pieces are trimmed and blank pieces dropped.
func NewText(text string, separator rune) *Text {
	return &Text{
		sentences: splitInclusive(text, separator),
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Len returns the number of sentences available.
func (t *Text) Len() int {
	return len(t.sentences)
}

// Sentence implements Provider.
func (t *Text) Sentence(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(t.sentences) == 0 {
		return "", fmt.Errorf("could not get a sentence: %w", ErrNoContent)
	}
	return t.sentences[t.rnd.Intn(len(t.sentences))], nil
}

func (t *Text) String() string {
	return fmt.Sprintf("text (%d sentences)", len(t.sentences))
}

func splitInclusive(text string, separator rune) []string {
	var out []string
	for text != "" {
		idx := strings.IndexRune(text, separator)
		var piece string
		if idx < 0 {
			piece, text = text, ""
		} else {
			end := idx + len(string(separator))
			piece, text = text[:end], text[end:]
		}
		if s := ToASCII(piece); s != "" {
			out = append(out, s)
		}
	}
	return out
}
