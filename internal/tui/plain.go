package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/verte-zerg/typers/internal/session"
	"github.com/verte-zerg/typers/internal/typing"
)

const clearScreen = "\x1b[2J\x1b[1;1H"

// Screen redraws the whole prompt on every frame. Lines end in CRLF because
// the terminal is in raw mode while typing.
type Screen struct {
	w io.Writer
}

// NewScreen returns a Screen writing to w.
func NewScreen(w io.Writer) *Screen {
	return &Screen{w: w}
}

// Render implements session.Renderer.
func (s *Screen) Render(v session.View) error {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(RenderSentence(v.State, 0))
	b.WriteString("\r\n")
	b.WriteString(RenderMetrics(v.Metrics))
	b.WriteString("\r\n")
	b.WriteString(footerStyle.Render(fmt.Sprintf("Round %d/%d  esc skip sentence  ctrl+c quit", v.Round, v.Rounds)))
	b.WriteString("\r\n")
	_, err := io.WriteString(s.w, b.String())
	return err
}

// TTYReader reads keystrokes from the controlling terminal in raw mode. One
// read may hold several keys; they are queued and handed out one at a time.
type TTYReader struct {
	f       *os.File
	in      io.Reader
	owned   bool
	state   *term.State
	buf     [32]byte
	pending []typing.KeyEvent
	err     error
}

// OpenTTY opens the controlling terminal so keys can be read even when stdin
// is piped, falling back to stdin when it is itself a terminal.
func OpenTTY() (*TTYReader, error) {
	f, err := os.Open("/dev/tty")
	owned := true
	if err != nil {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, fmt.Errorf("no terminal available for keyboard input: %w", err)
		}
		f, owned = os.Stdin, false
	}
	state, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		if owned {
			_ = f.Close()
		}
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	return &TTYReader{f: f, in: f, owned: owned, state: state}, nil
}

// Close restores the terminal state.
func (r *TTYReader) Close() error {
	err := term.Restore(int(r.f.Fd()), r.state)
	if r.owned {
		if cerr := r.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// ReadKey implements session.KeyReader. The read itself cannot be
// interrupted; ctx is checked before blocking.
func (r *TTYReader) ReadKey(ctx context.Context) (typing.KeyEvent, error) {
	for {
		if len(r.pending) > 0 {
			ev := r.pending[0]
			r.pending = r.pending[1:]
			return ev, nil
		}
		if r.err != nil {
			err := r.err
			r.err = nil
			return typing.KeyEvent{}, err
		}
		if err := ctx.Err(); err != nil {
			return typing.KeyEvent{}, err
		}
		n, err := r.in.Read(r.buf[:])
		if n == 0 && err != nil {
			return typing.KeyEvent{}, fmt.Errorf("read key: %w", err)
		}
		r.pending, r.err = decodeKeys(r.buf[:n])
	}
}

// decodeKeys maps one raw read to events. A lone ESC cancels, while escape
// sequences such as arrow keys become a single ignored event. Ctrl+C or
// Ctrl+D stops decoding and returns the events before it with ErrInterrupted.
func decodeKeys(b []byte) ([]typing.KeyEvent, error) {
	events := make([]typing.KeyEvent, 0, len(b))
	for i := 0; i < len(b); {
		switch b[i] {
		case 0x03, 0x04:
			return events, session.ErrInterrupted
		case 0x1b:
			if n := escapeSequenceLen(b[i:]); n > 0 {
				events = append(events, typing.Other())
				i += n
				continue
			}
			events = append(events, typing.Cancel())
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		i += size
		if (r == utf8.RuneError && size <= 1) || !unicode.IsPrint(r) {
			events = append(events, typing.Other())
			continue
		}
		events = append(events, typing.Char(r))
	}
	return events, nil
}

// escapeSequenceLen returns the length of the CSI or SS3 sequence at the
// start of b, or 0 when the ESC stands alone.
func escapeSequenceLen(b []byte) int {
	if len(b) < 2 {
		return 0
	}
	switch b[1] {
	case 'O':
		if len(b) < 3 {
			return 2
		}
		return 3
	case '[':
		for j := 2; j < len(b); j++ {
			if b[j] >= 0x40 && b[j] <= 0x7e {
				return j + 1
			}
		}
		return len(b)
	}
	return 0
}
