// Package logging provides structured logging with slog for typers.
package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
)

// New returns a text logger writing to w. Debug records are kept only when verbose is set.
// The returned Notices records the latest warning for display in the UI.
func New(w io.Writer, verbose bool) (*slog.Logger, *Notices) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	notices := &Notices{}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(&noticeHandler{Handler: handler, notices: notices}), notices
}

// Notices holds the most recent warning-or-worse message.
type Notices struct {
	mu   sync.Mutex
	last string
}

// Last returns the latest notice, or "" if none was logged.
func (n *Notices) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

func (n *Notices) set(msg string) {
	n.mu.Lock()
	n.last = msg
	n.mu.Unlock()
}

type noticeHandler struct {
	slog.Handler
	notices *Notices
}

func (h *noticeHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		msg := r.Message
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == "err" {
				msg += ": " + a.Value.String()
				return false
			}
			return true
		})
		h.notices.set(msg)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *noticeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &noticeHandler{Handler: h.Handler.WithAttrs(attrs), notices: h.notices}
}

func (h *noticeHandler) WithGroup(name string) slog.Handler {
	return &noticeHandler{Handler: h.Handler.WithGroup(name), notices: h.notices}
}

// Buffer collects log output while the terminal is owned by the UI.
type Buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Flush writes the collected output to w and resets the buffer.
func (b *Buffer) Flush(w io.Writer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.buf.WriteTo(w)
	return err
}

// Switch is an io.Writer whose destination can be replaced at runtime.
type Switch struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSwitch returns a Switch writing to w.
func NewSwitch(w io.Writer) *Switch {
	return &Switch{w: w}
}

// Set replaces the destination.
func (s *Switch) Set(w io.Writer) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}

// Write implements io.Writer.
func (s *Switch) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Hold buffers everything written to s until the returned release func is
// called. Release points s back at w and replays the held output there.
func (s *Switch) Hold(w io.Writer) (release func() error) {
	held := &Buffer{}
	s.Set(held)
	return func() error {
		s.Set(w)
		return held.Flush(w)
	}
}
