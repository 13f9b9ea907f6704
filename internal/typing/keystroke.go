package typing

// KeyKind distinguishes input events.
type KeyKind int

// Key kinds.
const (
	KeyOther KeyKind = iota
	KeyChar
	KeyCancel
)

// WordSeparator ends a word; each correct one counts as a typed word.
const WordSeparator = ' '

// KeyEvent is one discrete input event.
type KeyEvent struct {
	Kind KeyKind
	Char rune
}

// Char returns a printable character event.
func Char(r rune) KeyEvent {
	return KeyEvent{Kind: KeyChar, Char: r}
}

// Cancel returns an event that abandons the rest of the sentence.
func Cancel() KeyEvent {
	return KeyEvent{Kind: KeyCancel}
}

// Other returns an event that is ignored.
func Other() KeyEvent {
	return KeyEvent{Kind: KeyOther}
}

// Apply applies one input event to st and c.
func Apply(st *State, c *Counters, ev KeyEvent) {
	switch ev.Kind {
	case KeyCancel:
		st.cursor = len(st.sentence)
	case KeyChar:
		if st.Done() {
			return
		}
		expected := st.sentence[st.cursor]
		if ev.Char != rune(expected) {
			c.Errors++
			st.states[st.cursor] = Wrong
			return
		}
		if st.states[st.cursor] == Wrong {
			st.states[st.cursor] = Corrected
		} else {
			st.states[st.cursor] = Correct
		}
		if ev.Char == WordSeparator {
			c.TypedWords++
		}
		c.TypedChars++
		st.cursor++
		if st.cursor < len(st.states) {
			st.states[st.cursor] = Current
		}
	}
}
