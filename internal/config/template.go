package config

import (
	"fmt"
	"strings"
	"time"
)

// Defaults shared by the CLI and the generated config file.
const (
	DefaultRounds     = 1
	DefaultTimeout    = 10 * time.Second
	DefaultMaxEntries = 500
	DefaultSeparator  = "."
)

// DefaultLanguages is used when the config does not list any.
var DefaultLanguages = []string{"en"}

// DefaultTemplate returns the config file written on first run.
func DefaultTemplate() string {
	quoted := make([]string, len(DefaultLanguages))
	for i, lang := range DefaultLanguages {
		quoted[i] = fmt.Sprintf("%q", lang)
	}
	return fmt.Sprintf(`# typers configuration
# CLI flags override config values.

[application]
# Arguments used when typers is started without any.
default-args = "--wikipedia --number %d"

[wikipedia]
# ISO 639-1 codes; one is picked at random per article.
languages = [%s]
# Per-fetch timeout for any sentence source.
timeout = %q

[cache]
# Keep fetched articles to fall back on when offline.
enabled = true
max-entries = %d

[input]
# Piped text is split into sentences after this character.
separator = %q
`,
		DefaultRounds,
		strings.Join(quoted, ", "),
		DefaultTimeout.String(),
		DefaultMaxEntries,
		DefaultSeparator,
	)
}
