// File: internal/infra/corpus/store.go
package corpus

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Store holds the static reference lines used for keyword retrieval.
// It is loaded once at startup and read-only afterwards, shared by all
// sessions without locking.
type Store struct {
	lines []string
}

// Load reads a newline-delimited text file into a Store. A missing file is
// not fatal: retrieval simply never matches, and a warning is logged so the
// operator can tell why study answers carry no context.
func Load(path string, logger *zerolog.Logger) *Store {
	b, err := os.ReadFile(path)
	if err != nil {
		logger.Warn().Str("path", path).Err(err).
			Msg("study materials not found; retrieval disabled")
		return &Store{}
	}
	raw := strings.Split(strings.ReplaceAll(string(b), "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return &Store{lines: lines}
}

// NewStore builds a Store directly from lines; used by tests and seeds.
func NewStore(lines []string) *Store {
	return &Store{lines: lines}
}

func (s *Store) Lines() []string { return s.lines }

func (s *Store) Len() int { return len(s.lines) }
