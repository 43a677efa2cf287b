// File: internal/infra/corpus/retriever.go
package corpus

import "strings"

// topMatches caps how many corpus lines a single query can pull in.
const topMatches = 3

// Retriever performs exact keyword matching over the store. Deliberately
// crude: case-insensitive substring containment, first matches in corpus
// order, no ranking. Cheap, deterministic, zero infrastructure.
type Retriever struct {
	store *Store
}

func NewRetriever(store *Store) *Retriever {
	return &Retriever{store: store}
}

// TopMatches returns up to three corpus lines where any whitespace-delimited
// query token appears as a case-insensitive substring, joined by newlines.
// Returns "" when nothing matches. strings.Fields never yields an empty
// token, so a blank query matches nothing rather than everything.
func (r *Retriever) TopMatches(query string) string {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return ""
	}

	var matched []string
	for _, line := range r.store.Lines() {
		lower := strings.ToLower(line)
		for _, tok := range tokens {
			if strings.Contains(lower, tok) {
				matched = append(matched, line)
				break
			}
		}
		if len(matched) == topMatches {
			break
		}
	}
	return strings.Join(matched, "\n")
}
