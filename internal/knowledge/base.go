// Package knowledge holds the static Q&A corpus consulted before any
// model call on the general-query path. The corpus is bundled into the
// binary and immutable after load, so a single Base is safe for
// concurrent readers.
package knowledge

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed corpus.yaml
var corpusYAML []byte

// maxResults caps how many matches a single search returns.
const maxResults = 10

// Entry is one question/answer pair.
type Entry struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
	Category string `json:"category" yaml:"-"`
}

// Result is a search hit. Relevance is 1.0 for a question that starts with
// the query and 0.5 for any other substring match.
type Result struct {
	Entry
	Relevance float64 `json:"relevance"`
}

// Base is the loaded corpus.
type Base struct {
	entries []Entry
}

type corpusDoc struct {
	Categories []struct {
		Name    string  `yaml:"name"`
		Entries []Entry `yaml:"entries"`
	} `yaml:"categories"`
}

// Load parses the embedded corpus. Call it once at startup and share the
// returned Base.
func Load() (*Base, error) {
	return parse(corpusYAML)
}

func parse(data []byte) (*Base, error) {
	var doc corpusDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse knowledge corpus: %w", err)
	}

	base := &Base{}
	for _, category := range doc.Categories {
		name := strings.TrimSpace(category.Name)
		for _, entry := range category.Entries {
			if strings.TrimSpace(entry.Question) == "" || strings.TrimSpace(entry.Answer) == "" {
				return nil, fmt.Errorf("knowledge corpus: category %q has an entry with an empty question or answer", name)
			}
			entry.Category = name
			base.entries = append(base.entries, entry)
		}
	}

	if len(base.entries) == 0 {
		return nil, fmt.Errorf("knowledge corpus is empty")
	}

	return base, nil
}

// Search scans every entry for the query as a case-insensitive substring of
// the question or the answer. Matches are ordered by relevance; entries with
// equal relevance keep their corpus order, which is why the sort must be
// stable. At most maxResults hits are returned.
func (b *Base) Search(query string) []Result {
	q := strings.ToLower(strings.TrimSpace(query))

	var results []Result
	for _, entry := range b.entries {
		question := strings.ToLower(entry.Question)
		answer := strings.ToLower(entry.Answer)
		if !strings.Contains(question, q) && !strings.Contains(answer, q) {
			continue
		}

		relevance := 0.5
		if strings.HasPrefix(question, q) {
			relevance = 1.0
		}
		results = append(results, Result{Entry: entry, Relevance: relevance})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// All returns every entry in corpus order.
func (b *Base) All() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len reports the corpus size.
func (b *Base) Len() int {
	return len(b.entries)
}

// Random picks one entry uniformly.
func (b *Base) Random() Entry {
	return b.entries[rand.IntN(len(b.entries))]
}
