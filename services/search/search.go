package search

import (
	"strings"

	"github.com/meghashyamc/localdocs/db/docstore"
	"github.com/meghashyamc/localdocs/logger"
)

const (
	MaxResults    = 8
	SnippetLength = 160
)

// Store is the part of the document store needed for searching.
type Store interface {
	All() []docstore.Document
}

type Result struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

type Service struct {
	logger logger.Logger
	store  Store
}

func New(logger logger.Logger, store Store) *Service {
	return &Service{
		logger: logger,
		store:  store,
	}
}

// Search returns up to MaxResults documents, in store order, whose title and text
// contain query case-insensitively. A blank query matches nothing.
func (s *Service) Search(query string) []Result {
	results := []Result{}

	normalizedQuery := strings.ToLower(strings.TrimSpace(query))
	if normalizedQuery == "" {
		s.logger.Debug("skipping search for blank query")
		return results
	}

	for _, doc := range s.store.All() {
		haystack := strings.ToLower(doc.Title + " " + doc.Text)
		if !strings.Contains(haystack, normalizedQuery) {
			continue
		}

		results = append(results, Result{
			ID:      doc.ID,
			Title:   doc.Title,
			Snippet: snippet(doc.Text),
		})
		if len(results) == MaxResults {
			break
		}
	}

	s.logger.Debug("search completed", "query", normalizedQuery, "results", len(results))
	return results
}

// snippet cuts text to its first SnippetLength characters, ignoring word boundaries.
func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= SnippetLength {
		return text
	}

	return string(runes[:SnippetLength])
}
