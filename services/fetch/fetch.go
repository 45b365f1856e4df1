package fetch

import (
	"encoding/json"
	"errors"

	"github.com/meghashyamc/localdocs/db/docstore"
	"github.com/meghashyamc/localdocs/logger"
)

// Store is the part of the document store needed for fetching.
type Store interface {
	Get(id string) (docstore.Document, error)
}

// Result holds either the requested document or the reason it could not be returned.
// A missing document is a normal outcome, so callers check Found instead of an error.
type Result struct {
	Document *docstore.Document
	Error    string
}

func (r Result) Found() bool {
	return r.Document != nil
}

// MarshalJSON encodes the document itself, or {"error": "..."} on a miss.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Document != nil {
		return json.Marshal(r.Document)
	}

	return json.Marshal(struct {
		Error string `json:"error"`
	}{Error: r.Error})
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

// Fetch looks a document up by exact, case-sensitive id.
func (s *Service) Fetch(id string) Result {
	doc, err := s.store.Get(id)
	if err != nil {
		if !errors.Is(err, docstore.ErrNotFound) {
			s.logger.Error("could not fetch document", "id", id, "err", err.Error())
		} else {
			s.logger.Info("document not found", "id", id)
		}
		return Result{Error: err.Error()}
	}

	return Result{Document: &doc}
}
