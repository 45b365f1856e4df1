package docstore

import "slices"

// MemoryDB holds an ordered document list that is never modified after construction,
// so it can be read from any number of goroutines without locking.
type MemoryDB struct {
	documents []Document
}

// New returns the store seeded with the built-in documents.
func New() *MemoryDB {
	return &MemoryDB{documents: slices.Clone(seedDocuments)}
}

func NewFromDocuments(documents []Document) (*MemoryDB, error) {
	seen := make(map[string]struct{}, len(documents))
	for _, doc := range documents {
		if _, ok := seen[doc.ID]; ok {
			return nil, &DuplicateIDError{ID: doc.ID}
		}
		seen[doc.ID] = struct{}{}
	}

	return &MemoryDB{documents: slices.Clone(documents)}, nil
}

// All returns a copy of the documents in insertion order.
func (m *MemoryDB) All() []Document {
	return slices.Clone(m.documents)
}

func (m *MemoryDB) Get(id string) (Document, error) {
	for _, doc := range m.documents {
		if doc.ID == id {
			return doc, nil
		}
	}

	return Document{}, &NotFoundError{ID: id}
}

func (m *MemoryDB) Count() int {
	return len(m.documents)
}
