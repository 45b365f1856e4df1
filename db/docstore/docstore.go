package docstore

type DB interface {
	All() []Document
	Get(id string) (Document, error)
	Count() int
}
