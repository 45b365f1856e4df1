package kvdb

const SessionsBucket = "sessions"

var buckets = []string{SessionsBucket}

type DB interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
	Close() error
}
