package store

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
)

// Store is the local key-value store the data services persist into. Values
// are plain strings; callers that need structure go through ReadList and
// WriteList. Implementations must tolerate concurrent use with
// last-writer-wins semantics.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// ReadList decodes the JSON list stored under key. A missing key, a nil
// store, or a corrupt value all yield an empty slice; decode failures are
// logged and never propagated.
func ReadList[T any](s Store, key string) []T {
	if s == nil {
		return nil
	}
	raw, ok := s.Get(key)
	if !ok || raw == "" {
		return nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.WithError(err).WithField("key", key).Warn("discarding corrupt stored list")
		return nil
	}
	return items
}

// WriteList encodes items as JSON and stores them under key. Encode or write
// failures are logged and dropped; persistence is best effort.
func WriteList[T any](s Store, key string, items []T) {
	if s == nil {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("could not encode list for storage")
		return
	}
	if err := s.Set(key, string(data)); err != nil {
		log.WithError(err).WithField("key", key).Warn("could not persist list")
	}
}
