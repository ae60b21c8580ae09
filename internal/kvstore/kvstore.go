// Package kvstore is the persistence adapter: JSON values under fixed string
// keys, the Go stand-in for the browser's per-origin localStorage.
package kvstore

import (
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("key not found")

// Store is a flat key-value store. Set overwrites unconditionally; there are
// no transactions, so two keys written in sequence are not atomic together.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

// ReadJSON decodes the value under key into dest. A missing key, an empty
// store or malformed JSON leaves dest untouched, so the caller's fallback
// value stays in place. Corrupt data is swallowed, never surfaced.
func ReadJSON(s Store, key string, dest interface{}) {
	raw, err := s.Get(key)
	if err != nil {
		return
	}
	_ = json.Unmarshal(raw, dest)
}

// WriteJSON serializes value and stores it under key, replacing any prior
// value.
func WriteJSON(s Store, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(key, raw)
}
