package cache

import (
	"encoding/json"
	"fmt"
	"time"
)

// GetTyped deserializes the cached JSON payload under key into T. Decode
// failures surface as errors so a schema change between releases reads as a
// miss-with-cause rather than a silent zero value.
func GetTyped[T any](s *Store, key string) (T, error) {
	var v T
	data, err := s.Get(key)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("cache: decode %q: %w", key, err)
	}
	return v, nil
}

// PutTyped serializes value as JSON and stores it with the default TTL.
func PutTyped[T any](s *Store, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", key, err)
	}
	return s.Put(key, data)
}

// PutTypedTTL serializes value as JSON and stores it with a custom TTL.
func PutTypedTTL[T any](s *Store, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", key, err)
	}
	return s.PutTTL(key, data, ttl)
}
