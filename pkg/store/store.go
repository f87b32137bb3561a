// Package store is the key-value layer every repository persists through.
package store

import (
	"context"
	"errors"
	"sort"
)

// ErrQuota is returned by Memory when its Fail hook rejects a write; it
// stands in for a full disk.
var ErrQuota = errors.New("store: quota exceeded")

// KV is a string-keyed byte store.
type KV interface {
	// Get returns the value for key, with ok=false when the key is absent.
	Get(key string) (val []byte, ok bool, err error)
	Set(key string, val []byte) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
	// Keys lists every key, sorted.
	Keys(ctx context.Context) []string
}

// Dump reads every key of kv into a map of raw string values.
func Dump(ctx context.Context, kv KV) (map[string]string, error) {
	out := make(map[string]string)
	for _, k := range kv.Keys(ctx) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, ok, err := kv.Get(k)
		if err != nil {
			return nil, err
		}
		if ok {
			out[k] = string(v)
		}
	}
	return out, nil
}

func sortedKeys(keys []string) []string {
	sort.Strings(keys)
	return keys
}
