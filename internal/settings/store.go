package settings

import (
	"errors"
	"sort"
)

// ErrRecordNotFound is returned by a Store when no record has been saved
// under the requested name yet.
var ErrRecordNotFound = errors.New("settings record not found")

// Store persists named records of typed key/value pairs.
type Store interface {
	Get(record string) (Record, error)
	Put(record string, values Record) error
	Erase(record string) error
}

// Record is one flat settings record. Values are string, int or bool.
type Record map[string]any

func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

func (r Record) PutString(key, v string) { r[key] = v }
func (r Record) PutInt(key string, v int) { r[key] = v }
func (r Record) PutBool(key string, v bool) { r[key] = v }

// String returns the value for key; ok is false when the key is absent or
// holds another type.
func (r Record) String(key string) (string, bool) {
	v, ok := r[key].(string)
	return v, ok
}

func (r Record) Int(key string) (int, bool) {
	switch v := r[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

func (r Record) Bool(key string) (bool, bool) {
	v, ok := r[key].(bool)
	return v, ok
}

// Keys returns the record keys in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
