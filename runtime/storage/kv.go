package storage

import (
	"errors"
)

var ErrKeyNotFound error = errors.New("key not found")

// KV is the contract-state store. Each contract instance owns its own KV;
// nothing outside the owning contract touches it.
type KV interface {
	Get(key string) (interface{}, error)
	Put(key string, value interface{}) error
	Del(key string) error
	Len() int
	Keys() []string
	Hash() string
}

type KVFactory func() KV

func CreateSimpleKV() KV {
	return NewSimpleKV()
}
