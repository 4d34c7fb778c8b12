package storage

import (
	"crypto"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// SimpleKV is an in-memory KV backed by a plain map. Key enumeration and
// hashing are deterministic (sorted by key).
type SimpleKV struct {
	internal map[string]interface{}
}

func NewSimpleKV() *SimpleKV {
	return &SimpleKV{internal: make(map[string]interface{})}
}

func (skv *SimpleKV) Get(key string) (interface{}, error) {
	value, ok := skv.internal[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return value, nil
}

func (skv *SimpleKV) Put(key string, value interface{}) error {
	skv.internal[key] = value
	return nil
}

func (skv *SimpleKV) Del(key string) error {
	_, ok := skv.internal[key]
	if !ok {
		return ErrKeyNotFound
	}
	delete(skv.internal, key)
	return nil
}

func (skv *SimpleKV) Len() int {
	return len(skv.internal)
}

func (skv *SimpleKV) Keys() []string {
	keys := make([]string, 0, len(skv.internal))
	for key := range skv.internal {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (skv *SimpleKV) String() string {
	ret := "{"
	for _, key := range skv.Keys() {
		ret += fmt.Sprintf("%s->%v,", key, skv.internal[key])
	}
	return ret + "}"
}

func (skv *SimpleKV) Hash() string {
	h := crypto.SHA256.New()
	for _, key := range skv.Keys() {
		if _, err := h.Write([]byte(key)); err != nil {
			panic(err)
		}
		bytes, err := json.Marshal(skv.internal[key])
		if err != nil {
			panic(err)
		}
		if _, err = h.Write(bytes); err != nil {
			panic(err)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
