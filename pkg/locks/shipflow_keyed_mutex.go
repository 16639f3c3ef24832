// Package locks provides in-process serialization primitives.
package locks

import (
	"hash/fnv"
	"sync"
)

const defaultShards = 64

// KeyedMutex serializes work per string key. Keys are hashed onto a fixed
// set of shards, so unrelated keys may occasionally share a lock; that only
// costs latency, never correctness.
type KeyedMutex struct {
	shards []sync.Mutex
}

// NewKeyedMutex creates a keyed mutex with the given shard count.
func NewKeyedMutex(shards int) *KeyedMutex {
	if shards <= 0 {
		shards = defaultShards
	}
	return &KeyedMutex{shards: make([]sync.Mutex, shards)}
}

func (m *KeyedMutex) shard(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &m.shards[h.Sum32()%uint32(len(m.shards))]
}

// Lock acquires the shard for key.
func (m *KeyedMutex) Lock(key string) {
	m.shard(key).Lock()
}

// Unlock releases the shard for key.
func (m *KeyedMutex) Unlock(key string) {
	m.shard(key).Unlock()
}

// WithLock runs fn while holding the shard for key.
func (m *KeyedMutex) WithLock(key string, fn func() error) error {
	m.Lock(key)
	defer m.Unlock(key)
	return fn()
}
