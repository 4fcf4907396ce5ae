// Package lock provides keyed mutexes for serializing work per user or
// per (chat, user) pair.
package lock

import (
	"fmt"
	"sync"
)

// KeyedLock hands out one mutex per key. Entries are never evicted; the
// key space is bounded by the active user population.
type KeyedLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New() *KeyedLock {
	return &KeyedLock{locks: make(map[string]*sync.Mutex)}
}

func (k *KeyedLock) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

func (k *KeyedLock) Lock(key string) {
	k.get(key).Lock()
}

func (k *KeyedLock) Unlock(key string) {
	k.get(key).Unlock()
}

// UserKey serializes balance operations for one user across all chats.
func UserKey(userID int64) string {
	return fmt.Sprintf("u:%d", userID)
}

// BetKey serializes bet lifecycle operations for one (chat, user) pair.
func BetKey(chatID, userID int64) string {
	return fmt.Sprintf("b:%d:%d", chatID, userID)
}
