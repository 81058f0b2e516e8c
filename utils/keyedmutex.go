package utils

import "sync"

// KeyedMutex serializes work per string key. Attendance writes use it keyed
// by (userID, date) so concurrent events for the same day cannot interleave
// their read-modify-write. Entries are retained for the process lifetime;
// the key space (one per user per day) stays small.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (km *KeyedMutex) Lock(key string) {
	km.mu.Lock()
	l, ok := km.locks[key]
	if !ok {
		l = &sync.Mutex{}
		km.locks[key] = l
	}
	km.mu.Unlock()
	l.Lock()
}

func (km *KeyedMutex) Unlock(key string) {
	km.mu.Lock()
	l, ok := km.locks[key]
	km.mu.Unlock()
	if ok {
		l.Unlock()
	}
}
