package merge

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/minio/highwayhash"
)

var scratchKey = []byte("pakmerge scratch namespacing key")

// hashTarget returns the highwayhash-64 of a merge target path
func hashTarget(target string) (uint64, error) {
	hash, err := highwayhash.New64(scratchKey)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write([]byte(filepath.Clean(target)))
	return hash.Sum64(), err
}

// ScratchPath is the per-target scratch directory below mergeDir
func ScratchPath(mergeDir, scratchDir, target string) (string, error) {
	sum, err := hashTarget(target)
	if err != nil {
		return "", err
	}
	return filepath.Join(mergeDir, scratchDir, fmt.Sprintf("%016x", sum)), nil
}

// keyedMutex serializes work per key. Entries are dropped once unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

// Lock blocks until key is free and returns its unlock function
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
