package store

import (
	"bytes"
	"sync"

	"github.com/google/btree"
)

type btreeItem struct {
	key   []byte
	value []byte
}

func (i btreeItem) Less(than btree.Item) bool {
	return bytes.Compare(i.key, than.(btreeItem).key) < 0
}

// MemBTree is an in-memory ordered map guarded by a single RWMutex.
type MemBTree struct {
	mu   sync.RWMutex
	tree *btree.BTree
}

// NewMemBTree creates an empty in-memory store.
func NewMemBTree() *MemBTree {
	return &MemBTree{tree: btree.New(32)}
}

func (s *MemBTree) Init() error { return nil }

func (s *MemBTree) Get(key []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.tree.Get(btreeItem{key: key})

	return nil
}

func (s *MemBTree) Set(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The engine reuses key/value buffers between operations.
	item := btreeItem{
		key:   append([]byte(nil), key...),
		value: append([]byte(nil), value...),
	}
	s.tree.ReplaceOrInsert(item)

	return nil
}

func (s *MemBTree) Close() error { return nil }

// Len reports the number of distinct stored keys.
func (s *MemBTree) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.tree.Len()
}
