package store

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDB is an embedded log-structured store.
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB creates or opens a LevelDB database under dir.
func OpenLevelDB(dir string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", dir, err)
	}

	return &LevelDB{db: db}, nil
}

func (s *LevelDB) Init() error { return nil }

func (s *LevelDB) Get(key []byte) error {
	_, err := s.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil
	}

	return err
}

func (s *LevelDB) Set(key, value []byte) error {
	return s.db.Put(key, value, nil)
}

func (s *LevelDB) Close() error {
	return s.db.Close()
}
