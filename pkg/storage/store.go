/*
Package storage provides key-value stores used to persist interpreter
snapshots.
*/
package storage

import (
	"errors"
	"fmt"

	"github.com/fakalang/faka/pkg/storage/dbconfig"
)

// ErrKeyNotFound is an error returned by Store implementations
// when a certain key is not found.
var ErrKeyNotFound = errors.New("key not found")

// ErrReadOnly is returned when modifying a read-only store.
var ErrReadOnly = errors.New("storage is read-only")

// Store is the underlying KV backend for snapshots.
type Store interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	// Delete removes the key, deleting a missing key is not an error.
	Delete(key []byte) error
	// Seek calls f for every KV pair with the given key prefix in ascending
	// key order until f returns false. Key and value slices are only valid
	// until the next call to f and should not be modified.
	Seek(prefix []byte, f func(k, v []byte) bool) error
	Close() error
}

// NewStore creates storage with preselected in configuration database type.
func NewStore(cfg dbconfig.DBConfiguration) (Store, error) {
	var store Store
	var err error
	switch cfg.Type {
	case dbconfig.LevelDB:
		store, err = NewLevelDBStore(cfg.LevelDBOptions)
	case dbconfig.InMemoryDB:
		store = NewMemoryStore()
	case dbconfig.BoltDB:
		store, err = NewBoltDBStore(cfg.BoltDBOptions)
	default:
		return nil, fmt.Errorf("unknown storage: %s", cfg.Type)
	}
	return store, err
}
