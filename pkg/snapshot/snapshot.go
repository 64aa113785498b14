/*
Package snapshot saves interpreter variable stores into a storage.Store and
restores them back. Snapshots are JSON documents kept under the
"snapshot:<name>" keys.
*/
package snapshot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fakalang/faka/pkg/interpreter/variable"
	"github.com/fakalang/faka/pkg/storage"
	json "github.com/nspcc-dev/go-ordered-json"
)

// KeyPrefix is the prefix of all snapshot keys in the store.
const KeyPrefix = "snapshot:"

var (
	// ErrNotFound is returned for unknown snapshot names.
	ErrNotFound = errors.New("snapshot not found")
	// ErrInvalidName is returned for empty names and names containing
	// whitespace.
	ErrInvalidName = errors.New("invalid snapshot name")
)

// Snapshot is a named copy of a variable store.
type Snapshot struct {
	Name      string              `json:"name"`
	CreatedAt time.Time           `json:"created-at"`
	Variables []variable.Variable `json:"variables"`
}

// Key returns the store key for the snapshot with the given name.
func Key(name string) []byte {
	return []byte(KeyPrefix + name)
}

func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, " \t\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Save stores the current contents of vars under the given name replacing any
// previous snapshot with the same name.
func Save(s storage.Store, name string, vars *variable.Store) (*Snapshot, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	snap := &Snapshot{
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Variables: vars.Snapshot(),
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := s.Put(Key(name), data); err != nil {
		return nil, fmt.Errorf("failed to save snapshot %s: %w", name, err)
	}
	return snap, nil
}

// Get returns the snapshot with the given name.
func Get(s storage.Store, name string) (*Snapshot, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	data, err := s.Get(Key(name))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", name, err)
	}
	return decode(data)
}

// Restore replaces the contents of vars with the snapshot with the given
// name. Every variable is checked before anything is replaced.
func Restore(s storage.Store, name string, vars *variable.Store) (*Snapshot, error) {
	snap, err := Get(s, name)
	if err != nil {
		return nil, err
	}
	if err := vars.Restore(snap.Variables); err != nil {
		return nil, fmt.Errorf("snapshot %s is corrupted: %w", name, err)
	}
	return snap, nil
}

// Delete removes the snapshot with the given name.
func Delete(s storage.Store, name string) error {
	if _, err := Get(s, name); err != nil {
		return err
	}
	return s.Delete(Key(name))
}

// List returns all stored snapshots ordered by name.
func List(s storage.Store) ([]*Snapshot, error) {
	var (
		res    []*Snapshot
		decErr error
	)
	err := s.Seek([]byte(KeyPrefix), func(k, v []byte) bool {
		snap, err := decode(v)
		if err != nil {
			decErr = fmt.Errorf("%s: %w", k, err)
			return false
		}
		res = append(res, snap)
		return true
	})
	if err == nil {
		err = decErr
	}
	return res, err
}

func decode(data []byte) (*Snapshot, error) {
	snap := new(Snapshot)
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}
