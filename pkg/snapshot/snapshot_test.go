package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/fakalang/faka/pkg/interpreter/fault"
	"github.com/fakalang/faka/pkg/interpreter/variable"
	"github.com/fakalang/faka/pkg/storage"
	"github.com/fakalang/faka/pkg/storage/dbconfig"
	"github.com/stretchr/testify/require"
)

func newVars(t *testing.T, vs ...variable.Variable) *variable.Store {
	s := variable.NewStore()
	for _, v := range vs {
		s.Bind(v)
	}
	return s
}

func mustVar(t *testing.T, name string, kind variable.Kind, value string) variable.Variable {
	v, err := variable.New(name, kind, value)
	require.NoError(t, err)
	return v
}

func testSaveRestore(t *testing.T, s storage.Store) {
	vars := newVars(t,
		mustVar(t, "b", variable.TextT, "hello"),
		mustVar(t, "a", variable.IntegerT, "-7"),
		mustVar(t, "ok", variable.BooleanT, "true"),
	)
	saved, err := Save(s, "first", vars)
	require.NoError(t, err)
	require.Equal(t, "first", saved.Name)

	restored := variable.NewStore()
	restored.Bind(variable.NewInt("junk", 1))
	snap, err := Restore(s, "first", restored)
	require.NoError(t, err)
	require.Equal(t, vars.Snapshot(), restored.Snapshot())
	require.Equal(t, vars.Snapshot(), snap.Variables)
	require.True(t, saved.CreatedAt.Equal(snap.CreatedAt))

	_, err = Restore(s, "second", restored)
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, 3, restored.Len())
}

func testList(t *testing.T, s storage.Store) {
	list, err := List(s)
	require.NoError(t, err)
	require.Empty(t, list)

	require.NoError(t, s.Put([]byte("other"), []byte("not a snapshot")))
	for _, name := range []string{"zz", "aa", "mm"} {
		_, err := Save(s, name, newVars(t, variable.NewInt("x", 1)))
		require.NoError(t, err)
	}
	list, err = List(s)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, name := range []string{"aa", "mm", "zz"} {
		require.Equal(t, name, list[i].Name)
	}

	require.NoError(t, Delete(s, "mm"))
	require.ErrorIs(t, Delete(s, "mm"), ErrNotFound)
	list, err = List(s)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func testCorrupted(t *testing.T, s storage.Store) {
	require.NoError(t, s.Put(Key("bad"), []byte(`{"name":"bad","variables":[{"name":"x","kind":"int","value":"abc"}]}`)))
	vars := newVars(t, variable.NewInt("keep", 1))
	_, err := Restore(s, "bad", vars)
	require.ErrorIs(t, err, variable.ErrInvalidInt)
	require.Equal(t, fault.Type, fault.KindOf(err))
	_, ok := vars.Get("keep")
	require.True(t, ok)

	require.NoError(t, s.Put(Key("broken"), []byte("{")))
	_, err = Get(s, "broken")
	require.ErrorContains(t, err, "failed to decode snapshot")
	_, err = List(s)
	require.ErrorContains(t, err, "snapshot:b")
}

func TestAllDBs(t *testing.T) {
	backends := map[string]func(t *testing.T) storage.Store{
		"Memory": func(t *testing.T) storage.Store { return storage.NewMemoryStore() },
		"LevelDB": func(t *testing.T) storage.Store {
			s, err := storage.NewStore(dbconfig.DBConfiguration{
				Type:           dbconfig.LevelDB,
				LevelDBOptions: dbconfig.LevelDBOptions{DataDirectoryPath: t.TempDir()},
			})
			require.NoError(t, err)
			return s
		},
		"BoltDB": func(t *testing.T) storage.Store {
			s, err := storage.NewStore(dbconfig.DBConfiguration{
				Type:          dbconfig.BoltDB,
				BoltDBOptions: dbconfig.BoltDBOptions{FilePath: filepath.Join(t.TempDir(), "snap.bolt")},
			})
			require.NoError(t, err)
			return s
		},
	}
	tests := map[string]func(*testing.T, storage.Store){
		"SaveRestore": testSaveRestore,
		"List":        testList,
		"Corrupted":   testCorrupted,
	}
	for dbName, create := range backends {
		for testName, test := range tests {
			t.Run(dbName+"/"+testName, func(t *testing.T) {
				s := create(t)
				test(t, s)
				require.NoError(t, s.Close())
			})
		}
	}
}

func TestInvalidName(t *testing.T) {
	s := storage.NewMemoryStore()
	for _, name := range []string{"", "two words", "tab\tname"} {
		_, err := Save(s, name, variable.NewStore())
		require.ErrorIs(t, err, ErrInvalidName)
		_, err = Get(s, name)
		require.ErrorIs(t, err, ErrInvalidName)
	}
}
