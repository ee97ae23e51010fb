package kvfile

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/yndnr/kvfile-go/pkg/codec"
)

var errInjected = errors.New("injected failure")

// faultFS wraps the real file system and fails selected steps on demand.
type faultFS struct {
	osFS
	failWrite  bool
	failRename bool

	writes   int
	renames  int
	lastTemp string
}

func (f *faultFS) WriteFile(name string, data []byte) error {
	f.writes++
	f.lastTemp = name
	if f.failWrite {
		return errInjected
	}
	return f.osFS.WriteFile(name, data)
}

func (f *faultFS) Rename(oldpath, newpath string) error {
	if f.failRename {
		return errInjected
	}
	f.renames++
	return f.osFS.Rename(oldpath, newpath)
}

func newTestStore(t *testing.T, policy DumpPolicy, format codec.Format, opts ...Option) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := New(path, policy, format, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, path
}

// withFaultFS swaps the store's file system for a faultFS.
func withFaultFS(s *Store) *faultFS {
	f := &faultFS{}
	s.dumper.fs = f
	return f
}

type state struct {
	Values map[string]string
	Lists  map[string][]string
}

func stateOf(s *Store) state {
	st := state{
		Values: make(map[string]string, len(s.values)),
		Lists:  make(map[string][]string, len(s.lists)),
	}
	for k, v := range s.values {
		st.Values[k] = string(v)
	}
	for k, list := range s.lists {
		items := make([]string, len(list))
		for i, v := range list {
			items[i] = string(v)
		}
		st.Lists[k] = items
	}
	return st
}

func assertState(t *testing.T, s *Store, want state) {
	t.Helper()
	if got := stateOf(s); !reflect.DeepEqual(got, want) {
		t.Fatalf("state changed:\n got  %+v\n want %+v", got, want)
	}
}

func sortedKeys(s *Store) []string {
	keys := s.Keys()
	sort.Strings(keys)
	return keys
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return data
}

func tempFiles(t *testing.T, path string) []string {
	t.Helper()
	matches, err := filepath.Glob(path + ".temp.*")
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	return matches
}
