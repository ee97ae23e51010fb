package kvfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/yndnr/kvfile-go/pkg/codec"
)

type rectangle struct {
	Width  int `json:"width" yaml:"width" cbor:"width" codec:"width"`
	Length int `json:"length" yaml:"length" cbor:"length" codec:"length"`
}

func TestNew_DoesNotTouchFile(t *testing.T) {
	s, path := newTestStore(t, Auto(), codec.JSON)
	if s.Path() != path {
		t.Errorf("Path() = %q, want %q", s.Path(), path)
	}
	if s.Format() != codec.JSON {
		t.Errorf("Format() = %q, want json", s.Format())
	}
	if s.Policy().Mode() != AutoDump {
		t.Errorf("Policy().Mode() = %v, want auto", s.Policy().Mode())
	}
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("file exists after New: %v", err)
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "x.db"), Auto(), codec.Format("toml"))
	if !errors.Is(err, ErrSerialization) {
		t.Fatalf("New error = %v, want ErrSerialization", err)
	}
	if !errors.Is(err, codec.ErrUnknownFormat) {
		t.Fatalf("New error = %v, want wrapped ErrUnknownFormat", err)
	}
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	for _, f := range codec.Formats() {
		t.Run(string(f), func(t *testing.T) {
			s, _ := newTestStore(t, Auto(), f)

			if err := s.Set("key1", 2023); err != nil {
				t.Fatalf("Set(int): %v", err)
			}
			if err := s.Set("key2", 1.5); err != nil {
				t.Fatalf("Set(float): %v", err)
			}
			if err := s.Set("key3", "hello world"); err != nil {
				t.Fatalf("Set(string): %v", err)
			}
			if err := s.Set("key4", []int{1, 2, 3}); err != nil {
				t.Fatalf("Set(slice): %v", err)
			}
			if err := s.Set("key5", rectangle{Width: 4, Length: 10}); err != nil {
				t.Fatalf("Set(struct): %v", err)
			}

			if v, ok := Get[int](s, "key1"); !ok || v != 2023 {
				t.Errorf("Get[int](key1) = %d, %v, want 2023, true", v, ok)
			}
			if v, ok := Get[float64](s, "key2"); !ok || v != 1.5 {
				t.Errorf("Get[float64](key2) = %v, %v, want 1.5, true", v, ok)
			}
			if v, ok := Get[string](s, "key3"); !ok || v != "hello world" {
				t.Errorf("Get[string](key3) = %q, %v", v, ok)
			}
			if v, ok := Get[[]int](s, "key4"); !ok || !reflect.DeepEqual(v, []int{1, 2, 3}) {
				t.Errorf("Get[[]int](key4) = %v, %v", v, ok)
			}
			if v, ok := Get[rectangle](s, "key5"); !ok || v != (rectangle{Width: 4, Length: 10}) {
				t.Errorf("Get[rectangle](key5) = %+v, %v", v, ok)
			}

			// Overwrite with a different type.
			if err := s.Set("key1", "updated"); err != nil {
				t.Fatalf("Set(overwrite): %v", err)
			}
			if v, ok := Get[string](s, "key1"); !ok || v != "updated" {
				t.Errorf("Get[string](key1) = %q, %v, want updated", v, ok)
			}
			if s.Len() != 5 {
				t.Errorf("Len() = %d, want 5", s.Len())
			}
		})
	}
}

func TestStore_GetMissingAndWrongType(t *testing.T) {
	s, _ := newTestStore(t, UponRequest(), codec.JSON)

	if _, ok := Get[int](s, "missing"); ok {
		t.Error("Get(missing) reported present")
	}

	if err := s.Set("name", "alice"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok := Get[int](s, "name"); ok {
		t.Errorf("Get[int](name) = %d, true, want absent", v)
	}
	var dst string
	if !s.GetInto("name", &dst) || dst != "alice" {
		t.Errorf("GetInto(name) = %q, want alice", dst)
	}
}

func TestStore_ExistsKeysLen(t *testing.T) {
	s, _ := newTestStore(t, UponRequest(), codec.JSON)

	if s.Len() != 0 || len(s.Keys()) != 0 {
		t.Fatalf("empty store has Len=%d Keys=%v", s.Len(), s.Keys())
	}

	_ = s.Set("a", 1)
	_ = s.Set("b", 2)
	if _, err := s.ListCreate("l"); err != nil {
		t.Fatalf("ListCreate: %v", err)
	}

	if !s.Exists("a") || !s.Exists("l") {
		t.Error("Exists should report both scalars and lists")
	}
	if s.Exists("zzz") {
		t.Error("Exists(zzz) = true")
	}
	if got, want := sortedKeys(s), []string{"a", "b", "l"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestStore_MutualExclusion(t *testing.T) {
	s, _ := newTestStore(t, UponRequest(), codec.JSON)

	if err := s.Set("x", 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := s.ListCreate("x"); err != nil {
		t.Fatalf("ListCreate: %v", err)
	}
	if !s.Exists("x") || !s.ListExists("x") {
		t.Fatal("list x should exist")
	}
	if _, ok := Get[int](s, "x"); ok {
		t.Fatal("scalar x survived ListCreate")
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}

	if _, err := s.ListAppend("x", 7); err != nil {
		t.Fatalf("ListAppend: %v", err)
	}
	if err := s.Set("x", "scalar"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if s.ListExists("x") || s.ListLen("x") != 0 {
		t.Fatal("list x survived Set")
	}
	if v, ok := Get[string](s, "x"); !ok || v != "scalar" {
		t.Fatalf("Get(x) = %q, %v", v, ok)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

func TestStore_Remove(t *testing.T) {
	s, _ := newTestStore(t, Auto(), codec.JSON)

	removed, err := s.Remove("missing")
	if err != nil || removed {
		t.Fatalf("Remove(missing) = %v, %v, want false, nil", removed, err)
	}

	_ = s.Set("k", 1)
	if _, err := s.ListCreate("l"); err != nil {
		t.Fatalf("ListCreate: %v", err)
	}

	if removed, err := s.Remove("k"); err != nil || !removed {
		t.Fatalf("Remove(k) = %v, %v, want true, nil", removed, err)
	}
	if removed, err := s.Remove("l"); err != nil || !removed {
		t.Fatalf("Remove(l) = %v, %v, want true, nil", removed, err)
	}
	if s.Exists("k") || s.Exists("l") {
		t.Fatal("keys still exist after Remove")
	}
}

func TestStore_PersistenceRoundTrip(t *testing.T) {
	for _, f := range codec.Formats() {
		for _, compressed := range []bool{false, true} {
			name := string(f)
			var opts []Option
			if compressed {
				name += "+zstd"
				opts = append(opts, WithCompression())
			}
			t.Run(name, func(t *testing.T) {
				s, path := newTestStore(t, UponRequest(), f, opts...)

				_ = s.Set("int", 42)
				_ = s.Set("str", "hello")
				_ = s.Set("rect", rectangle{Width: 3, Length: 5})
				ext, err := s.ListCreate("nums")
				if err != nil {
					t.Fatalf("ListCreate: %v", err)
				}
				if err := ext.Append(1).Append(2).Extend(3, 4).Err(); err != nil {
					t.Fatalf("extend chain: %v", err)
				}
				if _, err := s.ListCreate("empty"); err != nil {
					t.Fatalf("ListCreate(empty): %v", err)
				}

				if err := s.Dump(); err != nil {
					t.Fatalf("Dump: %v", err)
				}

				loaded, err := Load(path, UponRequest(), f, opts...)
				if err != nil {
					t.Fatalf("Load: %v", err)
				}

				if got, want := sortedKeys(loaded), sortedKeys(s); !reflect.DeepEqual(got, want) {
					t.Fatalf("Keys() = %v, want %v", got, want)
				}
				if v, ok := Get[int](loaded, "int"); !ok || v != 42 {
					t.Errorf("int = %d, %v", v, ok)
				}
				if v, ok := Get[string](loaded, "str"); !ok || v != "hello" {
					t.Errorf("str = %q, %v", v, ok)
				}
				if v, ok := Get[rectangle](loaded, "rect"); !ok || v != (rectangle{Width: 3, Length: 5}) {
					t.Errorf("rect = %+v, %v", v, ok)
				}
				if n := loaded.ListLen("nums"); n != 4 {
					t.Fatalf("ListLen(nums) = %d, want 4", n)
				}
				for i := 0; i < 4; i++ {
					if v, ok := ListGet[int](loaded, "nums", i); !ok || v != i+1 {
						t.Errorf("nums[%d] = %d, %v, want %d", i, v, ok, i+1)
					}
				}
				if !loaded.ListExists("empty") || loaded.ListLen("empty") != 0 {
					t.Errorf("empty list not restored")
				}
			})
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.db"), Auto(), codec.JSON)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("Load(missing) error = %v, want ErrIO", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Load(missing) error = %v, want wrapped fs.ErrNotExist", err)
	}
	if KindOf(err) != KindIO {
		t.Fatalf("KindOf = %v, want io", KindOf(err))
	}

	corrupt := filepath.Join(dir, "corrupt.db")
	if err := os.WriteFile(corrupt, []byte("\x00\x01{{{not a snapshot"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	for _, f := range codec.Formats() {
		_, err := Load(corrupt, Auto(), f)
		if !errors.Is(err, ErrSerialization) {
			t.Errorf("Load(corrupt, %s) error = %v, want ErrSerialization", f, err)
		}
		if KindOf(err) != KindSerialization {
			t.Errorf("KindOf = %v, want serialization", KindOf(err))
		}
	}
}

func TestLoad_TrailingGarbage(t *testing.T) {
	for _, f := range codec.Formats() {
		t.Run(string(f), func(t *testing.T) {
			s, path := newTestStore(t, Auto(), f)
			if err := s.Set("k", "v"); err != nil {
				t.Fatalf("Set: %v", err)
			}
			data := append(readFile(t, path), "GARBAGE\xff\x00"...)
			if err := os.WriteFile(path, data, 0644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}

			_, err := Load(path, Never(), f)
			if !errors.Is(err, ErrSerialization) {
				t.Fatalf("Load error = %v, want ErrSerialization", err)
			}
		})
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	for _, f := range codec.Formats() {
		s, err := Load(path, Never(), f)
		if !errors.Is(err, ErrSerialization) {
			t.Errorf("Load(empty, %s) = %v, %v, want ErrSerialization", f, s, err)
		}
	}
}

func TestLoad_WrongFormat(t *testing.T) {
	s, path := newTestStore(t, Auto(), codec.CBOR)
	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if _, err := Load(path, Auto(), codec.JSON); !errors.Is(err, ErrSerialization) {
		t.Fatalf("Load as json error = %v, want ErrSerialization", err)
	}
}

func TestLoadReadOnly(t *testing.T) {
	s, path := newTestStore(t, Auto(), codec.YAML)
	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	before := readFile(t, path)

	ro, err := LoadReadOnly(path, codec.YAML)
	if err != nil {
		t.Fatalf("LoadReadOnly: %v", err)
	}
	if ro.Policy().Mode() != NeverDump {
		t.Fatalf("Policy = %v, want never", ro.Policy())
	}
	if err := ro.Set("other", 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := ro.Dump(); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if err := ro.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if after := readFile(t, path); string(after) != string(before) {
		t.Fatalf("read-only store modified file")
	}
}

func TestStore_SetUnencodable(t *testing.T) {
	s, _ := newTestStore(t, Auto(), codec.JSON)
	_ = s.Set("k", 1)
	before := stateOf(s)

	err := s.Set("k", make(chan int))
	if !errors.Is(err, ErrSerialization) {
		t.Fatalf("Set(chan) error = %v, want ErrSerialization", err)
	}
	assertState(t, s, before)
}

func TestStore_CloseFlushes(t *testing.T) {
	tests := []struct {
		name      string
		policy    DumpPolicy
		wantWrite bool
	}{
		{"auto", Auto(), true},
		{"periodic", Periodic(24 * time.Hour), true},
		{"request", UponRequest(), false},
		{"never", Never(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, path := newTestStore(t, tt.policy, codec.JSON)
			f := withFaultFS(s)
			_ = s.Set("k", 1)
			writesBefore := f.renames

			if err := s.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}
			wrote := f.renames > writesBefore
			if wrote != tt.wantWrite {
				t.Fatalf("Close wrote = %v, want %v", wrote, tt.wantWrite)
			}
			if tt.wantWrite {
				loaded, err := Load(path, Never(), codec.JSON)
				if err != nil {
					t.Fatalf("Load: %v", err)
				}
				if v, ok := Get[int](loaded, "k"); !ok || v != 1 {
					t.Fatalf("k = %d, %v after close", v, ok)
				}
			}

			// Idempotent.
			renames := f.renames
			if err := s.Close(); err != nil {
				t.Fatalf("second Close: %v", err)
			}
			if f.renames != renames {
				t.Fatal("second Close dumped again")
			}
		})
	}
}

func TestStore_CloseSwallowsFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-dir", "test.db")
	s, err := New(path, Auto(), codec.JSON)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned %v, want nil", err)
	}
}
