package kvfile

import (
	"log/slog"
	"os"

	"github.com/yndnr/kvfile-go/pkg/codec"
)

// Store is an in-memory key-value map persisted to one file.
//
// A Store is not safe for concurrent use.
type Store struct {
	values map[string][]byte
	lists  map[string][][]byte

	path   string
	ser    *codec.Serializer
	dumper *dumper
	logger *slog.Logger

	closed bool
}

// New creates an empty store bound to path. The file is neither read nor
// written until the policy asks for a dump.
func New(path string, policy DumpPolicy, format codec.Format, opts ...Option) (*Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ser, err := codec.NewSerializer(format, o.serializer...)
	if err != nil {
		return nil, serializationError("new", err)
	}

	return newStore(path, policy, ser, make(map[string][]byte), make(map[string][][]byte), o), nil
}

// Load reads and decodes the file at path.
//
// It fails with an IO error if the file cannot be read and with a
// serialization error if its content does not decode in the given format.
func Load(path string, policy DumpPolicy, format codec.Format, opts ...Option) (*Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ser, err := codec.NewSerializer(format, o.serializer...)
	if err != nil {
		return nil, serializationError("load", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError("load", err)
	}

	values, lists, err := ser.DecodeSnapshot(data)
	if err != nil {
		return nil, serializationError("load", err)
	}

	s := newStore(path, policy, ser, values, lists, o)
	s.logger.Debug("store loaded",
		"path", path,
		"format", format,
		"values", len(values),
		"lists", len(lists))
	return s, nil
}

// LoadReadOnly loads the file at path with the NeverDump policy.
func LoadReadOnly(path string, format codec.Format, opts ...Option) (*Store, error) {
	return Load(path, Never(), format, opts...)
}

func newStore(path string, policy DumpPolicy, ser *codec.Serializer, values map[string][]byte, lists map[string][][]byte, o options) *Store {
	return &Store{
		values: values,
		lists:  lists,
		path:   path,
		ser:    ser,
		dumper: newDumper(path, policy, ser, o),
		logger: o.logger,
	}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Policy returns the dump policy.
func (s *Store) Policy() DumpPolicy { return s.dumper.policy }

// Format returns the serialization format.
func (s *Store) Format() codec.Format { return s.ser.Format() }

// Dump writes the whole store to the backing file regardless of policy,
// except under NeverDump where it does nothing.
func (s *Store) Dump() error {
	return s.dumper.dump(s.values, s.lists)
}

// Close performs a final best-effort dump for AutoDump and PeriodicDump
// stores. A failed final dump is logged, never returned. Close is
// idempotent and always returns nil.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if !s.dumper.policy.flushOnClose() {
		return nil
	}
	if err := s.Dump(); err != nil {
		s.logger.Warn("final dump on close failed",
			"path", s.path,
			"error", err)
	}
	return nil
}

// Set stores value under key, replacing any scalar or list of that name.
// If the resulting dump fails, the previous state of key is restored.
func (s *Store) Set(key string, value any) error {
	data, err := s.ser.EncodeValue(value)
	if err != nil {
		return serializationError("set", err)
	}

	prevList, hadList := s.lists[key]
	delete(s.lists, key)
	prev, hadPrev := s.values[key]
	s.values[key] = data

	if err := s.conditionalDump(); err != nil {
		if hadPrev {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		if hadList {
			s.lists[key] = prevList
		}
		s.rolledBack("set", key, err)
		return err
	}
	return nil
}

// Get returns the scalar stored under key decoded as V.
// It reports false if the key is missing or does not decode as V.
func Get[V any](s *Store, key string) (V, bool) {
	var v V
	if !s.GetInto(key, &v) {
		var zero V
		return zero, false
	}
	return v, true
}

// GetInto decodes the scalar stored under key into dst.
// It reports false if the key is missing or does not decode into dst.
func (s *Store) GetInto(key string, dst any) bool {
	data, ok := s.values[key]
	if !ok {
		return false
	}
	return s.ser.DecodeValue(data, dst)
}

// Exists reports whether key names a scalar or a list.
func (s *Store) Exists(key string) bool {
	if _, ok := s.values[key]; ok {
		return true
	}
	_, ok := s.lists[key]
	return ok
}

// Remove deletes the scalar or list named key. It reports whether anything
// was removed. If the resulting dump fails the entry is restored.
func (s *Store) Remove(key string) (bool, error) {
	if v, ok := s.values[key]; ok {
		delete(s.values, key)
		if err := s.conditionalDump(); err != nil {
			s.values[key] = v
			s.rolledBack("remove", key, err)
			return false, err
		}
		return true, nil
	}

	if list, ok := s.lists[key]; ok {
		delete(s.lists, key)
		if err := s.conditionalDump(); err != nil {
			s.lists[key] = list
			s.rolledBack("remove", key, err)
			return false, err
		}
		return true, nil
	}

	return false, nil
}

// Keys returns the scalar keys followed by the list keys.
// Order within each group is unspecified.
func (s *Store) Keys() []string {
	keys := make([]string, 0, s.Len())
	for k := range s.values {
		keys = append(keys, k)
	}
	for k := range s.lists {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of scalars plus the number of lists.
func (s *Store) Len() int {
	return len(s.values) + len(s.lists)
}

func (s *Store) conditionalDump() error {
	return s.dumper.conditionalDump(s.values, s.lists)
}

func (s *Store) rolledBack(op, key string, err error) {
	s.dumper.metrics.rollbacks.Inc()
	s.logger.Warn("mutation rolled back",
		"op", op,
		"key", key,
		"path", s.path,
		"error", err)
}
