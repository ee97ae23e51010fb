package kvfile

import (
	"bytes"
	"slices"
)

// ListCreate installs an empty list under name, replacing any scalar or list
// of that name, and returns an extender bound to it.
func (s *Store) ListCreate(name string) (*ListExtender, error) {
	prev, hadPrev := s.values[name]
	prevList, hadList := s.lists[name]
	delete(s.values, name)
	s.lists[name] = [][]byte{}

	if err := s.conditionalDump(); err != nil {
		if hadList {
			s.lists[name] = prevList
		} else {
			delete(s.lists, name)
		}
		if hadPrev {
			s.values[name] = prev
		}
		s.rolledBack("list create", name, err)
		return nil, err
	}
	return &ListExtender{store: s, name: name}, nil
}

// ListExists reports whether a list named name exists.
func (s *Store) ListExists(name string) bool {
	_, ok := s.lists[name]
	return ok
}

// ListAppend appends value to the list. See ListExtend.
func (s *Store) ListAppend(name string, value any) (*ListExtender, error) {
	return s.ListExtend(name, value)
}

// ListExtend appends values to the list in order.
//
// It returns (nil, nil) if the list does not exist. If the resulting dump
// fails, the list is truncated back to its previous length and the error is
// returned.
func (s *Store) ListExtend(name string, values ...any) (*ListExtender, error) {
	list, ok := s.lists[name]
	if !ok {
		return nil, nil
	}

	encoded := make([][]byte, 0, len(values))
	for _, v := range values {
		data, err := s.ser.EncodeValue(v)
		if err != nil {
			return nil, serializationError("list extend", err)
		}
		encoded = append(encoded, data)
	}

	n := len(list)
	s.lists[name] = append(list, encoded...)

	if err := s.conditionalDump(); err != nil {
		grown := s.lists[name]
		clear(grown[n:])
		s.lists[name] = grown[:n]
		s.rolledBack("list extend", name, err)
		return nil, err
	}
	return &ListExtender{store: s, name: name}, nil
}

// ListGet returns element index of the list decoded as V.
// It reports false if the list is missing, index is out of range or the
// element does not decode as V.
func ListGet[V any](s *Store, name string, index int) (V, bool) {
	var v V
	if !s.ListGetInto(name, index, &v) {
		var zero V
		return zero, false
	}
	return v, true
}

// ListGetInto decodes element index of the list into dst.
func (s *Store) ListGetInto(name string, index int, dst any) bool {
	list, ok := s.lists[name]
	if !ok || index < 0 || index >= len(list) {
		return false
	}
	return s.ser.DecodeValue(list[index], dst)
}

// ListLen returns the length of the list, or 0 if it does not exist.
func (s *Store) ListLen(name string) int {
	return len(s.lists[name])
}

// ListRemoveAll deletes the whole list and returns its previous length.
// A missing list yields (0, nil).
func (s *Store) ListRemoveAll(name string) (int, error) {
	list, ok := s.lists[name]
	if !ok {
		return 0, nil
	}

	delete(s.lists, name)
	if err := s.conditionalDump(); err != nil {
		s.lists[name] = list
		s.rolledBack("list remove all", name, err)
		return 0, err
	}
	return len(list), nil
}

// ListPop removes element index of the list and returns it decoded as V.
//
// It reports false with a nil error if the list is missing or index is out
// of range. If the dump fails the element is put back at index and the error
// is returned. An element that was removed but does not decode as V is
// reported as (zero, false, nil).
func ListPop[V any](s *Store, name string, index int) (V, bool, error) {
	var v V
	ok, err := s.ListPopInto(name, index, &v)
	if !ok || err != nil {
		var zero V
		return zero, false, err
	}
	return v, true, nil
}

// ListPopInto is the non-generic form of ListPop.
func (s *Store) ListPopInto(name string, index int, dst any) (bool, error) {
	list, ok := s.lists[name]
	if !ok || index < 0 || index >= len(list) {
		return false, nil
	}

	raw := list[index]
	s.lists[name] = slices.Delete(list, index, index+1)

	if err := s.conditionalDump(); err != nil {
		s.lists[name] = slices.Insert(s.lists[name], index, raw)
		s.rolledBack("list pop", name, err)
		return false, err
	}
	return s.ser.DecodeValue(raw, dst), nil
}

// ListRemoveValue removes the first element whose encoding equals the
// encoding of value. It reports whether an element was removed.
func (s *Store) ListRemoveValue(name string, value any) (bool, error) {
	list, ok := s.lists[name]
	if !ok {
		return false, nil
	}

	data, err := s.ser.EncodeValue(value)
	if err != nil {
		return false, serializationError("list remove value", err)
	}

	pos := slices.IndexFunc(list, func(item []byte) bool {
		return bytes.Equal(item, data)
	})
	if pos < 0 {
		return false, nil
	}

	raw := list[pos]
	s.lists[name] = slices.Delete(list, pos, pos+1)

	if err := s.conditionalDump(); err != nil {
		s.lists[name] = slices.Insert(s.lists[name], pos, raw)
		s.rolledBack("list remove value", name, err)
		return false, err
	}
	return true, nil
}

// ListExtender chains appends to one list:
//
//	err := s.Extender("l").Append(1).Append(2).Extend(3, 4).Err()
//
// Every call is a complete store mutation with its own conditional dump.
// The first failure stops the chain; later calls do nothing and Err
// returns that failure.
type ListExtender struct {
	store *Store
	name  string
	err   error
}

// Extender returns an extender bound to the list name. The list does not
// need to exist yet; appends to a missing list fail with ErrNoSuchList.
func (s *Store) Extender(name string) *ListExtender {
	return &ListExtender{store: s, name: name}
}

// Name returns the list the extender appends to.
func (e *ListExtender) Name() string { return e.name }

// Append appends one value.
func (e *ListExtender) Append(value any) *ListExtender {
	return e.Extend(value)
}

// Extend appends values in order.
func (e *ListExtender) Extend(values ...any) *ListExtender {
	if e.err != nil {
		return e
	}
	next, err := e.store.ListExtend(e.name, values...)
	switch {
	case err != nil:
		e.err = err
	case next == nil:
		e.err = ErrNoSuchList
	}
	return e
}

// Err returns the first error encountered by the chain.
func (e *ListExtender) Err() error { return e.err }
