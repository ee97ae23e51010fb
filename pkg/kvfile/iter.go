package kvfile

import (
	"fmt"

	"github.com/yndnr/kvfile-go/pkg/codec"
)

// Entry is one scalar seen by an Iterator. Its value is decoded on demand.
type Entry struct {
	key string
	raw []byte
	ser *codec.Serializer
}

// Key returns the entry's key.
func (e Entry) Key() string { return e.key }

// Decode decodes the entry's value into dst. It reports false if the value
// does not decode into dst's type.
func (e Entry) Decode(dst any) bool { return e.ser.DecodeValue(e.raw, dst) }

// Value decodes the entry's value as V.
func Value[V any](e Entry) (V, bool) {
	return codec.Decode[V](e.ser, e.raw)
}

// Iterator walks the scalars present when it was created.
//
// The key set is captured at creation; values are shared with the store,
// not copied, so the store must not be mutated while iterating. An Iterator
// cannot be rewound; call Iter again for a fresh one.
type Iterator struct {
	entries []Entry
	pos     int
}

// Iter returns an iterator over all scalar entries in unspecified order.
// Lists are not included.
func (s *Store) Iter() *Iterator {
	entries := make([]Entry, 0, len(s.values))
	for k, v := range s.values {
		entries = append(entries, Entry{key: k, raw: v, ser: s.ser})
	}
	return &Iterator{entries: entries, pos: -1}
}

// Next advances to the next entry and reports whether one exists.
func (it *Iterator) Next() bool {
	if it.pos+1 >= len(it.entries) {
		it.pos = len(it.entries)
		return false
	}
	it.pos++
	return true
}

// Entry returns the current entry. It must only be called after Next
// returned true.
func (it *Iterator) Entry() Entry {
	return it.entries[it.pos]
}

// Item is one list element seen by a ListIterator.
type Item struct {
	raw []byte
	ser *codec.Serializer
}

// Decode decodes the element into dst.
func (i Item) Decode(dst any) bool { return i.ser.DecodeValue(i.raw, dst) }

// ItemValue decodes the element as V.
func ItemValue[V any](i Item) (V, bool) {
	return codec.Decode[V](i.ser, i.raw)
}

// ListIterator walks the elements of one list in order.
type ListIterator struct {
	items [][]byte
	ser   *codec.Serializer
	pos   int
}

// ListIter returns an iterator over the list's elements.
//
// It panics if the list does not exist; check ListExists first.
func (s *Store) ListIter(name string) *ListIterator {
	list, ok := s.lists[name]
	if !ok {
		panic(fmt.Sprintf("kvfile: list %q does not exist", name))
	}
	return &ListIterator{items: list[:len(list):len(list)], ser: s.ser, pos: -1}
}

// Next advances to the next element and reports whether one exists.
func (it *ListIterator) Next() bool {
	if it.pos+1 >= len(it.items) {
		it.pos = len(it.items)
		return false
	}
	it.pos++
	return true
}

// Item returns the current element.
func (it *ListIterator) Item() Item {
	return Item{raw: it.items[it.pos], ser: it.ser}
}

// Index returns the position of the current element.
func (it *ListIterator) Index() int {
	return it.pos
}
