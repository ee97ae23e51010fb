// Package kvfile provides an embeddable key-value store persisted to a
// single file.
//
// A Store keeps two in-memory maps: scalar values and ordered lists. A key
// lives in at most one of them; creating a list under a name drops any scalar
// of that name and setting a scalar drops any list.
//
// Values are encoded with a codec.Serializer chosen when the store is opened
// and stay opaque bytes until a caller decodes them again:
//
//	s, err := kvfile.New("app.db", kvfile.Auto(), codec.JSON)
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	if err := s.Set("answer", 42); err != nil {
//		return err
//	}
//	n, ok := kvfile.Get[int](s, "answer")
//
// Persistence:
//
// After every mutation the store consults its DumpPolicy:
//
//   - NeverDump: the file is never written (read-only use)
//   - AutoDump: every mutation writes the file
//   - DumpUponRequest: only Dump writes the file
//   - PeriodicDump: a mutation writes the file if the interval has passed
//
// A dump encodes the whole store, writes it to "<path>.temp.<unix-seconds>"
// and renames that file over the backing file, so the backing file always
// holds a complete snapshot. If the dump fails the mutation is rolled back
// and the error is returned; memory never runs ahead of a failed write.
//
// Concurrency:
//
// A Store is not safe for concurrent use. Callers sharing one across
// goroutines must serialize access themselves, iterators included.
package kvfile
