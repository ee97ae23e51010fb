package benchmark

import (
	"fmt"
	"testing"

	"github.com/yndnr/kvfile-go/pkg/codec"
	"github.com/yndnr/kvfile-go/pkg/kvfile"
)

// BenchmarkSet measures in-memory writes with no dumping.
func BenchmarkSet(b *testing.B) {
	for _, format := range codec.Formats() {
		b.Run(string(format), func(b *testing.B) {
			s := newStore(b, kvfile.Never(), format)
			rec := newRecord(0)

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := s.Set(fmt.Sprintf("key-%d", i%1000), rec); err != nil {
					b.Fatalf("Set() error = %v", err)
				}
			}
		})
	}
}

// BenchmarkGet measures typed reads.
func BenchmarkGet(b *testing.B) {
	for _, format := range codec.Formats() {
		b.Run(string(format), func(b *testing.B) {
			s := newStore(b, kvfile.Never(), format)
			prefill(b, s, 1000)

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, ok := kvfile.Get[record](s, fmt.Sprintf("key-%d", i%1000)); !ok {
					b.Fatal("Get() missed")
				}
			}
		})
	}
}

// BenchmarkSetAutoDump measures writes that rewrite the whole file each time.
func BenchmarkSetAutoDump(b *testing.B) {
	for _, count := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("keys_%d", count), func(b *testing.B) {
			s := newStore(b, kvfile.UponRequest(), codec.MsgPack)
			prefill(b, s, count)
			if err := s.Dump(); err != nil {
				b.Fatalf("Dump() error = %v", err)
			}

			// Reopen under AutoDump with the prefilled file.
			auto, err := kvfile.Load(s.Path(), kvfile.Auto(), codec.MsgPack)
			if err != nil {
				b.Fatalf("Load() error = %v", err)
			}
			defer auto.Close()

			rec := newRecord(0)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := auto.Set("hot", rec); err != nil {
					b.Fatalf("Set() error = %v", err)
				}
			}
		})
	}
}

// BenchmarkListAppend measures appends under the upon-request policy.
func BenchmarkListAppend(b *testing.B) {
	s := newStore(b, kvfile.UponRequest(), codec.CBOR)
	if _, err := s.ListCreate("list"); err != nil {
		b.Fatalf("ListCreate() error = %v", err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := s.ListAppend("list", i); err != nil {
			b.Fatalf("ListAppend() error = %v", err)
		}
	}
}
