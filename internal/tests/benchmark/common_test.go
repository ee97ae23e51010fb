package benchmark

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/kvfile-go/internal/telemetry/logger"
	"github.com/yndnr/kvfile-go/pkg/codec"
	"github.com/yndnr/kvfile-go/pkg/kvfile"
)

// KeyCounts defines the store sizes for benchmarking.
var KeyCounts = []int{100, 1000, 10000}

// record is a typical structured value.
type record struct {
	ID      string   `json:"id" yaml:"id" codec:"id" cbor:"id"`
	Owner   string   `json:"owner" yaml:"owner" codec:"owner" cbor:"owner"`
	Tags    []string `json:"tags" yaml:"tags" codec:"tags" cbor:"tags"`
	Counter int64    `json:"counter" yaml:"counter" codec:"counter" cbor:"counter"`
}

func newRecord(i int) record {
	return record{
		ID:      strings.ToLower(ulid.Make().String()),
		Owner:   fmt.Sprintf("user-%d", i%1000),
		Tags:    []string{"bench", "kvfile"},
		Counter: int64(i),
	}
}

// newStore creates a store in a temporary directory.
func newStore(b *testing.B, policy kvfile.DumpPolicy, format codec.Format, opts ...kvfile.Option) *kvfile.Store {
	b.Helper()
	path := filepath.Join(b.TempDir(), "bench.db")
	opts = append(opts, kvfile.WithLogger(logger.Discard()))
	s, err := kvfile.New(path, policy, format, opts...)
	if err != nil {
		b.Fatalf("kvfile.New() error = %v", err)
	}
	b.Cleanup(func() { s.Close() })
	return s
}

// prefill stores count records under key-<i>.
func prefill(b *testing.B, s *kvfile.Store, count int) {
	b.Helper()
	for i := 0; i < count; i++ {
		if err := s.Set(fmt.Sprintf("key-%d", i), newRecord(i)); err != nil {
			b.Fatalf("Set() error = %v", err)
		}
	}
}

// reportMemory reports current heap usage as a custom metric.
func reportMemory(b *testing.B, name string) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.HeapAlloc)/1024/1024, name+"_MB")
}
