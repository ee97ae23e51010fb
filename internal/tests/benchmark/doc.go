// Package benchmark provides performance benchmarks for kvfile.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Run only the dump benchmarks:
//
//	go test -bench=BenchmarkDump -benchmem -benchtime=5s ./internal/tests/benchmark/...
//
// Compare results:
//
//	benchstat old.txt new.txt
package benchmark
