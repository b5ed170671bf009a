// FILE: lixenwraith/beacon/benchmark_test.go
package beacon

import (
	"testing"
)

func BenchmarkRecord(b *testing.B) {
	logger, err := NewBuilder().
		Directory(b.TempDir()).
		DiagTarget(DiagDiscard).
		Build()
	if err != nil {
		b.Fatal(err)
	}
	defer logger.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := logger.Record("B1", "-42"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRecordParallel(b *testing.B) {
	logger, err := NewBuilder().
		Directory(b.TempDir()).
		DiagTarget(DiagDiscard).
		Build()
	if err != nil {
		b.Fatal(err)
	}
	defer logger.Close()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = logger.Record("B1", "-42")
		}
	})
}
