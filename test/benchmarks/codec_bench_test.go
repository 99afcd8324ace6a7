package benchmarks

import (
	"context"
	"testing"

	"github.com/hengadev/typetext"
	"github.com/hengadev/typetext/test/testutils"
)

// BenchmarkSerialize measures the cached write path for each format.
func BenchmarkSerialize(b *testing.B) {
	engine := typetext.MustNew()
	customer := testutils.NewCustomer()

	for _, f := range []typetext.Format{typetext.JSON, typetext.JSV} {
		b.Run(f.String(), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := engine.Serialize(customer, f); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkDeserialize measures the cached read path for each format.
func BenchmarkDeserialize(b *testing.B) {
	ctx := context.Background()
	engine := typetext.MustNew()
	customer := testutils.NewCustomer()

	for _, f := range []typetext.Format{typetext.JSON, typetext.JSV} {
		text, err := engine.Serialize(customer, f)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(f.String(), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := typetext.DeserializeAs[testutils.Customer](ctx, engine, text, f); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkParallelSerialize exercises lock-free cache hits from many goroutines.
func BenchmarkParallelSerialize(b *testing.B) {
	engine := typetext.MustNew()
	customer := testutils.NewCustomer()

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := engine.Serialize(customer, typetext.JSV); err != nil {
				b.Error(err)
			}
		}
	})
}

// BenchmarkFirstUse includes the codec build on every iteration.
func BenchmarkFirstUse(b *testing.B) {
	customer := testutils.NewCustomer()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		engine := typetext.MustNew()
		if _, err := engine.Serialize(customer, typetext.JSON); err != nil {
			b.Fatal(err)
		}
	}
}
