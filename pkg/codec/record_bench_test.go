//go:build bench
// +build bench

package codec

import (
	"testing"
)

func benchmarkLog(records int) []byte {
	b := NewBuilder("bench")
	b.Start(1, 0, "/value", "int64", "")
	for i := 0; i < records; i++ {
		b.Int64(1, uint64(i*20_000), int64(i))
	}
	return b.Bytes()
}

func BenchmarkFramer(b *testing.B) {
	benchmarks := []struct {
		name    string
		records int
	}{
		{name: "small", records: 100},
		{name: "medium", records: 10_000},
		{name: "large", records: 1_000_000},
	}

	for _, bm := range benchmarks {
		buf := benchmarkLog(bm.records)
		for _, policy := range []Policy{PolicySafe, PolicyFast} {
			b.Run(bm.name+"/"+policy.String(), func(b *testing.B) {
				dec := Decoder{Policy: policy}
				b.SetBytes(int64(len(buf)))
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					_, off, err := dec.DecodeHeader(buf)
					if err != nil {
						b.Fatal(err)
					}
					f := dec.NewFramer(buf, off)
					for f.Next() {
					}
					if err := f.Err(); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkReadUint(b *testing.B) {
	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	var sink uint64
	for i := 0; i < b.N; i++ {
		sink += ReadUint(buf, 1+i&7)
	}
	_ = sink
}
