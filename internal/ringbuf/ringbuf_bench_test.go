package ringbuf

import "testing"

func BenchmarkEvaluate(b *testing.B) {
	rb := New[float32](DefaultCapacity)
	for i := range 4096 {
		rb.Write(i, float32(i)*1e-4)
	}

	pos := 0.0
	b.ReportAllocs()
	for b.Loop() {
		_ = rb.Evaluate(pos)
		pos += 0.37
		if pos > 4000 {
			pos = 0
		}
	}
}
