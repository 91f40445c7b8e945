package size

import "testing"

func TestFixedOffsets(t *testing.T) {
	f := NewFixed(50, 100)
	if got := f.GetOffset(0); got != 0 {
		t.Errorf("GetOffset(0) = %v, want 0", got)
	}
	if got := f.GetOffset(10); got != 500 {
		t.Errorf("GetOffset(10) = %v, want 500", got)
	}
	if got := f.GetTotalSize(); got != 5000 {
		t.Errorf("GetTotalSize() = %v, want 5000", got)
	}
}

func TestFixedIndexAtOffset(t *testing.T) {
	f := NewFixed(50, 100)
	cases := []struct {
		y    float64
		want int
	}{
		{-10, 0},
		{0, 0},
		{49, 0},
		{50, 1},
		{4999, 99},
		{5000, 99},
		{100000, 99},
	}
	for _, c := range cases {
		if got := f.IndexAtOffset(c.y); got != c.want {
			t.Errorf("IndexAtOffset(%v) = %d, want %d", c.y, got, c.want)
		}
	}
}

func TestVariableOffsetsE3(t *testing.T) {
	heights := []float64{40, 80, 40, 80, 40, 80, 40, 80, 40, 80}
	v := NewVariable(func(i int) float64 { return heights[i] }, 10)

	want := []float64{0, 40, 120, 160}
	for i, w := range want {
		if got := v.GetOffset(i); got != w {
			t.Errorf("GetOffset(%d) = %v, want %v", i, got, w)
		}
	}
	if got := v.GetTotalSize(); got != 600 {
		t.Errorf("GetTotalSize() = %v, want 600", got)
	}
	if got := v.IndexAtOffset(159); got != 2 {
		t.Errorf("IndexAtOffset(159) = %d, want 2", got)
	}
	if got := v.IndexAtOffset(160); got != 3 {
		t.Errorf("IndexAtOffset(160) = %d, want 3", got)
	}
}

func TestVariableRebuildIdempotent(t *testing.T) {
	sizeFn := func(i int) float64 { return float64(i%3 + 1) }
	v := NewVariable(sizeFn, 20)
	first := append([]float64(nil), v.prefixSums...)
	v.Rebuild(sizeFn, 20)
	for i, want := range first {
		if v.prefixSums[i] != want {
			t.Errorf("prefixSums[%d] after rebuild = %v, want %v", i, v.prefixSums[i], want)
		}
	}
}

func TestCountVisibleItems(t *testing.T) {
	f := NewFixed(50, 100)
	n := CountVisibleItems(f, 0, 500, 100)
	if n < 10 || n > 11 {
		t.Errorf("CountVisibleItems = %d, want 10 or 11", n)
	}
}

func TestCountItemsFittingFromBottom(t *testing.T) {
	f := NewFixed(50, 100)
	n := CountItemsFittingFromBottom(f, 500, 100)
	if n < 10 || n > 11 {
		t.Errorf("CountItemsFittingFromBottom = %d, want 10 or 11", n)
	}
}

func TestOffsetForVirtualIndex(t *testing.T) {
	f := NewFixed(50, 100)
	if got := OffsetForVirtualIndex(f, 10.5, 100); got != 525 {
		t.Errorf("OffsetForVirtualIndex(10.5) = %v, want 525", got)
	}
}

func TestEmptyCache(t *testing.T) {
	f := NewFixed(50, 0)
	if got := f.IndexAtOffset(100); got != 0 {
		t.Errorf("IndexAtOffset on empty cache = %d, want 0", got)
	}
	if got := f.GetTotalSize(); got != 0 {
		t.Errorf("GetTotalSize on empty cache = %v, want 0", got)
	}
}
