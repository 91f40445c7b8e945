// Package size computes item offsets along a list's scroll axis.
//
// A Cache answers two questions in constant or logarithmic time: the offset
// of an item's leading edge, and the index of the item sitting at a given
// offset. Two implementations are provided: Fixed for uniform item sizes,
// and Variable for per-item sizes backed by a prefix-sum table.
package size

import "sort"

// Cache maps item indices to offsets along the scroll axis and back.
type Cache interface {
	// TotalItems returns the item count the cache was built for.
	TotalItems() int
	// GetOffset returns the leading-edge offset of item i, clamped to
	// [0, TotalItems()].
	GetOffset(i int) float64
	// GetSize returns the size of item i. Not memoized; callers that need
	// it repeatedly should cache it themselves.
	GetSize(i int) float64
	// GetTotalSize returns the sum of all item sizes.
	GetTotalSize() float64
	// IndexAtOffset returns the largest index i such that GetOffset(i) <= y,
	// clamped to [0, TotalItems()-1]. Returns 0 when TotalItems() == 0.
	IndexAtOffset(y float64) int
}

// Fixed is a Cache for items that all share one size.
type Fixed struct {
	itemSize float64
	total    int
}

// NewFixed builds a Fixed cache for total items of itemSize each.
func NewFixed(itemSize float64, total int) *Fixed {
	if itemSize < 0 {
		itemSize = 0
	}
	if total < 0 {
		total = 0
	}
	return &Fixed{itemSize: itemSize, total: total}
}

func (f *Fixed) TotalItems() int { return f.total }

func (f *Fixed) GetOffset(i int) float64 {
	i = clampInt(i, 0, f.total)
	return float64(i) * f.itemSize
}

func (f *Fixed) GetSize(int) float64 { return f.itemSize }

func (f *Fixed) GetTotalSize() float64 { return float64(f.total) * f.itemSize }

func (f *Fixed) IndexAtOffset(y float64) int {
	if f.total == 0 {
		return 0
	}
	if y <= 0 || f.itemSize <= 0 {
		return 0
	}
	idx := int(y / f.itemSize)
	return clampInt(idx, 0, f.total-1)
}

// SizeFunc returns the size of item i for a Variable cache.
type SizeFunc func(i int) float64

// Variable is a Cache for items whose sizes are supplied by a function.
// It builds a monotonically non-decreasing prefix-sum table on Rebuild and
// never mutates it outside of a rebuild.
type Variable struct {
	sizeFn      SizeFunc
	total       int
	prefixSums  []float64
}

// NewVariable builds a Variable cache and computes its initial prefix sums.
func NewVariable(sizeFn SizeFunc, total int) *Variable {
	v := &Variable{sizeFn: sizeFn}
	v.Rebuild(sizeFn, total)
	return v
}

// Rebuild recomputes the prefix-sum table for a (possibly new) size
// function and item count. It is idempotent when called twice with the
// same arguments.
func (v *Variable) Rebuild(sizeFn SizeFunc, total int) {
	if total < 0 {
		total = 0
	}
	v.sizeFn = sizeFn
	v.total = total
	v.prefixSums = make([]float64, total+1)
	sum := 0.0
	for i := 0; i < total; i++ {
		s := 0.0
		if sizeFn != nil {
			s = sizeFn(i)
		}
		if s < 0 {
			s = 0
		}
		sum += s
		v.prefixSums[i+1] = sum
	}
}

func (v *Variable) TotalItems() int { return v.total }

func (v *Variable) GetOffset(i int) float64 {
	i = clampInt(i, 0, v.total)
	return v.prefixSums[i]
}

func (v *Variable) GetSize(i int) float64 {
	if v.sizeFn == nil || i < 0 || i >= v.total {
		return 0
	}
	return v.sizeFn(i)
}

func (v *Variable) GetTotalSize() float64 {
	return v.prefixSums[v.total]
}

// IndexAtOffset performs a binary search over the prefix-sum table for the
// largest index whose offset does not exceed y.
func (v *Variable) IndexAtOffset(y float64) int {
	if v.total == 0 {
		return 0
	}
	if y <= 0 {
		return 0
	}
	if total := v.GetTotalSize(); y >= total {
		return v.total - 1
	}
	// prefixSums[i] <= y < prefixSums[i+1] defines item i.
	// sort.Search finds the first index in [0, total] where prefixSums[idx] > y.
	idx := sort.Search(v.total+1, func(idx int) bool {
		return v.prefixSums[idx] > y
	})
	return clampInt(idx-1, 0, v.total-1)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CountVisibleItems returns how many whole-or-partial items starting at
// startIdx fit within containerSize along the scroll axis.
func CountVisibleItems(sc Cache, startIdx int, containerSize float64, total int) int {
	if total == 0 || containerSize <= 0 {
		return 0
	}
	startIdx = clampInt(startIdx, 0, total-1)
	startOffset := sc.GetOffset(startIdx)
	limit := startOffset + containerSize
	count := 0
	for i := startIdx; i < total; i++ {
		if sc.GetOffset(i) >= limit && count > 0 {
			break
		}
		count++
		if sc.GetOffset(i+1) >= limit {
			break
		}
	}
	return count
}

// CountItemsFittingFromBottom returns how many items, counted backward from
// the last item, fit within containerSize.
func CountItemsFittingFromBottom(sc Cache, containerSize float64, total int) int {
	if total == 0 || containerSize <= 0 {
		return 0
	}
	totalSize := sc.GetTotalSize()
	limit := totalSize - containerSize
	count := 0
	for i := total - 1; i >= 0; i-- {
		count++
		if sc.GetOffset(i) <= limit {
			break
		}
	}
	if count > total {
		count = total
	}
	return count
}

// OffsetForVirtualIndex linearly interpolates an offset for a fractional
// virtual index, used by the compression module to map a continuous
// virtual position onto real item offsets.
func OffsetForVirtualIndex(sc Cache, virtualIdx float64, total int) float64 {
	if total == 0 {
		return 0
	}
	floorIdx := clampInt(int(virtualIdx), 0, total-1)
	frac := virtualIdx - float64(floorIdx)
	base := sc.GetOffset(floorIdx)
	if frac <= 0 {
		return base
	}
	return base + frac*sc.GetSize(floorIdx)
}
