// Package compression maps a bounded virtual scroll space onto item space
// for lists whose true scroll extent exceeds a backend's safe addressable
// size. It is activated automatically whenever a size.Cache reports a
// total size beyond DefaultMaxVirtualSize (or a caller-supplied maximum).
package compression

import (
	"vlist/internal/size"
	"vlist/internal/viewport"
)

// DefaultMaxVirtualSize is the default ceiling on the virtual scroll
// extent, carried from the browser-oriented origin of this mechanism
// (~16.7 million addressable units); kept configurable since other
// backends (a shared remote buffer, say) may impose a much smaller limit.
const DefaultMaxVirtualSize = 16_777_000.0

// State describes whether a list is compressed and the mapping between its
// actual and virtual extents.
type State struct {
	IsCompressed bool
	ActualSize   float64
	VirtualSize  float64
	Ratio        float64
}

// Compute derives a State from the cache's total size against maxVirtual.
// Pass 0 for maxVirtual to use DefaultMaxVirtualSize.
func Compute(sc size.Cache, maxVirtual float64) State {
	if maxVirtual <= 0 {
		maxVirtual = DefaultMaxVirtualSize
	}
	actual := sc.GetTotalSize()
	if actual <= maxVirtual {
		return State{IsCompressed: false, ActualSize: actual, VirtualSize: actual, Ratio: 1}
	}
	ratio := maxVirtual / actual
	return State{IsCompressed: true, ActualSize: actual, VirtualSize: maxVirtual, Ratio: ratio}
}

// VisibleRange computes the compressed-mode visible range, implementing the
// near-bottom blend so the final items remain reachable even though the
// virtual scroll space compresses many real items into one virtual unit.
func VisibleRange(st State, scroll, container float64, sc size.Cache, total int, out *viewport.Range) {
	if total == 0 || container <= 0 {
		out.Start, out.End = 0, -1
		return
	}
	maxScroll := st.VirtualSize - container
	if maxScroll < 0 {
		maxScroll = 0
	}
	scrollRatio := 0.0
	if st.VirtualSize > 0 {
		scrollRatio = scroll / st.VirtualSize
	}
	exactIdx := scrollRatio * float64(total)
	start := int(exactIdx)
	visibleCount := size.CountVisibleItems(sc, start, container, total)
	end := int(ceil(exactIdx)) + visibleCount

	distanceFromBottom := maxScroll - scroll
	if distanceFromBottom <= container {
		fittingFromBottom := size.CountItemsFittingFromBottom(sc, container, total)
		firstVisibleAtBottom := total - fittingFromBottom
		t := 1.0
		if container > 0 {
			t = 1 - distanceFromBottom/container
		}
		blendedStart := blendInt(start, firstVisibleAtBottom, t)
		blendedEnd := blendInt(end, total-1, t)
		start, end = blendedStart, blendedEnd
	}
	if scroll >= maxScroll {
		end = total - 1
	}

	out.Start = clampInt(start, 0, total-1)
	out.End = clampInt(end, 0, total-1)
	if out.End < out.Start {
		out.End = out.Start
	}
}

// Position computes the viewport-relative position of item i in compressed
// mode: items are laid out relative to the current scroll position rather
// than at an absolute offset, since no real scroll container exists beyond
// the virtual size ceiling.
func Position(st State, scroll, container float64, sc size.Cache, i, total int) float64 {
	maxScroll := st.VirtualSize - container
	if maxScroll < 0 {
		maxScroll = 0
	}
	scrollRatio := 0.0
	if st.VirtualSize > 0 {
		scrollRatio = scroll / st.VirtualSize
	}
	virtualScrollOffset := scrollRatio * st.ActualSize
	normalPosition := sc.GetOffset(i) - virtualScrollOffset

	distanceFromBottom := maxScroll - scroll
	if distanceFromBottom <= container {
		fittingFromBottom := size.CountItemsFittingFromBottom(sc, container, total)
		firstVisibleAtBottom := total - fittingFromBottom
		bottomPosition := sc.GetOffset(i) - sc.GetOffset(firstVisibleAtBottom)
		t := 1.0
		if container > 0 {
			t = 1 - distanceFromBottom/container
		}
		normalPosition = lerp(normalPosition, bottomPosition, t)
	}
	if scroll >= maxScroll {
		// At the exact bottom, position cumulatively from the bottom of
		// the viewport so the last item's trailing edge meets it.
		normalPosition = container - (sc.GetTotalSize() - sc.GetOffset(i))
	}
	return normalPosition
}

// ScrollToIndex computes the compressed-mode scroll position to reveal
// item idx with the given alignment.
func ScrollToIndex(st State, idx int, sc size.Cache, container float64, total int, align viewport.Align) float64 {
	if total == 0 {
		return 0
	}
	maxScroll := st.VirtualSize - container
	if maxScroll < 0 {
		maxScroll = 0
	}
	if align == viewport.AlignEnd && idx == total-1 {
		return maxFloat(0, maxScroll)
	}
	scroll := (float64(idx) / float64(total)) * st.VirtualSize
	itemSize := sc.GetSize(idx)
	switch align {
	case viewport.AlignCenter:
		scroll = scroll - container/2 + itemSize/2
	case viewport.AlignEnd:
		scroll = scroll - container + itemSize
	}
	return viewport.ClampScrollPosition(scroll, maxScroll)
}

func blendInt(a, b int, t float64) int {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return int(float64(a) + t*float64(b-a))
}

func lerp(a, b, t float64) float64 {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return a + t*(b-a)
}

func ceil(v float64) float64 {
	i := int(v)
	if float64(i) < v {
		return float64(i + 1)
	}
	return float64(i)
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

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
