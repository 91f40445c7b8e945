// Package grid lays rendered items out in a fixed number of columns
// instead of one per row, adapting the column-width distribution from
// kubewatch's table component to 2-D cell placement instead of horizontal
// column sizing.
package grid

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"vlist/internal/renderer"
	"vlist/internal/size"
	"vlist/internal/viewport"
	"vlist/vlist"
)

// Options configures the grid feature.
type Options struct {
	// Columns is the fixed number of columns per row. Must be >= 1.
	Columns int
}

// Feature returns a vlist.Feature that overrides item positioning to lay
// items out in Options.Columns columns. Reverse is rejected at build time,
// mirroring the engine's rule that grid and reverse cannot compose: a
// reversed grid would need to flip both axes independently, which the
// layout function contract does not express.
func Feature(opts Options) vlist.Feature {
	return vlist.Feature{
		Name:      "grid",
		Priority:  20,
		Conflicts: []string{"windowmode"},
		Setup: func(ctx *vlist.Context) error {
			if opts.Columns < 1 {
				return fmt.Errorf("grid: configuration error: Columns must be >= 1, got %d", opts.Columns)
			}
			if ctx.Reverse() {
				return fmt.Errorf("grid: configuration error: grid cannot be combined with Options.Reverse")
			}
			cols := opts.Columns
			g := &gridLayout{cols: cols, ctx: ctx}
			g.rebuild(ctx.SizeCache().TotalItems())

			ctx.SetGridColumns(cols)
			ctx.SetGridPositionFn(func(index int) (row, col int) {
				return index / cols, index % cols
			})
			ctx.SetPositionElementFn(func(index int) float64 {
				return g.rowCache.GetOffset(index / cols)
			})
			ctx.SetVisibleRangeFn(g.visibleRange)
			ctx.SetScrollToPosFn(g.scrollToIndex)

			ctx.ScrollController().UpdateContainerHeight(ctx.ContainerSize(), g.rowCache.GetTotalSize())

			ctx.ContentSizeHandlers = append(ctx.ContentSizeHandlers, func(total int) {
				g.rebuild(total)
				ctx.ScrollController().UpdateContainerHeight(ctx.ContainerSize(), g.rowCache.GetTotalSize())
			})
			ctx.ResizeHandlers = append(ctx.ResizeHandlers, func(width, height int) {
				ctx.ScrollController().UpdateContainerHeight(ctx.ContainerSize(), g.rowCache.GetTotalSize())
			})

			colWidth := columnWidth(ctx.ContainerWidth(), cols)
			prev := ctx.Template()
			ctx.ReplaceTemplate(func(item renderer.Item, index int, state *renderer.TemplateState) string {
				return fitColumn(prev(item, index, state), colWidth)
			})

			return nil
		},
	}
}

// gridLayout holds the row-domain size cache grid keeps alongside the
// core's item-domain one, translating at the VisibleRangeFunc/
// ScrollToIndexFunc boundary so the rest of the engine stays item-domain.
type gridLayout struct {
	cols     int
	ctx      *vlist.Context
	rowCache size.Cache
}

func (g *gridLayout) rowHeight() float64 {
	sc := g.ctx.SizeCache()
	if sc.TotalItems() == 0 {
		return 0
	}
	return sc.GetSize(0)
}

func (g *gridLayout) rows(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + g.cols - 1) / g.cols
}

func (g *gridLayout) rebuild(total int) {
	g.rowCache = size.NewFixed(g.rowHeight(), g.rows(total))
}

// visibleRange computes the visible range in the row domain and expands it
// back to the item-domain span those rows cover, so CalculateRenderRange
// and Renderer.Render downstream never need to know about columns.
func (g *gridLayout) visibleRange(scroll, container float64, sc size.Cache, total int, out *viewport.Range) {
	if total == 0 || container <= 0 {
		out.Start, out.End = 0, -1
		return
	}
	var rowVis viewport.Range
	viewport.SimpleVisibleRange(scroll, container, g.rowCache, g.rowCache.TotalItems(), &rowVis)

	out.Start = rowVis.Start * g.cols
	end := (rowVis.End+1)*g.cols - 1
	if end > total-1 {
		end = total - 1
	}
	out.End = end
}

// scrollToIndex resolves idx's row and defers to the row-domain scroll math
// so the returned position is directly usable against the row-domain
// content height installed via UpdateContainerHeight.
func (g *gridLayout) scrollToIndex(idx int, sc size.Cache, container float64, total int, align viewport.Align) float64 {
	if total == 0 || g.rowCache.TotalItems() == 0 {
		return 0
	}
	row := idx / g.cols
	return viewport.SimpleScrollToIndex(row, g.rowCache, container, g.rowCache.TotalItems(), align)
}

// columnWidth divides the container's width evenly across cols, the same
// flex-distribution idea as the teacher's table column sizing reduced to
// equal shares since grid columns carry no per-column width configuration.
func columnWidth(containerWidth, cols int) int {
	if containerWidth <= 0 || cols <= 0 {
		return 0
	}
	w := containerWidth / cols
	if w < 1 {
		w = 1
	}
	return w
}

// fitColumn truncates or right-pads s to exactly width terminal cells,
// adapted from the teacher's table renderRow which truncated with
// reflow/truncate and padded with lipgloss to keep columns aligned.
func fitColumn(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := runewidth.StringWidth(s)
	switch {
	case w > width:
		return truncate.StringWithTail(s, uint(width), "…")
	case w < width:
		return s + strings.Repeat(" ", width-w)
	default:
		return s
	}
}
