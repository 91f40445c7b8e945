package renderer

import "vlist/internal/viewport"

// Item is an opaque record with a stable identity, the minimal contract
// the renderer needs from caller data.
type Item interface {
	ItemID() string
}

// ItemProvider resolves an absolute index to an Item, returning ok=false
// when the index has no backing data yet (e.g. a page still loading).
type ItemProvider interface {
	ItemAt(index int) (item Item, ok bool)
}

// TemplateState is a reusable scratch object passed to Template on every
// call; templates must not retain a reference to it past the call.
type TemplateState struct {
	Selected bool
	Focused  bool
}

// Template renders one item's content. It must be pure with respect to its
// arguments: same item/index/state in, same string out.
type Template func(item Item, index int, state *TemplateState) string

// PositionFunc maps an index to its position along the scroll axis; the
// simple variant returns size.Cache offsets, the compressed variant
// returns viewport-relative positions.
type PositionFunc func(index int) float64

// GridPositionFunc maps an index to (row, col) in grid mode.
type GridPositionFunc func(index int) (row, col int)

// Renderer maintains the authoritative index-to-Cell mapping and
// implements the pool/reuse/reposition render algorithm.
type Renderer struct {
	pool      *Pool
	rendered  map[int]*Cell
	template  Template
	lastTotal int
	state     TemplateState
	maxWidth  int
}

// New returns a Renderer backed by a pool of the given capacity.
func New(poolCap int, template Template) *Renderer {
	return &Renderer{
		pool:     NewPool(poolCap),
		rendered: make(map[int]*Cell),
		template: template,
	}
}

// SetTemplate replaces the render template, used when a feature wraps or
// swaps the content function.
func (r *Renderer) SetTemplate(t Template) { r.template = t }

// Template returns the currently installed template, letting a feature
// wrap it (grid's column truncation) rather than replace it outright.
func (r *Renderer) Template() Template { return r.template }

// SetMaxWidth bounds how wide, in terminal cells, a freshly rendered
// cell's content may be; content wider than this is truncated with an
// ellipsis. A value <= 0 disables truncation.
func (r *Renderer) SetMaxWidth(w int) { r.maxWidth = w }

// Render evicts cells outside rng, reuses or re-templates cells within it,
// and repositions every surviving cell, in five steps: evict, iterate,
// reuse-or-retemplate, update SetSize, reposition.
func (r *Renderer) Render(items ItemProvider, rng viewport.Range, selected map[string]bool, focusedIndex int, total int, pos PositionFunc, grid GridPositionFunc) {
	// Step 1: evict anything outside the new range.
	for idx, cell := range r.rendered {
		if !rng.Contains(idx) {
			r.pool.Release(cell)
			delete(r.rendered, idx)
		}
	}

	if rng.Empty() {
		return
	}

	totalChanged := total != r.lastTotal
	r.lastTotal = total

	// Step 2-3: iterate the range, reuse in place or re-template.
	for i := rng.Start; i <= rng.End; i++ {
		item, ok := items.ItemAt(i)
		if !ok {
			continue
		}
		id := item.ItemID()
		cell, exists := r.rendered[i]
		isSelected := selected != nil && selected[id]
		isFocused := i == focusedIndex
		fresh := false

		switch {
		case exists && cell.ID == id:
			cell.Selected = isSelected
			cell.Focused = isFocused
		default:
			if exists {
				r.pool.Release(cell)
			}
			cell = r.pool.Acquire(RoleOption)
			cell.Index = i
			cell.ID = id
			cell.Selected = isSelected
			cell.Focused = isFocused
			if r.template != nil {
				r.state.Selected = isSelected
				r.state.Focused = isFocused
				text := r.template(item, i, &r.state)
				cell.SetContent(truncateToWidth(text, r.maxWidth))
			}
			cell.PosInSet = i + 1
			r.rendered[i] = cell
			fresh = true
		}

		// Step 4: update SetSize only when total changed (survivors), but
		// always on freshly rendered cells.
		if totalChanged || fresh {
			cell.SetSize = total
		}

		// Step 5: reposition.
		if pos != nil {
			cell.Offset = pos(i)
		}
		if grid != nil {
			cell.Row, cell.Col = grid(i)
		} else {
			cell.Row, cell.Col = 0, 0
		}
	}
}

// UpdatePositions recomputes the Offset (from pos) and, when grid is set,
// the Row/Col of every currently rendered cell without re-templating, for
// use after a compressed scroll tick where positions are viewport-relative.
func (r *Renderer) UpdatePositions(pos PositionFunc, grid GridPositionFunc) {
	for i, cell := range r.rendered {
		if grid != nil {
			cell.Row, cell.Col = grid(i)
		}
		if pos != nil {
			cell.Offset = pos(i)
		}
	}
}

// GetCell returns the currently rendered cell for index, if any.
func (r *Renderer) GetCell(index int) (*Cell, bool) {
	c, ok := r.rendered[index]
	return c, ok
}

// RenderedIndices returns the indices currently rendered, unordered.
func (r *Renderer) RenderedIndices() []int {
	out := make([]int, 0, len(r.rendered))
	for i := range r.rendered {
		out = append(out, i)
	}
	return out
}

// Clear evicts every rendered cell back to the pool.
func (r *Renderer) Clear() {
	for idx, cell := range r.rendered {
		r.pool.Release(cell)
		delete(r.rendered, idx)
	}
}

// Destroy clears rendered state and drops the pool.
func (r *Renderer) Destroy() {
	r.Clear()
	r.pool = NewPool(0)
}

// PoolLen reports how many cells currently sit free in the pool, exposed
// for tests and diagnostics.
func (r *Renderer) PoolLen() int { return r.pool.Len() }
