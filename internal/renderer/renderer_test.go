package renderer

import (
	"fmt"
	"testing"

	"vlist/internal/viewport"
)

type testItem struct{ id string }

func (t testItem) ItemID() string { return t.id }

type sliceProvider []testItem

func (s sliceProvider) ItemAt(i int) (Item, bool) {
	if i < 0 || i >= len(s) {
		return nil, false
	}
	return s[i], true
}

func makeProvider(n int) sliceProvider {
	items := make(sliceProvider, n)
	for i := range items {
		items[i] = testItem{id: fmt.Sprintf("item-%d", i)}
	}
	return items
}

func TestRenderPopulatesRange(t *testing.T) {
	items := makeProvider(20)
	r := New(10, func(item Item, index int, state *TemplateState) string {
		return item.ItemID()
	})
	rng := viewport.Range{Start: 2, End: 5}
	r.Render(items, rng, nil, -1, 20, func(i int) float64 { return float64(i * 10) }, nil)

	for i := rng.Start; i <= rng.End; i++ {
		cell, ok := r.GetCell(i)
		if !ok {
			t.Fatalf("expected cell at %d", i)
		}
		if cell.Content() != items[i].ItemID() {
			t.Errorf("cell %d content = %q, want %q", i, cell.Content(), items[i].ItemID())
		}
		if cell.Offset != float64(i*10) {
			t.Errorf("cell %d offset = %v, want %v", i, cell.Offset, float64(i*10))
		}
	}
	if len(r.RenderedIndices()) != rng.Count() {
		t.Errorf("rendered count = %d, want %d", len(r.RenderedIndices()), rng.Count())
	}
}

func TestRenderEvictsOutsideRange(t *testing.T) {
	items := makeProvider(20)
	r := New(10, func(item Item, index int, state *TemplateState) string { return item.ItemID() })
	r.Render(items, viewport.Range{Start: 0, End: 5}, nil, -1, 20, nil, nil)
	r.Render(items, viewport.Range{Start: 10, End: 15}, nil, -1, 20, nil, nil)

	if _, ok := r.GetCell(2); ok {
		t.Errorf("expected index 2 evicted")
	}
	if _, ok := r.GetCell(12); !ok {
		t.Errorf("expected index 12 rendered")
	}
	if r.PoolLen() == 0 {
		t.Errorf("expected evicted cells returned to pool")
	}
}

func TestRenderReusesSameID(t *testing.T) {
	items := makeProvider(20)
	calls := 0
	r := New(10, func(item Item, index int, state *TemplateState) string {
		calls++
		return item.ItemID()
	})
	rng := viewport.Range{Start: 0, End: 4}
	r.Render(items, rng, nil, -1, 20, nil, nil)
	first := calls
	r.Render(items, rng, nil, -1, 20, nil, nil) // same ids, same range
	if calls != first {
		t.Errorf("expected no re-templating on stable range, calls went from %d to %d", first, calls)
	}
}

func TestRenderSelectedAndFocused(t *testing.T) {
	items := makeProvider(5)
	r := New(10, func(item Item, index int, state *TemplateState) string { return item.ItemID() })
	selected := map[string]bool{"item-2": true}
	r.Render(items, viewport.Range{Start: 0, End: 4}, selected, 3, 5, nil, nil)

	cell, _ := r.GetCell(2)
	if !cell.Selected {
		t.Errorf("expected index 2 selected")
	}
	focused, _ := r.GetCell(3)
	if !focused.Focused {
		t.Errorf("expected index 3 focused")
	}
}

func TestRenderEmptyRange(t *testing.T) {
	items := makeProvider(5)
	r := New(10, func(item Item, index int, state *TemplateState) string { return item.ItemID() })
	r.Render(items, viewport.Range{Start: 0, End: -1}, nil, -1, 5, nil, nil)
	if len(r.RenderedIndices()) != 0 {
		t.Errorf("expected no cells rendered for empty range")
	}
}

func TestClearReturnsAllToPool(t *testing.T) {
	items := makeProvider(10)
	r := New(10, func(item Item, index int, state *TemplateState) string { return item.ItemID() })
	r.Render(items, viewport.Range{Start: 0, End: 4}, nil, -1, 10, nil, nil)
	r.Clear()
	if len(r.RenderedIndices()) != 0 {
		t.Errorf("expected no rendered cells after Clear")
	}
	if r.PoolLen() != 5 {
		t.Errorf("PoolLen() = %d, want 5", r.PoolLen())
	}
}

func TestPoolAcquireReleaseRespectsCapacity(t *testing.T) {
	p := NewPool(2)
	a := p.Acquire(RoleOption)
	b := p.Acquire(RoleOption)
	c := p.Acquire(RoleOption)
	p.Release(a)
	p.Release(b)
	p.Release(c)
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (capped)", p.Len())
	}
}
