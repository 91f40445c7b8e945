package vlist

import (
	"fmt"
	"testing"

	"vlist/internal/renderer"
	"vlist/internal/viewport"
)

type demoItem struct{ id string }

func (d demoItem) ItemID() string { return d.id }

func makeItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = demoItem{id: fmt.Sprintf("row-%d", i)}
	}
	return items
}

func templateFn(item renderer.Item, index int, state *renderer.TemplateState) string {
	return item.ItemID()
}

func TestBuildRequiresTemplate(t *testing.T) {
	_, err := NewBuilder(Options{ItemSize: 1, Items: makeItems(5)}).Build()
	if err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestBuildRequiresSizeSpec(t *testing.T) {
	_, err := NewBuilder(Options{Template: templateFn, Items: makeItems(5)}).Build()
	if err == nil {
		t.Fatalf("expected error for missing size spec")
	}
}

func TestBuildDuplicateFeatureNameRejected(t *testing.T) {
	b := NewBuilder(Options{Template: templateFn, ItemSize: 1, Items: makeItems(5), ContainerHeight: 10})
	b.Use(Feature{Name: "dup", Setup: func(ctx *Context) error { return nil }})
	b.Use(Feature{Name: "dup", Setup: func(ctx *Context) error { return nil }})
	_, err := b.Build()
	if err == nil {
		t.Fatalf("expected duplicate-feature error")
	}
}

func TestBuildConflictRejected(t *testing.T) {
	b := NewBuilder(Options{Template: templateFn, ItemSize: 1, Items: makeItems(5), ContainerHeight: 10})
	b.Use(Feature{Name: "a", Setup: func(ctx *Context) error { return nil }})
	b.Use(Feature{Name: "b", Conflicts: []string{"a"}, Setup: func(ctx *Context) error { return nil }})
	_, err := b.Build()
	if err == nil {
		t.Fatalf("expected conflict error")
	}
}

func buildBasicList(t *testing.T, n int) *List {
	t.Helper()
	l, err := NewBuilder(Options{
		Template:        templateFn,
		ItemSize:        50,
		Items:           makeItems(n),
		ContainerHeight: 500,
		Overscan:        3,
	}).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return l
}

func TestInitialRenderCoversOverscan(t *testing.T) {
	l := buildBasicList(t, 100)
	if l.lastRender.Start != 0 || l.lastRender.End != 13 {
		t.Errorf("initial render range = [%d,%d], want [0,13]", l.lastRender.Start, l.lastRender.End)
	}
}

func TestScrollToIndexStartAlignment(t *testing.T) {
	l := buildBasicList(t, 100)
	l.ScrollToIndex(50, viewport.AlignStart, false)
	if l.lastVisible.Start != 50 {
		t.Errorf("visible.Start = %d, want 50", l.lastVisible.Start)
	}
}

func TestSetItemsRebuildsCache(t *testing.T) {
	l := buildBasicList(t, 10)
	l.SetItems(makeItems(200))
	if l.cache.TotalItems() != 200 {
		t.Errorf("TotalItems() = %d, want 200", l.cache.TotalItems())
	}
}

func TestAppendItemsPreservesEarlierData(t *testing.T) {
	l := buildBasicList(t, 5)
	l.AppendItems(makeItems(5)) // ids collide (row-0..row-4 again) but append still grows length
	if l.data.Len() != 10 {
		t.Errorf("Len() = %d, want 10", l.data.Len())
	}
}

func TestUpdateAndRemoveItem(t *testing.T) {
	l := buildBasicList(t, 5)
	ok := l.UpdateItem("row-2", demoItem{id: "row-2"})
	if !ok {
		t.Errorf("UpdateItem should succeed for existing id")
	}
	ok = l.RemoveItem("row-2")
	if !ok {
		t.Errorf("RemoveItem should succeed for existing id")
	}
	if l.data.Len() != 4 {
		t.Errorf("Len() = %d, want 4", l.data.Len())
	}
}

func TestDestroyIsIdempotentAndGuardsMethods(t *testing.T) {
	l := buildBasicList(t, 10)
	l.Destroy()
	l.Destroy() // second call must be a no-op, not panic
	l.SetItems(makeItems(99))
	if l.data.Len() != 10 {
		t.Errorf("expected SetItems to be a no-op after Destroy, Len() = %d", l.data.Len())
	}
}

func TestEventsDeliveredOnScroll(t *testing.T) {
	l := buildBasicList(t, 100)
	fired := false
	l.On("scroll", func(payload interface{}) { fired = true })
	l.ScrollToIndex(50, viewport.AlignStart, false)
	if !fired {
		t.Errorf("expected scroll event to fire")
	}
}

func TestCallUnknownMethodErrors(t *testing.T) {
	l := buildBasicList(t, 10)
	_, err := l.Call("doesnotexist")
	if err == nil {
		t.Errorf("expected error for unknown method")
	}
}
