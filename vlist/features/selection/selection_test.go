package selection

import (
	"fmt"
	"testing"

	"vlist/internal/renderer"
	"vlist/vlist"
)

type testItem struct{ id string }

func (t testItem) ItemID() string { return t.id }

func items(n int) []vlist.Item {
	out := make([]vlist.Item, n)
	for i := range out {
		out[i] = testItem{id: fmt.Sprintf("i-%d", i)}
	}
	return out
}

func tmpl(item renderer.Item, index int, state *renderer.TemplateState) string { return item.ItemID() }

func build(t *testing.T, mode Mode) *vlist.List {
	t.Helper()
	b := vlist.NewBuilder(vlist.Options{
		Template:        tmpl,
		ItemSize:        10,
		Items:           items(20),
		ContainerHeight: 100,
	})
	b.Use(Feature(Options{Mode: mode}))
	l, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return l
}

func TestSingleSelectReplacesPrevious(t *testing.T) {
	l := build(t, Single)
	l.Call("select", "i-0")
	l.Call("select", "i-1")

	got, _ := l.Call("getSelected")
	sel := got.(map[string]bool)
	if sel["i-0"] {
		t.Errorf("expected i-0 deselected in single mode")
	}
	if !sel["i-1"] {
		t.Errorf("expected i-1 selected")
	}
}

func TestMultiSelectAccumulates(t *testing.T) {
	l := build(t, Multi)
	l.Call("select", "i-0")
	l.Call("select", "i-1")

	got, _ := l.Call("getSelected")
	sel := got.(map[string]bool)
	if !sel["i-0"] || !sel["i-1"] {
		t.Errorf("expected both i-0 and i-1 selected, got %v", sel)
	}
}

func TestToggleOffDeselects(t *testing.T) {
	l := build(t, Multi)
	l.Call("select", "i-0")
	l.Call("select", "i-0")
	got, _ := l.Call("getSelected")
	sel := got.(map[string]bool)
	if sel["i-0"] {
		t.Errorf("expected i-0 deselected after second toggle")
	}
}

func TestClearSelection(t *testing.T) {
	l := build(t, Multi)
	l.Call("select", "i-0")
	l.Call("clearSelection")
	got, _ := l.Call("getSelected")
	sel := got.(map[string]bool)
	if len(sel) != 0 {
		t.Errorf("expected empty selection after clear, got %v", sel)
	}
}
