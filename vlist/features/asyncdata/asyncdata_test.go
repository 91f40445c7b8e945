package asyncdata

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"vlist/internal/renderer"
	"vlist/internal/viewport"
	"vlist/vlist"
)

type testItem struct{ id string }

func (t testItem) ItemID() string { return t.id }

func items(n, offset int) []vlist.Item {
	out := make([]vlist.Item, n)
	for i := range out {
		out[i] = testItem{id: fmt.Sprintf("item-%d", offset+i)}
	}
	return out
}

func tmpl(item renderer.Item, index int, state *renderer.TemplateState) string { return item.ItemID() }

func build(t *testing.T, loader Loader) *vlist.List {
	t.Helper()
	b := vlist.NewBuilder(vlist.Options{
		Template:        tmpl,
		ItemSize:        10,
		Items:           items(20, 0),
		ContainerHeight: 50,
	})
	b.Use(Feature(Options{Loader: loader, Prefetch: 0.2}))
	l, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return l
}

// drain runs cmd to completion in the calling goroutine and feeds every
// resulting message back through Update, the way a real tea.Program's
// event loop would, for loaders that don't block.
func drain(l *vlist.List, cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			var next tea.Cmd
			for _, sub := range batch {
				if sub == nil {
					continue
				}
				_, c := l.Update(sub())
				if c != nil {
					next = c
				}
			}
			cmd = next
			continue
		}
		_, cmd = l.Update(msg)
	}
}

func TestPrefetchTriggersLoadOnBottomApproach(t *testing.T) {
	var called bool
	loader := func(ctx context.Context, before bool) ([]vlist.Item, error) {
		called = true
		if before {
			t.Fatalf("expected an after-load near the bottom, got before-load")
		}
		return items(5, 100), nil
	}
	l := build(t, loader)

	drain(l, l.ScrollToIndex(19, viewport.AlignEnd, false))
	if !called {
		t.Fatalf("expected loader to be called when scrolled near the bottom")
	}
}

func TestPrefetchTriggersLoadOnTopApproach(t *testing.T) {
	var gotBefore bool
	loader := func(ctx context.Context, before bool) ([]vlist.Item, error) {
		gotBefore = before
		return items(2, -2), nil
	}
	l := build(t, loader)

	// Build runs no AfterScroll hook; scrolling to index 0 while already
	// at the top still commits a scroll, so the hook runs once with the
	// visible range starting at 0.
	drain(l, l.ScrollToIndex(0, viewport.AlignStart, false))
	if !gotBefore {
		t.Fatalf("expected a before-load when scrolled to the top")
	}
}

func TestLoadResultAppendsItemsOnUpdateLoop(t *testing.T) {
	loader := func(ctx context.Context, before bool) ([]vlist.Item, error) {
		return items(3, 1000), nil
	}
	l := build(t, loader)
	before := l.Context().DataManager().Len()

	drain(l, l.ScrollToIndex(19, viewport.AlignEnd, false))

	after := l.Context().DataManager().Len()
	if after != before+3 {
		t.Errorf("DataManager length = %d, want %d", after, before+3)
	}
}

func TestLoadErrorDoesNotMutateData(t *testing.T) {
	wantErr := errors.New("boom")
	loader := func(ctx context.Context, before bool) ([]vlist.Item, error) {
		return nil, wantErr
	}
	l := build(t, loader)
	before := l.Context().DataManager().Len()

	var sawError bool
	l.On("error", func(payload interface{}) { sawError = true })

	drain(l, l.ScrollToIndex(19, viewport.AlignEnd, false))

	after := l.Context().DataManager().Len()
	if after != before {
		t.Errorf("DataManager length changed on error: got %d, want %d", after, before)
	}
	if !sawError {
		t.Errorf("expected an error event to be emitted")
	}
}

func TestIsLoadingMethodReflectsInFlightState(t *testing.T) {
	release := make(chan struct{})
	loader := func(ctx context.Context, before bool) ([]vlist.Item, error) {
		<-release
		return items(1, 0), nil
	}
	l := build(t, loader)

	cmd := l.ScrollToIndex(19, viewport.AlignEnd, false)
	if cmd == nil {
		t.Fatalf("expected a load cmd to be returned")
	}

	loading, err := l.Call("isLoading")
	if err != nil {
		t.Fatalf("Call(isLoading) error: %v", err)
	}
	if loading != true {
		t.Errorf("isLoading = %v, want true while the loader is blocked", loading)
	}

	resultCh := make(chan tea.Msg, 1)
	go func() { resultCh <- cmd() }()
	close(release)
	l.Update(<-resultCh)

	loading, _ = l.Call("isLoading")
	if loading != false {
		t.Errorf("isLoading = %v, want false once the load has completed", loading)
	}
}
