// Package asyncdata triggers background loading when the visible range
// nears either edge of the currently loaded data, generalizing the
// prefetch-threshold pattern of gioui/chat's list Manager (there tied to
// a gioui layout pass) onto vlist's AfterScroll hook. Per the engine's
// concurrency model, the loader itself runs off the Update goroutine, but
// its result is always applied back on the Update goroutine via a
// tea.Msg/tea.Cmd round trip — the core, and this feature, never mutate
// list state from the loader's goroutine directly.
package asyncdata

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"vlist/internal/viewport"
	"vlist/vlist"
	"vlist/vlist/events"
)

// DefaultPrefetch mirrors gioui/chat's default prefetch fraction: load the
// next page once the visible range is within 15% of the loaded edge.
const DefaultPrefetch = 0.15

// Loader fetches more items in the given direction. before=true requests
// older/earlier items; before=false requests newer/later items. Errors
// are reported via the Error event and do not stop the list from
// operating on cached data.
type Loader func(ctx context.Context, before bool) ([]vlist.Item, error)

// Options configures the feature.
type Options struct {
	Loader   Loader
	Prefetch float32
}

// loadResultMsg carries a finished load back onto the Update loop.
type loadResultMsg struct {
	before bool
	items  []vlist.Item
	err    error
}

// Feature returns a vlist.Feature that prefetches more data as the
// visible range nears either loaded edge.
func Feature(opts Options) vlist.Feature {
	if opts.Prefetch <= 0 {
		opts.Prefetch = DefaultPrefetch
	}
	var loading bool

	return vlist.Feature{
		Name:     "asyncdata",
		Priority: 70,
		Setup: func(ctx *vlist.Context) error {
			ctx.AfterScroll = append(ctx.AfterScroll, func(pos float64, dir viewport.Direction) tea.Cmd {
				return maybeStartLoad(ctx, opts, &loading)
			})

			ctx.MessageHandlers = append(ctx.MessageHandlers, func(msg tea.Msg) tea.Cmd {
				m, ok := msg.(loadResultMsg)
				if !ok {
					return nil
				}
				loading = false
				if m.err != nil {
					ctx.Emitter().Emit(events.Error, events.ErrorPayload{Err: m.err})
					ctx.Emitter().Emit(events.LoadEnd, events.LoadPayload{Before: m.before})
					return nil
				}
				if m.before {
					ctx.List().PrependItems(m.items)
				} else {
					ctx.List().AppendItems(m.items)
				}
				ctx.Emitter().Emit(events.LoadEnd, events.LoadPayload{Before: m.before})
				return nil
			})

			ctx.Methods["isLoading"] = func(args ...interface{}) (interface{}, error) {
				return loading, nil
			}

			return nil
		},
	}
}

func maybeStartLoad(ctx *vlist.Context, opts Options, loading *bool) tea.Cmd {
	if *loading || opts.Loader == nil {
		return nil
	}
	vis := ctx.VisibleRange()
	if vis.Empty() {
		return nil
	}
	total := ctx.DataManager().Len()
	threshold := int(float32(total) * opts.Prefetch)
	if threshold < 1 {
		threshold = 1
	}

	var before bool
	switch {
	case vis.Start <= threshold:
		before = true
	case total-vis.End <= threshold:
		before = false
	default:
		return nil
	}

	*loading = true
	ctx.Emitter().Emit(events.LoadStart, events.LoadPayload{Before: before})
	loader := opts.Loader
	return func() tea.Msg {
		items, err := loader(context.Background(), before)
		return loadResultMsg{before: before, items: items, err: err}
	}
}
