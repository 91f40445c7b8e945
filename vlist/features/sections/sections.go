// Package sections adds a sticky header that always names the section the
// topmost currently-visible item belongs to, recomputed from an
// AfterScroll hook that runs after the core's own render for the frame.
package sections

import (
	tea "github.com/charmbracelet/bubbletea"

	"vlist/internal/viewport"
	"vlist/vlist"
)

// SectionOf maps an item ID to its section label.
type SectionOf func(id string) string

// Options configures the feature.
type Options struct {
	SectionOf SectionOf
}

// State exposes the currently sticky section label for the caller's View
// to render above the list body.
type State struct {
	Current string
}

// Feature returns a vlist.Feature maintaining a sticky section header. It
// registers at a priority after the core's default (50) so the hook
// observes the range the core just committed for the frame.
func Feature(opts Options, state *State) vlist.Feature {
	return vlist.Feature{
		Name:     "sections",
		Priority: 60,
		Setup: func(ctx *vlist.Context) error {
			recompute := func() {
				vis := ctx.VisibleRange()
				if vis.Empty() {
					return
				}
				item, ok := ctx.DataManager().ItemAt(vis.Start)
				if !ok || opts.SectionOf == nil {
					return
				}
				state.Current = opts.SectionOf(item.ItemID())
			}
			ctx.AfterScroll = append(ctx.AfterScroll, func(pos float64, dir viewport.Direction) tea.Cmd {
				recompute()
				return nil
			})
			recompute()
			return nil
		},
	}
}
