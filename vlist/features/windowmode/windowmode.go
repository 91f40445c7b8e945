// Package windowmode binds the list's scroll position to the terminal
// window itself rather than to an inner scrollable region, for a list
// meant to fill the whole program rather than a bounded viewport within
// it. This is bubbletea's analog of binding scroll to `window` instead of
// an overflow:auto container in a browser.
package windowmode

import (
	tea "github.com/charmbracelet/bubbletea"

	"vlist/vlist"
)

// Feature returns a vlist.Feature that switches the scroll controller to
// scrollctl.ModeWindow and hands container-dimension tracking to
// tea.WindowSizeMsg instead of the core's own resize handling. It
// conflicts with grid, which needs a fixed scrollable region to lay
// columns against.
func Feature() vlist.Feature {
	return vlist.Feature{
		Name:      "windowmode",
		Priority:  20,
		Conflicts: []string{"grid"},
		Setup: func(ctx *vlist.Context) error {
			ctx.ScrollController().SetWindowMode(true)
			ctx.SetScrollTarget("window")
			ctx.DisableViewportResize()

			ctx.MessageHandlers = append(ctx.MessageHandlers, func(msg tea.Msg) tea.Cmd {
				if m, ok := msg.(tea.WindowSizeMsg); ok {
					ctx.SetContainerDimensions(m.Width, m.Height)
				}
				return nil
			})

			return nil
		},
		Destroy: func(ctx *vlist.Context) {
			ctx.ScrollController().SetWindowMode(false)
		},
	}
}
