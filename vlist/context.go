package vlist

import (
	tea "github.com/charmbracelet/bubbletea"

	"vlist/internal/renderer"
	"vlist/internal/scrollctl"
	"vlist/internal/size"
	"vlist/internal/viewport"
	"vlist/vlist/events"
)

// RenderFn is one of the two pipeline entry points features may wrap:
// renderIfNeeded (render only if the range changed) and forceRender
// (always re-render). Replacements typically call the previous version
// before or after their own work.
type RenderFn func()

// ScrollGetFn and ScrollSetFn let a feature redirect where scroll position
// is read from and written to (used by window-mode).
type ScrollGetFn func() float64
type ScrollSetFn func(pos float64, smooth bool) tea.Cmd

// Context is the mutable handle passed to every Feature during setup. It
// exposes the engine's replaceable seams and per-event hook arrays; this
// is the entire stable boundary between the core and peripheral features.
type Context struct {
	list *List

	// Replaceable computation seams.
	renderIfNeeded RenderFn
	forceRender    RenderFn
	virtualTotalFn func() int
	visibleRangeFn viewport.VisibleRangeFunc
	scrollToPosFn  viewport.ScrollToIndexFunc
	positionFn     renderer.PositionFunc
	gridPositionFn renderer.GridPositionFunc
	scrollGetFn    ScrollGetFn
	scrollSetFn    ScrollSetFn
	scrollTarget   string
	containerW     int
	containerH     int
	viewportResizeDisabled bool
	gridColumns    int

	// Handler arrays, appended to by features and invoked by the core in
	// registration order.
	//
	// AfterScroll fires synchronously from inside whatever scroll commit
	// triggered it (an immediate ScrollTo, a smooth-scroll animation
	// frame, or a wheel event) — there is no guarantee it runs from
	// within List.Update. A handler that needs to start background work
	// (async-data's prefetch) returns the tea.Cmd for it here rather than
	// dispatching directly; the core queues it and folds it into the
	// tea.Cmd returned by whichever public call or Update case triggered
	// the commit.
	AfterScroll         []func(pos float64, dir viewport.Direction) tea.Cmd
	SelectHandlers      []func(index int, item Item)
	KeydownHandlers     []func(msg tea.KeyMsg) tea.Cmd
	ResizeHandlers      []func(width, height int)
	ContentSizeHandlers []func(total int)
	DestroyHandlers     []func()
	// MessageHandlers receive every bubbletea message other than KeyMsg and
	// MouseMsg, including the scroll controller's own tick messages;
	// WindowSizeMsg reaches them only after DisableViewportResize.
	// Async-data uses this to resume on the Update loop after a background
	// load.
	MessageHandlers []func(msg tea.Msg) tea.Cmd

	// Methods is the installable public-API extension point: a feature
	// adds named callables here and List.Call resolves them by name.
	Methods map[string]func(args ...interface{}) (interface{}, error)
}

func newContext(l *List) *Context {
	return &Context{
		list:           l,
		renderIfNeeded: l.renderIfNeeded,
		forceRender:    l.forceRender,
		visibleRangeFn: viewport.SimpleVisibleRange,
		scrollToPosFn:  viewport.SimpleScrollToIndex,
		Methods:        make(map[string]func(args ...interface{}) (interface{}, error)),
	}
}

// List returns the list instance this context belongs to, for features
// that need read access to current state (size cache, scroll position)
// rather than a cached copy.
func (c *Context) List() *List { return c.list }

// GetRenderFns returns the current render-pipeline entry points.
func (c *Context) GetRenderFns() (renderIfNeeded, forceRender RenderFn) {
	return c.renderIfNeeded, c.forceRender
}

// SetRenderFns installs new render-pipeline entry points, typically
// wrapping the previous ones returned by GetRenderFns.
func (c *Context) SetRenderFns(renderIfNeeded, forceRender RenderFn) {
	c.renderIfNeeded = renderIfNeeded
	c.forceRender = forceRender
}

// SetVirtualTotalFn overrides the item-count the viewport math sees,
// letting async-data report a larger total than is currently loaded.
func (c *Context) SetVirtualTotalFn(fn func() int) { c.virtualTotalFn = fn }

// SetSizeConfig replaces the size specification and rebuilds the cache.
// Pass a float64 for a fixed size or a size.SizeFunc for variable sizes.
func (c *Context) SetSizeConfig(spec interface{}) {
	c.list.setSizeConfig(spec)
}

// RebuildSizeCache forces a size cache rebuild against the given total, or
// the data manager's current length when total < 0.
func (c *Context) RebuildSizeCache(total int) { c.list.rebuildSizeCache(total) }

// UpdateContentSize notifies contentSizeHandlers that the size cache was
// rebuilt for a new total.
func (c *Context) UpdateContentSize(total int) {
	for _, h := range c.ContentSizeHandlers {
		h(total)
	}
}

// UpdateCompressionMode recomputes compression state against the current
// size cache and transitions the scroll controller's mode accordingly.
func (c *Context) UpdateCompressionMode() { c.list.updateCompressionMode() }

// SetVisibleRangeFn overrides the visible-range calculator; compression
// installs its own here.
func (c *Context) SetVisibleRangeFn(fn viewport.VisibleRangeFunc) { c.visibleRangeFn = fn }

// SetScrollToPosFn overrides the scroll-to-index calculator.
func (c *Context) SetScrollToPosFn(fn viewport.ScrollToIndexFunc) { c.scrollToPosFn = fn }

// SetPositionElementFn overrides how a rendered cell's position is
// computed; grid installs a 2-D variant via SetGridPositionFn instead.
func (c *Context) SetPositionElementFn(fn renderer.PositionFunc) { c.positionFn = fn }

// SetGridPositionFn installs a 2-D layout function, used by the grid
// feature.
func (c *Context) SetGridPositionFn(fn renderer.GridPositionFunc) { c.gridPositionFn = fn }

// SetScrollFns records functions for reading and writing the scroll
// position. The core does not call them: its scroll reads and writes
// always go through the scroll controller.
func (c *Context) SetScrollFns(get ScrollGetFn, set ScrollSetFn) {
	c.scrollGetFn = get
	c.scrollSetFn = set
}

// SetScrollTarget records a descriptive name for the current scroll
// source, surfaced for diagnostics.
func (c *Context) SetScrollTarget(target string) { c.scrollTarget = target }

// SetContainerDimensions overrides the tracked container size, used when a
// feature computes it independently of WindowSizeMsg.
func (c *Context) SetContainerDimensions(width, height int) {
	c.containerW, c.containerH = width, height
	c.list.onContainerResize(width, height)
}

// DisableViewportResize stops the core from reacting to tea.WindowSizeMsg
// directly, handing container-dimension tracking to a feature (window
// mode).
func (c *Context) DisableViewportResize() { c.viewportResizeDisabled = true }

// ContainerSize returns the container's current size along the scroll
// axis (height for a vertical list, width for a horizontal one) — the
// same value fed to scrollctl.Controller.UpdateContainerHeight.
func (c *Context) ContainerSize() float64 { return c.list.containerSize }

// ContainerWidth returns the container's width in terminal cells,
// independent of scroll orientation, for features that lay out text
// across the cross axis (grid's column widths).
func (c *Context) ContainerWidth() int { return c.list.containerW }

// Template returns the renderer's currently installed template, letting a
// feature wrap it rather than replace it outright.
func (c *Context) Template() renderer.Template { return c.list.renderer.Template() }

// SetGridColumns records the number of columns a 2-D layout feature is
// rendering, so the core's View groups cells by row instead of rendering
// one cell per line. 0 (the default) means plain single-column rendering.
func (c *Context) SetGridColumns(n int) { c.gridColumns = n }

// ReplaceTemplate swaps the render template.
func (c *Context) ReplaceTemplate(t renderer.Template) { c.list.renderer.SetTemplate(t) }

// ReplaceRenderer swaps the renderer entirely.
func (c *Context) ReplaceRenderer(r *renderer.Renderer) { c.list.renderer = r }

// ReplaceDataManager swaps the data manager entirely.
func (c *Context) ReplaceDataManager(dm DataManager) { c.list.data = dm }

// ReplaceScrollController swaps the scroll controller entirely.
func (c *Context) ReplaceScrollController(sc *scrollctl.Controller) { c.list.scroll = sc }

// Emitter exposes the event emitter so features can listen to or emit
// engine events.
func (c *Context) Emitter() *events.Emitter { return c.list.emitter }

// SizeCache exposes the current size cache for read-only inspection.
func (c *Context) SizeCache() size.Cache { return c.list.cache }

// ScrollController exposes the scroll controller for read access.
func (c *Context) ScrollController() *scrollctl.Controller { return c.list.scroll }

// DataManager exposes the current data manager.
func (c *Context) DataManager() DataManager { return c.list.data }

// Reverse reports whether the list was configured with Options.Reverse.
func (c *Context) Reverse() bool { return c.list.opts.Reverse }

// Renderer exposes the current renderer for read access to rendered cells.
func (c *Context) Renderer() *renderer.Renderer { return c.list.renderer }

// VisibleRange returns the most recently computed visible range.
func (c *Context) VisibleRange() viewport.Range { return c.list.lastVisible }
