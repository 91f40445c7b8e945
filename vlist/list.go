// Package vlist composes the virtualization engine's core components
// (size cache, viewport math, compression, scroll controller, renderer)
// with opt-in Features into a bubbletea-compatible list widget.
package vlist

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vlist/internal/compression"
	"vlist/internal/renderer"
	"vlist/internal/scrollctl"
	"vlist/internal/size"
	"vlist/internal/viewport"
	"vlist/vlist/events"
)

var (
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	focusedStyle  = lipgloss.NewStyle().Underline(true)
)

// List is the materialized, running virtualized list: a bubbletea Model
// plus the public API surface a caller or feature-installed method can
// invoke.
type List struct {
	opts Options
	ctx  *Context

	data     DataManager
	cache    size.Cache
	fixedItemSize   float64
	variableSizeFn  size.SizeFunc
	comp     compression.State
	scroll   *scrollctl.Controller
	renderer *renderer.Renderer
	emitter  *events.Emitter
	features []Feature

	containerSize float64
	containerW    int
	containerH    int

	lastVisible viewport.Range
	lastRender  viewport.Range

	focusedIndex int
	selected     map[string]bool

	// pendingCmds accumulates tea.Cmds returned by AfterScroll handlers
	// during a scroll commit that happened outside of Update (e.g. an
	// immediate ScrollTo called directly from public API code). The
	// caller that triggered the commit drains and batches them in.
	pendingCmds []tea.Cmd

	isDestroyed bool
}

// Init satisfies tea.Model; the engine issues no commands until a scroll
// or resize occurs.
func (l *List) Init() tea.Cmd { return nil }

// Update satisfies tea.Model.
func (l *List) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if l.isDestroyed {
		return l, nil
	}
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		if !l.ctx.viewportResizeDisabled {
			l.onContainerResize(m.Width, m.Height)
			return l, nil
		}
		var cmds []tea.Cmd
		for _, h := range l.ctx.MessageHandlers {
			if cmd := h(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return l, tea.Batch(cmds...)
	case tea.KeyMsg:
		var cmds []tea.Cmd
		if cmd := l.handleKey(m); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if cmd := l.drainPendingCmds(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, h := range l.ctx.KeydownHandlers {
			if cmd := h(m); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return l, tea.Batch(cmds...)
	case tea.MouseMsg:
		if m.Action == tea.MouseActionPress {
			var wheelCmd tea.Cmd
			switch m.Button {
			case tea.MouseButtonWheelUp:
				wheelCmd = l.scroll.HandleWheel(0, -3)
			case tea.MouseButtonWheelDown:
				wheelCmd = l.scroll.HandleWheel(0, 3)
			}
			return l, tea.Batch(wheelCmd, l.drainPendingCmds())
		}
		return l, nil
	default:
		scrollCmd := l.scroll.Update(msg)
		pendingCmd := l.drainPendingCmds()
		var cmds []tea.Cmd
		if scrollCmd != nil {
			cmds = append(cmds, scrollCmd)
		}
		if pendingCmd != nil {
			cmds = append(cmds, pendingCmd)
		}
		for _, h := range l.ctx.MessageHandlers {
			if cmd := h(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return l, tea.Batch(cmds...)
	}
}

func (l *List) handleKey(m tea.KeyMsg) tea.Cmd {
	switch m.String() {
	case "up", "k":
		return l.scroll.ScrollBy(-l.cache.GetSize(0))
	case "down", "j":
		return l.scroll.ScrollBy(l.cache.GetSize(0))
	case "pgup":
		return l.scroll.ScrollBy(-l.containerSize)
	case "pgdown":
		return l.scroll.ScrollBy(l.containerSize)
	case "home", "g":
		return l.scroll.ScrollTo(0, true)
	case "end", "G":
		return l.scroll.ScrollTo(l.cache.GetTotalSize(), true)
	}
	return nil
}

// View satisfies tea.Model, rendering the current render range's cells.
func (l *List) View() string {
	indices := l.renderer.RenderedIndices()
	sort.Ints(indices)

	if l.ctx.gridColumns > 0 {
		return l.renderGrid(indices)
	}

	lines := make([]string, 0, len(indices))
	for _, i := range indices {
		cell, ok := l.renderer.GetCell(i)
		if !ok {
			continue
		}
		lines = append(lines, styledCellText(cell))
	}
	if l.opts.Reverse {
		for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
			lines[i], lines[j] = lines[j], lines[i]
		}
	}
	if l.opts.Orientation == Horizontal {
		return strings.Join(lines, " ")
	}
	return strings.Join(lines, "\n")
}

// renderGrid groups rendered cells by Cell.Row and joins Cell.Col order
// within each row, the layout grid's GridPositionFunc promises but the
// single-column path above never consults.
func (l *List) renderGrid(indices []int) string {
	rows := make(map[int][]*renderer.Cell)
	for _, i := range indices {
		cell, ok := l.renderer.GetCell(i)
		if !ok {
			continue
		}
		rows[cell.Row] = append(rows[cell.Row], cell)
	}

	rowNums := make([]int, 0, len(rows))
	for r := range rows {
		rowNums = append(rowNums, r)
	}
	sort.Ints(rowNums)

	lines := make([]string, 0, len(rowNums))
	for _, r := range rowNums {
		cells := rows[r]
		sort.Slice(cells, func(i, j int) bool { return cells[i].Col < cells[j].Col })
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = styledCellText(cell)
		}
		lines = append(lines, strings.Join(parts, ""))
	}
	return strings.Join(lines, "\n")
}

// styledCellText applies the focus/selection style to a cell's content,
// the styling step shared by the single-column and grid render paths.
func styledCellText(cell *renderer.Cell) string {
	text := cell.Content()
	switch {
	case cell.Selected:
		text = selectedStyle.Render(text)
	case cell.Focused:
		text = focusedStyle.Render(text)
	}
	return text
}

func (l *List) total() int {
	if l.ctx != nil && l.ctx.virtualTotalFn != nil {
		return l.ctx.virtualTotalFn()
	}
	return l.data.Len()
}

// renderIfNeeded recomputes the visible/render range and only re-renders
// when it changed, the core's default implementation of the replaceable
// renderIfNeeded pipeline entry point.
func (l *List) renderIfNeeded() {
	var vis viewport.Range
	l.ctx.visibleRangeFn(l.scroll.GetScrollTop(), l.containerSize, l.cache, l.total(), &vis)
	if vis.Equal(l.lastVisible) {
		return
	}
	l.lastVisible = vis
	l.doRender(vis)
}

// forceRender always re-renders regardless of whether the range changed.
func (l *List) forceRender() {
	var vis viewport.Range
	l.ctx.visibleRangeFn(l.scroll.GetScrollTop(), l.containerSize, l.cache, l.total(), &vis)
	l.lastVisible = vis
	l.doRender(vis)
}

func (l *List) doRender(vis viewport.Range) {
	var rr viewport.Range
	viewport.CalculateRenderRange(vis, l.opts.Overscan, l.total(), &rr)
	l.lastRender = rr

	pos := l.ctx.positionFn
	if pos == nil {
		pos = l.defaultPositionFn()
	}
	l.renderer.Render(dataManagerAdapter{l.data}, rr, l.selected, l.focusedIndex, l.total(), pos, l.ctx.gridPositionFn)

	l.emitter.Emit(events.RangeChange, events.RangeChangePayload{Range: vis})
}

func (l *List) defaultPositionFn() renderer.PositionFunc {
	if l.comp.IsCompressed {
		return func(i int) float64 {
			return compression.Position(l.comp, l.scroll.GetScrollTop(), l.containerSize, l.cache, i, l.total())
		}
	}
	return func(i int) float64 { return l.cache.GetOffset(i) }
}

func (l *List) handleScrollCommit(pos float64, dir viewport.Direction, velocity float64) {
	l.ctx.renderIfNeeded()
	for _, h := range l.ctx.AfterScroll {
		if cmd := h(pos, dir); cmd != nil {
			l.pendingCmds = append(l.pendingCmds, cmd)
		}
	}
	l.emitter.Emit(events.Scroll, events.ScrollPayload{ScrollPos: pos, Direction: dir, Velocity: velocity})
}

// drainPendingCmds returns every tea.Cmd queued by an AfterScroll handler
// since the last drain, batched into one, and clears the queue.
func (l *List) drainPendingCmds() tea.Cmd {
	if len(l.pendingCmds) == 0 {
		return nil
	}
	cmds := l.pendingCmds
	l.pendingCmds = nil
	return tea.Batch(cmds...)
}

func (l *List) onContainerResize(width, height int) {
	l.containerW, l.containerH = width, height
	l.containerSize = float64(containerMainAxis(Options{Orientation: l.opts.Orientation, ContainerWidth: width, ContainerHeight: height}))
	l.renderer.SetMaxWidth(width)
	l.scroll.UpdateContainerHeight(l.containerSize, l.cache.GetTotalSize())
	for _, h := range l.ctx.ResizeHandlers {
		h(width, height)
	}
	l.emitter.Emit(events.Resize, events.ResizePayload{Width: width, Height: height})
	l.ctx.forceRender()
}

func (l *List) setSizeConfig(spec interface{}) {
	switch v := spec.(type) {
	case float64:
		l.fixedItemSize = v
		l.variableSizeFn = nil
		l.cache = size.NewFixed(v, l.total())
	case size.SizeFunc:
		l.variableSizeFn = v
		l.cache = size.NewVariable(v, l.total())
	default:
		return
	}
	l.rebuildSizeCache(l.total())
}

func (l *List) rebuildSizeCache(total int) {
	if total < 0 {
		total = l.data.Len()
	}
	if l.variableSizeFn != nil {
		l.cache = size.NewVariable(l.variableSizeFn, total)
	} else {
		l.cache = size.NewFixed(l.fixedItemSize, total)
	}
	l.updateCompressionMode()
	l.scroll.UpdateContainerHeight(l.containerSize, l.cache.GetTotalSize())
	l.ctx.UpdateContentSize(total)
	l.ctx.forceRender()
}

func (l *List) updateCompressionMode() {
	wasCompressed := l.comp.IsCompressed
	l.comp = compression.Compute(l.cache, l.opts.MaxVirtualSize)

	if l.comp.IsCompressed && !wasCompressed {
		l.scroll.EnableCompression(l.comp.VirtualSize)
		l.ctx.SetVisibleRangeFn(func(scroll, container float64, sc size.Cache, total int, out *viewport.Range) {
			compression.VisibleRange(l.comp, scroll, container, sc, total, out)
		})
		l.ctx.SetScrollToPosFn(func(idx int, sc size.Cache, container float64, total int, align viewport.Align) float64 {
			return compression.ScrollToIndex(l.comp, idx, sc, container, total, align)
		})
	} else if !l.comp.IsCompressed && wasCompressed {
		l.scroll.DisableCompression(l.comp.ActualSize)
		l.ctx.SetVisibleRangeFn(viewport.SimpleVisibleRange)
		l.ctx.SetScrollToPosFn(viewport.SimpleScrollToIndex)
	}
}

// --- Public API surface (spec.md §6.4) ---

// SetItems replaces the entire item collection and rebuilds size/state.
func (l *List) SetItems(items []Item) {
	if l.isDestroyed {
		return
	}
	l.data.SetItems(items)
	l.rebuildSizeCache(l.data.Len())
}

// AppendItems adds items to the end without disturbing current scroll
// position.
func (l *List) AppendItems(items []Item) {
	if l.isDestroyed {
		return
	}
	l.data.AppendItems(items)
	l.rebuildSizeCache(l.data.Len())
}

// PrependItems adds items to the beginning.
func (l *List) PrependItems(items []Item) {
	if l.isDestroyed {
		return
	}
	l.data.PrependItems(items)
	l.rebuildSizeCache(l.data.Len())
}

// UpdateItem replaces the item with id in place, if present.
func (l *List) UpdateItem(id string, item Item) bool {
	if l.isDestroyed {
		return false
	}
	ok := l.data.UpdateItem(id, item)
	if ok {
		l.ctx.forceRender()
	}
	return ok
}

// RemoveItem removes the item with id, if present.
func (l *List) RemoveItem(id string) bool {
	if l.isDestroyed {
		return false
	}
	ok := l.data.RemoveItem(id)
	if ok {
		l.rebuildSizeCache(l.data.Len())
	}
	return ok
}

// Reload re-renders against the current data manager, used after an
// external store mutation the engine wasn't told about directly.
func (l *List) Reload() {
	if l.isDestroyed {
		return
	}
	l.rebuildSizeCache(l.data.Len())
}

// ScrollToIndex scrolls so item idx is visible with the given alignment.
func (l *List) ScrollToIndex(idx int, align viewport.Align, smooth bool) tea.Cmd {
	if l.isDestroyed {
		return nil
	}
	pos := l.ctx.scrollToPosFn(idx, l.cache, l.containerSize, l.total(), align)
	scrollCmd := l.scroll.ScrollTo(pos, smooth)
	return tea.Batch(scrollCmd, l.drainPendingCmds())
}

// CancelScroll aborts any in-flight smooth scroll.
func (l *List) CancelScroll() {
	if l.isDestroyed {
		return
	}
	l.scroll.CancelScroll()
}

// GetScrollPosition returns the current scroll position.
func (l *List) GetScrollPosition() float64 {
	return l.scroll.GetScrollTop()
}

// On registers a listener for the named event.
func (l *List) On(name events.Name, fn events.Listener) int { return l.emitter.On(name, fn) }

// Off removes a previously registered listener.
func (l *List) Off(name events.Name, handle int) { l.emitter.Off(name, handle) }

// Call invokes a feature-contributed method installed via
// Context.Methods.
func (l *List) Call(name string, args ...interface{}) (interface{}, error) {
	fn, ok := l.ctx.Methods[name]
	if !ok {
		return nil, fmt.Errorf("vlist: no method registered with name %q", name)
	}
	return fn(args...)
}

// Context exposes the builder context for features or callers that need
// direct access to seams after Build (rare; most wiring happens during
// Feature.Setup).
func (l *List) Context() *Context { return l.ctx }

// SetFocusedIndex updates which index is considered keyboard-focused,
// which the renderer marks with the focused style. The core's own key
// handling scrolls the list and does not read or move the focused index.
func (l *List) SetFocusedIndex(i int) {
	l.focusedIndex = i
	l.ctx.forceRender()
}

// Selected exposes the selection-state map features mutate; the engine
// itself only reads it during render.
func (l *List) Selected() map[string]bool {
	if l.selected == nil {
		l.selected = make(map[string]bool)
	}
	return l.selected
}

// Destroy runs every registered feature's Destroy hook in reverse setup
// (priority) order, then every ctx.DestroyHandlers entry in reverse
// registration order, stops the scroll controller's pending timers, clears
// the renderer, and marks the list destroyed. After that, Update, SetItems,
// AppendItems, PrependItems, UpdateItem, RemoveItem, Reload, ScrollToIndex,
// CancelScroll and Destroy are silent no-ops; GetScrollPosition, On, Off,
// Call, SetFocusedIndex, Selected and View do not check for it.
func (l *List) Destroy() {
	if l.isDestroyed {
		return
	}
	for i := len(l.features) - 1; i >= 0; i-- {
		if f := l.features[i]; f.Destroy != nil {
			f.Destroy(l.ctx)
		}
	}
	for i := len(l.ctx.DestroyHandlers) - 1; i >= 0; i-- {
		l.ctx.DestroyHandlers[i]()
	}
	l.scroll.Destroy()
	l.renderer.Destroy()
	l.emitter.Clear()
	l.isDestroyed = true
}
