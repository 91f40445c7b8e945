// Package scrollctl owns the scroll position for a virtualized list: where
// it comes from (a notional native region, manual wheel capture, or the
// terminal window itself), how it moves smoothly, and how scroll velocity
// and idleness are tracked.
package scrollctl

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"vlist/internal/viewport"
)

// Mode selects where scroll position comes from.
type Mode int

const (
	// ModeNative is the default: the controller is the sole source of
	// truth for position, as if it owned an overflow:auto region.
	ModeNative Mode = iota
	// ModeManual is active while the list is compressed: wheel input is
	// captured and the position counter is the only source of truth.
	ModeManual
	// ModeWindow binds the controller's position to the terminal window's
	// own scroll/resize events rather than an internal region.
	ModeWindow
)

// EasingFunc maps a normalized progress in [0,1] to an eased progress,
// kept from the demo's animation idiom so smooth scrolling and other
// terminal transitions can share the same easing vocabulary.
type EasingFunc func(t float64) float64

// EaseOutCubic decelerates toward the end of the animation.
func EaseOutCubic(t float64) float64 {
	t--
	return t*t*t + 1
}

// DefaultSmoothDuration is how long a smooth ScrollTo animates for.
const DefaultSmoothDuration = 300 * time.Millisecond

// DefaultIdleTimeout is how long scrolling must be quiet before the idle
// callback fires and the velocity tracker resets.
const DefaultIdleTimeout = 150 * time.Millisecond

// frameRate is the tick interval of smooth-scroll animation frames,
// matching the 60fps cadence the demo's animation manager uses. Immediate
// scrolls and wheel input are not throttled to it: each one commits at once.
const frameRate = 16 * time.Millisecond

// Config holds tunable controller parameters.
type Config struct {
	WheelSensitivity float64
	IdleTimeout      time.Duration
	SmoothDuration   time.Duration
	Easing           EasingFunc
	Horizontal       bool
	WheelEnabled     bool
}

// DefaultConfig returns the controller's default tuning.
func DefaultConfig() Config {
	return Config{
		WheelSensitivity: 1,
		IdleTimeout:      DefaultIdleTimeout,
		SmoothDuration:   DefaultSmoothDuration,
		Easing:           EaseOutCubic,
		WheelEnabled:     true,
	}
}

// tickMsg drives smooth-scroll frames.
// gen guards against a stale tick from a cancelled or superseded animation
// firing after a newer one has started.
type tickMsg struct {
	gen int
}

// Controller is a scroll-position state machine with three source modes.
// It is infallible by design: every operation clamps rather than errors.
type Controller struct {
	mu sync.Mutex

	mode          Mode
	pos           float64
	maxScroll     float64
	containerSize float64
	cfg           Config

	velocity *VelocityTracker
	lastPos  float64
	dir      viewport.Direction

	idleTimer *time.Timer
	tracking  bool

	// smoothGen is bumped on every new smooth-scroll start or cancel so
	// in-flight tea.Tick callbacks from an abandoned animation are no-ops.
	smoothGen  int
	smoothFrom float64
	smoothTo   float64
	smoothAt   time.Time

	onScroll func(pos float64, dir viewport.Direction, velocity float64)
	onIdle   func()
}

// NewController returns a Controller in Native mode at position 0.
func NewController(cfg Config) *Controller {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.SmoothDuration <= 0 {
		cfg.SmoothDuration = DefaultSmoothDuration
	}
	if cfg.Easing == nil {
		cfg.Easing = EaseOutCubic
	}
	if cfg.WheelSensitivity == 0 {
		cfg.WheelSensitivity = 1
	}
	return &Controller{
		mode:     ModeNative,
		cfg:      cfg,
		velocity: NewVelocityTracker(),
	}
}

// SetOnScroll registers the callback invoked after every committed
// position change.
func (c *Controller) SetOnScroll(fn func(pos float64, dir viewport.Direction, velocity float64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onScroll = fn
}

// SetOnIdle registers the callback invoked when the idle timer fires.
func (c *Controller) SetOnIdle(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onIdle = fn
}

// Mode returns the controller's current source mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// GetScrollTop returns the current scroll position.
func (c *Controller) GetScrollTop() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

// UpdateContainerHeight recomputes maxScroll for the given container size
// and content size, and reclamps the current position.
func (c *Controller) UpdateContainerHeight(containerSize, contentSize float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.containerSize = containerSize
	c.maxScroll = contentSize - containerSize
	if c.maxScroll < 0 {
		c.maxScroll = 0
	}
	c.pos = viewport.ClampScrollPosition(c.pos, c.maxScroll)
}

// ScrollTo moves to pos, clamped to [0, maxScroll]. When smooth is true it
// returns a tea.Cmd that animates toward pos over cfg.SmoothDuration;
// otherwise the position is committed immediately and the returned command
// is nil.
func (c *Controller) ScrollTo(pos float64, smooth bool) tea.Cmd {
	c.mu.Lock()
	target := viewport.ClampScrollPosition(pos, c.maxScroll)
	if !smooth {
		c.smoothGen++ // cancel any in-flight animation
		from := c.pos
		c.mu.Unlock()
		c.commit(target)
		_ = from
		return nil
	}
	c.smoothGen++
	gen := c.smoothGen
	c.smoothFrom = c.pos
	c.smoothTo = target
	c.smoothAt = time.Now()
	c.mu.Unlock()
	return c.scrollTick(gen)
}

// ScrollBy moves the position by delta, clamped.
func (c *Controller) ScrollBy(delta float64) tea.Cmd {
	return c.ScrollTo(c.GetScrollTop()+delta, false)
}

// CancelScroll aborts any in-flight smooth-scroll animation in place.
func (c *Controller) CancelScroll() {
	c.mu.Lock()
	c.smoothGen++
	c.mu.Unlock()
}

func (c *Controller) scrollTick(gen int) tea.Cmd {
	return tea.Tick(frameRate, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// Update processes a tickMsg produced by ScrollTo(..., true); it returns
// the next frame's command, or nil once the animation completes or was
// superseded.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	tm, ok := msg.(tickMsg)
	if !ok {
		return nil
	}
	c.mu.Lock()
	if tm.gen != c.smoothGen {
		c.mu.Unlock()
		return nil // stale frame from a cancelled/superseded animation
	}
	elapsed := time.Since(c.smoothAt)
	duration := c.cfg.SmoothDuration
	from, to := c.smoothFrom, c.smoothTo
	easing := c.cfg.Easing
	c.mu.Unlock()

	if elapsed >= duration {
		c.commit(to)
		return nil
	}
	progress := float64(elapsed) / float64(duration)
	c.commit(from + (to-from)*easing(progress))
	return c.scrollTick(tm.gen)
}

// HandleWheel applies a wheel delta according to the configured mode and
// wheel policy, returning the command to settle any resulting smooth
// scroll (always non-smooth for wheel input, so always nil).
func (c *Controller) HandleWheel(deltaX, deltaY float64) tea.Cmd {
	c.mu.Lock()
	enabled := c.cfg.WheelEnabled
	horizontal := c.cfg.Horizontal
	sensitivity := c.cfg.WheelSensitivity
	mode := c.mode
	c.mu.Unlock()

	if !enabled {
		return nil
	}
	if mode != ModeManual {
		// Native/window mode: vertical passthrough, or horizontal-only
		// translation of vertical wheel motion per the native horizontal
		// policy.
		if horizontal {
			d := deltaX
			if d == 0 {
				d = deltaY
			}
			return c.ScrollBy(d * sensitivity)
		}
		return c.ScrollBy(deltaY * sensitivity)
	}

	delta := deltaY
	if horizontal {
		if deltaX != 0 {
			delta = deltaX
		}
	}
	return c.ScrollBy(delta * sensitivity)
}

// commit writes pos, updates direction/velocity, invokes onScroll, and
// (re)arms the idle timer.
func (c *Controller) commit(pos float64) {
	c.mu.Lock()
	prev := c.pos
	pos = viewport.ClampScrollPosition(pos, c.maxScroll)
	c.pos = pos
	c.dir = viewport.GetScrollDirection(prev, pos)
	now := time.Now()
	c.velocity.Update(pos, now)
	c.tracking = true

	if c.idleTimer != nil {
		c.idleTimer.Stop()
	}
	c.idleTimer = time.AfterFunc(c.cfg.IdleTimeout, c.onIdleFire)

	onScroll := c.onScroll
	dir := c.dir
	v := c.velocity.GetVelocity()
	c.mu.Unlock()

	if onScroll != nil {
		onScroll(pos, dir, v)
	}
}

func (c *Controller) onIdleFire() {
	c.mu.Lock()
	c.tracking = false
	c.velocity = NewVelocityTracker()
	onIdle := c.onIdle
	c.mu.Unlock()
	if onIdle != nil {
		onIdle()
	}
}

// GetVelocity returns the current scroll velocity in units per second.
func (c *Controller) GetVelocity() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.velocity.GetVelocity()
}

// IsTracking reports whether a scroll gesture is in progress (the idle
// timer has not yet fired).
func (c *Controller) IsTracking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracking
}

// IsAtTop reports whether the position is within threshold of 0.
func (c *Controller) IsAtTop(threshold float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos <= threshold
}

// IsAtBottom reports whether the position is within threshold of maxScroll.
func (c *Controller) IsAtBottom(threshold float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxScroll-c.pos <= threshold
}

// EnableCompression switches the controller to Manual mode, recording the
// current native scroll ratio so position is preserved proportionally.
func (c *Controller) EnableCompression(virtualSize float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeManual {
		return
	}
	ratio := 0.0
	if c.maxScroll > 0 {
		ratio = c.pos / (c.maxScroll + c.containerSize)
	}
	c.mode = ModeManual
	c.maxScroll = virtualSize - c.containerSize
	if c.maxScroll < 0 {
		c.maxScroll = 0
	}
	c.pos = viewport.ClampScrollPosition(ratio*virtualSize, c.maxScroll)
	c.smoothGen++ // abandon any in-flight animation bound to the old source
}

// DisableCompression returns the controller to Native mode, restoring the
// scroll ratio against the uncompressed content size.
func (c *Controller) DisableCompression(actualSize float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeManual {
		return
	}
	ratio := 0.0
	denom := c.maxScroll + c.containerSize
	if denom > 0 {
		ratio = c.pos / denom
	}
	c.mode = ModeNative
	c.maxScroll = actualSize - c.containerSize
	if c.maxScroll < 0 {
		c.maxScroll = 0
	}
	c.pos = viewport.ClampScrollPosition(ratio*actualSize, c.maxScroll)
	c.smoothGen++
}

// SetWindowMode switches the controller to Window mode, where the terminal
// window's own scroll position is the source of truth and this controller
// only mirrors it.
func (c *Controller) SetWindowMode(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if enabled {
		c.mode = ModeWindow
	} else if c.mode == ModeWindow {
		c.mode = ModeNative
	}
}

// Destroy cancels any pending idle timer and in-flight smooth scroll.
func (c *Controller) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.idleTimer != nil {
		c.idleTimer.Stop()
		c.idleTimer = nil
	}
	c.smoothGen++
}
