package vlist

import (
	"time"

	"vlist/internal/renderer"
	"vlist/internal/size"
)

// Orientation selects the scroll axis.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

// Options configures a Builder before any feature runs. It mirrors the
// engine's recognized top-level configuration: item sizing, overscan,
// orientation, and scroll tuning.
type Options struct {
	// Items seeds the default data manager. Replace at runtime with
	// List.SetItems, or install a different DataManager entirely via a
	// Feature calling Context.ReplaceDataManager.
	Items []Item

	// ItemSizeFunc, when set, selects a Variable size cache and takes
	// precedence over ItemSize. Otherwise ItemSize must be > 0 and selects
	// a Fixed cache.
	ItemSize     float64
	ItemSizeFunc size.SizeFunc

	// Template renders one item's content. Required.
	Template renderer.Template

	// Overscan is how many extra items are rendered beyond the visible
	// range on each side. Default 3.
	Overscan int

	Orientation Orientation
	Reverse     bool

	AriaLabel   string
	ClassPrefix string

	WheelSensitivity float64
	WheelDisabled    bool
	IdleTimeout      time.Duration
	SmoothDuration   time.Duration
	PoolCap          int
	MaxVirtualSize   float64

	// ContainerWidth/Height seed the initial viewport size before the
	// first tea.WindowSizeMsg arrives.
	ContainerWidth  int
	ContainerHeight int
}

func (o Options) withDefaults() Options {
	if o.Overscan <= 0 {
		o.Overscan = 3
	}
	if o.ClassPrefix == "" {
		o.ClassPrefix = "vlist"
	}
	if o.WheelSensitivity == 0 {
		o.WheelSensitivity = 1
	}
	if o.PoolCap <= 0 {
		o.PoolCap = renderer.DefaultPoolCap
	}
	return o
}
