package vlist

import (
	"fmt"
	"sort"

	"vlist/internal/renderer"
	"vlist/internal/scrollctl"
	"vlist/internal/size"
	"vlist/vlist/events"
)

// Builder accumulates feature descriptors and materializes a List.
type Builder struct {
	opts     Options
	features []Feature
	err      error
}

// NewBuilder starts a Builder with the given base options.
func NewBuilder(opts Options) *Builder {
	return &Builder{opts: opts.withDefaults()}
}

// Use registers a feature. Order among equal priorities is registration
// order (stable sort at Build time).
func (b *Builder) Use(f Feature) *Builder {
	if f.Priority == 0 {
		f.Priority = defaultPriority
	}
	b.features = append(b.features, f)
	return b
}

// Build validates and materializes the registered features into a List.
func (b *Builder) Build() (*List, error) {
	if b.opts.Template == nil {
		return nil, fmt.Errorf("vlist: configuration error: Options.Template is required")
	}
	if b.opts.ItemSize <= 0 && b.opts.ItemSizeFunc == nil {
		return nil, fmt.Errorf("vlist: configuration error: one of Options.ItemSize or Options.ItemSizeFunc is required")
	}

	features := make([]Feature, len(b.features))
	copy(features, b.features)
	sort.SliceStable(features, func(i, j int) bool { return features[i].Priority < features[j].Priority })

	if err := validateFeatures(features); err != nil {
		return nil, err
	}

	data := NewSliceDataManager(b.opts.Items)

	var cache size.Cache
	if b.opts.ItemSizeFunc != nil {
		cache = size.NewVariable(b.opts.ItemSizeFunc, data.Len())
	} else {
		cache = size.NewFixed(b.opts.ItemSize, data.Len())
	}

	scrollCfg := scrollctl.DefaultConfig()
	scrollCfg.WheelSensitivity = b.opts.WheelSensitivity
	scrollCfg.WheelEnabled = !b.opts.WheelDisabled
	scrollCfg.Horizontal = b.opts.Orientation == Horizontal
	if b.opts.IdleTimeout > 0 {
		scrollCfg.IdleTimeout = b.opts.IdleTimeout
	}
	if b.opts.SmoothDuration > 0 {
		scrollCfg.SmoothDuration = b.opts.SmoothDuration
	}

	l := &List{
		opts:           b.opts,
		data:           data,
		cache:          cache,
		fixedItemSize:  b.opts.ItemSize,
		variableSizeFn: b.opts.ItemSizeFunc,
		scroll:         scrollctl.NewController(scrollCfg),
		renderer:       renderer.New(b.opts.PoolCap, b.opts.Template),
		emitter:        events.NewEmitter(),
		features:       features,
	}
	l.containerSize = float64(containerMainAxis(b.opts))
	l.containerW = b.opts.ContainerWidth
	l.containerH = b.opts.ContainerHeight
	l.scroll.UpdateContainerHeight(l.containerSize, cache.GetTotalSize())
	l.scroll.SetOnScroll(l.handleScrollCommit)
	l.renderer.SetMaxWidth(b.opts.ContainerWidth)

	ctx := newContext(l)
	l.ctx = ctx
	l.updateCompressionMode()

	for _, f := range features {
		if f.Setup == nil {
			continue
		}
		if err := f.Setup(ctx); err != nil {
			return nil, fmt.Errorf("vlist: feature %q setup failed: %w", f.Name, err)
		}
	}

	l.forceRender()
	l.emitter.Emit(events.RangeChange, events.RangeChangePayload{Range: l.lastVisible})

	return l, nil
}

func validateFeatures(features []Feature) error {
	seen := make(map[string]bool, len(features))
	for _, f := range features {
		if f.Name == "" {
			continue
		}
		if seen[f.Name] {
			return fmt.Errorf("vlist: configuration error: duplicate feature name %q", f.Name)
		}
		seen[f.Name] = true
	}
	for _, f := range features {
		for _, conflict := range f.Conflicts {
			if seen[conflict] {
				return fmt.Errorf("vlist: configuration error: feature %q conflicts with %q", f.Name, conflict)
			}
		}
	}
	return nil
}

func containerMainAxis(o Options) int {
	if o.Orientation == Horizontal {
		return o.ContainerWidth
	}
	return o.ContainerHeight
}
