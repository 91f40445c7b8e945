package vlist

// Feature is a self-contained unit of opt-in behavior: selection, grid
// layout, grouped sections, async data loading, snapshots, and window-scroll
// integration are all expressed as Features over the same Context contract.
type Feature struct {
	// Name identifies the feature; duplicate names are rejected at build
	// time.
	Name string
	// Priority controls setup order (ascending) and, by extension, the
	// order hooks added during setup run relative to other features'
	// hooks of differing priority. Default 50.
	Priority int
	// Setup installs the feature's hooks and replacements into ctx.
	Setup func(ctx *Context) error
	// Destroy, if set, runs in reverse setup (priority) order during
	// List.Destroy.
	Destroy func(ctx *Context)
	// DeclaredMethods lists the ctx.Methods keys this feature intends to
	// install, purely informational for conflict diagnostics.
	DeclaredMethods []string
	// Conflicts lists feature names that cannot coexist with this one;
	// checked symmetrically at build time.
	Conflicts []string
}

const defaultPriority = 50
