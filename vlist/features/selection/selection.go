// Package selection installs single- or multi-select behavior onto a
// vlist.List: a Select/GetSelected/ClearSelection method trio, a render
// overlay for the "selected" visual state, and the item:select /
// selection:change events. Internal restoration heuristics mirror the
// identity-based matching kubewatch's resource selection tracker uses,
// generalized from Kubernetes resource identity to a plain string ID.
package selection

import (
	"vlist/vlist"
	"vlist/vlist/events"
)

// Mode selects single- or multi-item selection.
type Mode int

const (
	Single Mode = iota
	Multi
)

// Options configures the feature.
type Options struct {
	Mode Mode
}

// Feature returns a vlist.Feature installing selection behavior.
func Feature(opts Options) vlist.Feature {
	return vlist.Feature{
		Name:            "selection",
		Priority:        40,
		DeclaredMethods: []string{"select", "getSelected", "clearSelection"},
		Setup: func(ctx *vlist.Context) error {
			state := ctx.List().Selected()

			ctx.Methods["select"] = func(args ...interface{}) (interface{}, error) {
				if len(args) == 0 {
					return nil, nil
				}
				id, _ := args[0].(string)
				toggle(ctx, state, opts.Mode, id)
				return nil, nil
			}
			ctx.Methods["getSelected"] = func(args ...interface{}) (interface{}, error) {
				out := make(map[string]bool, len(state))
				for k, v := range state {
					out[k] = v
				}
				return out, nil
			}
			ctx.Methods["clearSelection"] = func(args ...interface{}) (interface{}, error) {
				for k := range state {
					delete(state, k)
				}
				ctx.Emitter().Emit(events.SelectionChange, events.SelectionChangePayload{Selected: state})
				_, forceRender := ctx.GetRenderFns()
				forceRender()
				return nil, nil
			}

			ctx.SelectHandlers = append(ctx.SelectHandlers, func(index int, item vlist.Item) {
				toggle(ctx, state, opts.Mode, item.ItemID())
				ctx.Emitter().Emit(events.ItemSelect, events.ItemSelectPayload{Index: index, ID: item.ItemID()})
			})

			return nil
		},
	}
}

func toggle(ctx *vlist.Context, state map[string]bool, mode Mode, id string) {
	if id == "" {
		return
	}
	if mode == Single {
		wasSelected := state[id]
		for k := range state {
			delete(state, k)
		}
		if !wasSelected {
			state[id] = true
		}
	} else {
		if state[id] {
			delete(state, id)
		} else {
			state[id] = true
		}
	}
	ctx.Emitter().Emit(events.SelectionChange, events.SelectionChangePayload{Selected: state})
	_, forceRender := ctx.GetRenderFns()
	forceRender()
}
