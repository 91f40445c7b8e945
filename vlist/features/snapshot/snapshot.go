// Package snapshot captures and restores scroll position across a data
// reset, anchored to an item identity rather than a raw offset so a
// reload that shifts earlier items (a prepend, a resort) doesn't leave
// the view looking at the wrong row.
package snapshot

import (
	"errors"

	"github.com/google/uuid"

	"vlist/vlist"
)

var errRestoreArgs = errors.New("snapshot: restoreScroll requires a single Snapshot argument")

// Snapshot is an opaque, restorable capture of scroll position.
type Snapshot struct {
	Token        string
	ScrollPos    float64
	AnchorID     string
	AnchorOffset float64
}

// Feature returns a vlist.Feature installing the "getScrollSnapshot" and
// "restoreScroll" methods on the list's Context.Methods table.
func Feature() vlist.Feature {
	return vlist.Feature{
		Name:     "snapshot",
		Priority: 50,
		Setup: func(ctx *vlist.Context) error {
			ctx.Methods["getScrollSnapshot"] = func(args ...interface{}) (interface{}, error) {
				return getScrollSnapshot(ctx), nil
			}
			ctx.Methods["restoreScroll"] = func(args ...interface{}) (interface{}, error) {
				if len(args) != 1 {
					return nil, errRestoreArgs
				}
				snap, ok := args[0].(Snapshot)
				if !ok {
					return nil, errRestoreArgs
				}
				restoreScroll(ctx, snap)
				return nil, nil
			}
			return nil
		},
	}
}

func getScrollSnapshot(ctx *vlist.Context) Snapshot {
	pos := ctx.List().GetScrollPosition()
	snap := Snapshot{Token: uuid.NewString(), ScrollPos: pos}

	vis := ctx.VisibleRange()
	if vis.Empty() {
		return snap
	}
	item, ok := ctx.DataManager().ItemAt(vis.Start)
	if !ok {
		return snap
	}
	snap.AnchorID = item.ItemID()
	snap.AnchorOffset = pos - ctx.SizeCache().GetOffset(vis.Start)
	return snap
}

// restoreScroll recomputes the anchor item's current index and scrolls to
// its offset plus the saved sub-item remainder, falling back to the raw
// saved position when the anchor no longer exists in the data set.
func restoreScroll(ctx *vlist.Context, snap Snapshot) {
	if snap.AnchorID != "" {
		if idx, ok := ctx.DataManager().IndexOf(snap.AnchorID); ok {
			pos := ctx.SizeCache().GetOffset(idx) + snap.AnchorOffset
			ctx.ScrollController().ScrollTo(pos, false)
			return
		}
	}
	ctx.ScrollController().ScrollTo(snap.ScrollPos, false)
}
