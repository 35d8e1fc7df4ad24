package engine

import (
	"github.com/lineal-app/lineal/backend-go/internal/document"
)

// SyncDefinitions realigns externally referenced definitions (clip
// regions and similar) after a movement pass. It mutates the result
// snapshot's definitions, which Move has already cloned; the published
// prior snapshot is never touched.
//
// The branch on frame ownership is the whole point of this component:
//   - An owner that carries its own coordinate frame had that frame
//     updated by the move, so the definition's geometry (expressed
//     inside the frame) follows automatically. Shifting the stored
//     origin as well is the classic double-movement bug.
//   - An owner whose raw absolute coordinates were translated needs the
//     definition's origin shifted by exactly the same delta to stay
//     visually attached.
//   - An owner inside a moved subtree kept its raw coordinates, so the
//     definition follows through the ancestor frame the same way the
//     owner does; only the version moves.
//
// Every definition whose effective geometry changed gets a version bump
// so downstream caches keyed by stable id (see Definition.RenderID) are
// forced to refetch.
func SyncDefinitions(reg *Registry, lookup document.Lookup, res *MoveResult, dx, dy float64) {
	if !res.Moved() {
		return
	}
	doc := res.Doc
	for i := range doc.Definitions {
		def := &doc.Definitions[i]
		shift := false
		changed := false
		for _, ownerID := range def.Owners {
			screenMoved := res.Changed[ownerID] || res.Subtree[ownerID]
			if !screenMoved {
				continue
			}
			changed = true
			owner, ok := lookup(ownerID)
			if !ok {
				continue
			}
			if reg.OwnsFrame(owner) {
				continue
			}
			if res.Changed[ownerID] {
				shift = true
			}
		}
		if shift {
			def.OriginX += dx
			def.OriginY += dy
			// Rebuild the sub-path slices outright: the cloned
			// definition still shares command storage with the prior
			// snapshot.
			shifted := make([]document.SubPath, len(def.SubPaths))
			for si, sp := range def.SubPaths {
				cp := append(document.SubPath(nil), sp...)
				for ci := range cp {
					if cp[ci].Op == document.OpClose {
						continue
					}
					cp[ci].X += dx
					cp[ci].Y += dy
					if cp[ci].Op == document.OpCubic {
						cp[ci].C1X += dx
						cp[ci].C1Y += dy
						cp[ci].C2X += dx
						cp[ci].C2Y += dy
					}
				}
				shifted[si] = cp
			}
			def.SubPaths = shifted
		}
		if changed {
			def.Version++
		}
	}
}
