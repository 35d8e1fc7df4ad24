package engine

import (
	"log/slog"

	"github.com/lineal-app/lineal/backend-go/internal/document"
)

// MoveMode selects how a movement pass scopes its candidates.
type MoveMode int

const (
	// ModeNormal moves the selection in the full document.
	ModeNormal MoveMode = iota
	// ModeGroupLocal restricts movement to elements inside the entered
	// group; everything outside is inert regardless of selection.
	ModeGroupLocal
)

// MoveResult is the outcome of one movement pass.
type MoveResult struct {
	// Doc is the replacement snapshot. When nothing moved it is the
	// input snapshot, pointer-identical.
	Doc *document.Document

	// RootGroups holds the frame-owning elements that absorbed the
	// delta into their own transform.
	RootGroups map[string]bool

	// Changed holds every id whose stored data was mutated: root
	// groups, directly translated leaves, and source-anchored elements.
	Changed map[string]bool

	// Subtree holds the ids excluded from direct mutation because an
	// updated ancestor frame already carries them.
	Subtree map[string]bool
}

// Moved reports whether the pass touched anything.
func (r *MoveResult) Moved() bool {
	return len(r.Changed) > 0
}

// Move applies a world-space delta to the selection and returns a new
// snapshot. The input snapshot is never mutated: callers observe either
// the complete result or the unchanged original.
//
// Per entity, in one pass over the collection:
//   - root groups fold a re-derived local delta into their own frame,
//   - members of a moved subtree are left untouched,
//   - elements anchored to a moved group's source get the world delta
//     pre-multiplied into their anchor matrix,
//   - remaining selected leaves are translated through their kind's
//     registered translator.
//
// A singular ancestor transform downgrades that one entity to the
// uncorrected world delta; a drag never freezes mid-gesture.
func Move(reg *Registry, lookup document.Lookup, doc *document.Document, selectedIDs []string, dx, dy float64, precision int, mode MoveMode, editGroupID string) *MoveResult {
	res := &MoveResult{
		Doc:        doc,
		RootGroups: make(map[string]bool),
		Changed:    make(map[string]bool),
		Subtree:    make(map[string]bool),
	}
	if len(selectedIDs) == 0 || (dx == 0 && dy == 0) {
		return res
	}

	var inside map[string]bool
	if mode == ModeGroupLocal && editGroupID != "" {
		inside = document.Descendants(lookup, editGroupID)
	}
	pool := candidatePool(lookup, selectedIDs, inside)
	if len(pool) == 0 {
		return res
	}

	descendants := func(gid string) map[string]bool {
		return document.Descendants(lookup, gid)
	}
	ms := ResolveMovableSet(reg, lookup, pool, descendants, inside)

	selected := make(map[string]bool, len(pool))
	for _, id := range pool {
		selected[id] = true
	}
	rootSet := make(map[string]bool, len(ms.RootGroups))
	for _, id := range ms.RootGroups {
		rootSet[id] = true
	}

	next := doc.CloneElements()
	for i := range next {
		el := &next[i]
		switch {
		case rootSet[el.ID]:
			ldx, ldy := localDelta(reg, lookup, el, dx, dy)
			cap, ok := reg.Capability(el.Kind)
			if !ok || cap.FoldDelta == nil {
				continue
			}
			cp := el.Clone()
			cap.FoldDelta(&cp, ldx, ldy)
			next[i] = cp
			res.RootGroups[el.ID] = true
			res.Changed[el.ID] = true

		case ms.MovedSubtree[el.ID]:
			// Rendered position already shifts through the ancestor's
			// updated frame. Touching the raw data here is the
			// double-translation bug.
			res.Subtree[el.ID] = true

		case !selected[el.ID] && anchoredToSource(el, ms.SourceIDs):
			cp := el.Clone()
			folded := Translate(dx, dy).Multiply(FromSlice(cp.Text.AnchorMatrix))
			cp.Text.AnchorMatrix = folded.ToSlice()
			next[i] = cp
			res.Changed[el.ID] = true

		case selected[el.ID]:
			cap, ok := reg.Capability(el.Kind)
			if !ok || cap.Translate == nil {
				continue
			}
			moved, ok := cap.Translate(*el, dx, dy, precision)
			if !ok {
				continue
			}
			next[i] = moved
			res.Changed[el.ID] = true
		}
	}

	if len(res.Changed) == 0 {
		return res
	}

	res.Doc = &document.Document{
		Project:     doc.Project,
		Elements:    next,
		Definitions: doc.CloneDefinitions(),
		Timelines:   doc.Timelines,
		Tracks:      doc.Tracks,
		Keyframes:   doc.Keyframes,
	}
	return res
}

// localDelta re-expresses a world delta inside the element's enclosing
// frame: the inverse cumulative parent transform applied to the delta,
// minus the same inverse applied to the origin. The subtraction strips
// the translation the inverse contributes, leaving only the directional
// effect of the delta under ancestor rotation/scale.
func localDelta(reg *Registry, lookup document.Lookup, el *document.Element, dx, dy float64) (float64, float64) {
	parentXf := CumulativeParentTransform(reg, lookup, el)
	inv, err := parentXf.Invert()
	if err != nil {
		slog.Warn("singular ancestor transform, using world delta", "element", el.ID)
		return dx, dy
	}
	px, py := inv.ApplyToPoint(dx, dy)
	ox, oy := inv.ApplyToPoint(0, 0)
	return px - ox, py - oy
}

// candidatePool filters the selection down to movable candidates: stale
// ids and locked elements drop out, and group-local mode keeps only
// elements inside the entered group.
func candidatePool(lookup document.Lookup, selectedIDs []string, inside map[string]bool) []string {
	pool := make([]string, 0, len(selectedIDs))
	for _, id := range selectedIDs {
		el, ok := lookup(id)
		if !ok || el.Locked {
			continue
		}
		if inside != nil && !inside[id] {
			continue
		}
		pool = append(pool, id)
	}
	return pool
}

func anchoredToSource(el *document.Element, sources map[string]bool) bool {
	if len(sources) == 0 || el.Text == nil {
		return false
	}
	return el.Text.AnchorSourceID != "" && sources[el.Text.AnchorSourceID]
}
