package engine

import (
	"github.com/lineal-app/lineal/backend-go/internal/document"
)

// DescendantsFunc enumerates the transitive descendant set of a group.
type DescendantsFunc func(groupID string) map[string]bool

// MovableSet is the result of resolving a selection down to the entities
// that actually receive a movement delta.
type MovableSet struct {
	// GroupsToMove holds every frame-owning element implicated by the
	// selection: selected frame owners plus every frame-owning ancestor
	// of any selected element.
	GroupsToMove map[string]bool

	// RootGroups is the subset of GroupsToMove with no other member on
	// their ancestor chain. Only these absorb the delta; nested members
	// move for free through rendering composition. Order follows the
	// selection order.
	RootGroups []string

	// MovedSubtree is RootGroups plus every transitive descendant of
	// each. Members are excluded from direct geometry mutation: touching
	// a descendant whose ancestor frame already moved would move it
	// twice relative to render output.
	MovedSubtree map[string]bool

	// SourceIDs collects the logical sources the root groups were
	// instantiated from, so externally anchored elements bound to the
	// same source can move in lock-step.
	SourceIDs map[string]bool
}

// ResolveMovableSet computes the minimal movable set for a selection.
// It is a pure set computation over one snapshot; stale ids contribute
// nothing and corrupted parent chains terminate via the visited guard.
//
// A non-nil movable set restricts which entities may absorb the delta:
// group-local editing passes the entered group's descendant set so that
// ancestors outside it stay inert and an inner group becomes the root.
func ResolveMovableSet(reg *Registry, lookup document.Lookup, selectedIDs []string, descendants DescendantsFunc, movable map[string]bool) MovableSet {
	ms := MovableSet{
		GroupsToMove: make(map[string]bool),
		MovedSubtree: make(map[string]bool),
		SourceIDs:    make(map[string]bool),
	}

	allowed := func(id string) bool {
		return movable == nil || movable[id]
	}

	var groupOrder []string
	addGroup := func(id string) {
		if allowed(id) && !ms.GroupsToMove[id] {
			ms.GroupsToMove[id] = true
			groupOrder = append(groupOrder, id)
		}
	}

	for _, id := range selectedIDs {
		el, ok := lookup(id)
		if !ok {
			continue
		}
		if reg.OwnsFrame(el) {
			addGroup(el.ID)
		}
		for _, anc := range ancestorChain(lookup, el) {
			if reg.OwnsFrame(anc) {
				addGroup(anc.ID)
			}
		}
	}

	for _, gid := range groupOrder {
		el, ok := lookup(gid)
		if !ok {
			continue
		}
		covered := false
		for _, anc := range ancestorChain(lookup, el) {
			if ms.GroupsToMove[anc.ID] {
				covered = true
				break
			}
		}
		if covered {
			continue
		}
		ms.RootGroups = append(ms.RootGroups, gid)
		ms.MovedSubtree[gid] = true
		for did := range descendants(gid) {
			ms.MovedSubtree[did] = true
		}
		if el.Group != nil && el.Group.SourceID != "" {
			ms.SourceIDs[el.Group.SourceID] = true
		}
	}

	return ms
}

// ancestorChain walks parent links upward, nearest ancestor first,
// stopping on missing ids and on cycles.
func ancestorChain(lookup document.Lookup, el *document.Element) []*document.Element {
	var chain []*document.Element
	visited := map[string]bool{el.ID: true}
	cur := el
	for cur.Parent != nil {
		pid := *cur.Parent
		if visited[pid] {
			break
		}
		visited[pid] = true
		parent, ok := lookup(pid)
		if !ok {
			break
		}
		chain = append(chain, parent)
		cur = parent
	}
	return chain
}
