package engine

import (
	"log/slog"

	"github.com/lineal-app/lineal/backend-go/internal/document"
)

// CumulativeParentTransform returns the compounded matrix of every
// frame-owning ancestor above the element, composed in root-to-leaf
// order. The element's own frame is excluded: this answers "what frame
// do I live inside", not "what is my own transform". Elements with no
// frame-owning ancestor get the identity.
//
// The climb keeps a visited-id set. A corrupted parent chain that loops
// back on itself stops the climb and yields the product accumulated so
// far instead of hanging.
func CumulativeParentTransform(reg *Registry, lookup document.Lookup, el *document.Element) Matrix2D {
	var chain []*document.Element
	visited := map[string]bool{el.ID: true}

	cur := el
	for cur.Parent != nil {
		pid := *cur.Parent
		if visited[pid] {
			slog.Warn("parent chain cycle", "element", el.ID, "ancestor", pid)
			break
		}
		visited[pid] = true
		parent, ok := lookup(pid)
		if !ok {
			break
		}
		if reg.OwnsFrame(parent) {
			chain = append(chain, parent)
		}
		cur = parent
	}

	xf := Identity()
	for i := len(chain) - 1; i >= 0; i-- {
		xf = xf.Multiply(reg.OwnFrame(chain[i]))
	}
	return xf
}
