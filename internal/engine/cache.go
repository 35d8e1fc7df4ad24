package engine

import (
	"github.com/lineal-app/lineal/backend-go/internal/document"
)

// lookupCache memoizes an id -> element index for one document snapshot.
// A drag produces a move per pointer event; without the cache every event
// would rebuild an O(n) index. The cache is keyed by snapshot pointer
// identity: looking it up with a different snapshot discards and rebuilds
// the index, so it can never serve entries across two snapshots.
type lookupCache struct {
	doc  *document.Document
	byID map[string]int
}

func newLookupCache() *lookupCache {
	return &lookupCache{}
}

// Lookup returns a resolver bound to the given snapshot, building the
// index if the snapshot changed since the last call.
func (c *lookupCache) Lookup(doc *document.Document) document.Lookup {
	if c.doc != doc || c.byID == nil {
		c.doc = doc
		c.byID = make(map[string]int, len(doc.Elements))
		for i := range doc.Elements {
			c.byID[doc.Elements[i].ID] = i
		}
	}
	return func(id string) (*document.Element, bool) {
		i, ok := c.byID[id]
		if !ok {
			return nil, false
		}
		return &doc.Elements[i], true
	}
}

// Invalidate drops the cached index regardless of snapshot identity.
func (c *lookupCache) Invalidate() {
	c.doc = nil
	c.byID = nil
}
