package timeline

import (
	"sync"

	"github.com/lineal-app/lineal/backend-go/internal/document"
	"github.com/lineal-app/lineal/backend-go/internal/engine"
)

// Reconciler accumulates authored move deltas so keyframed positions can
// be shifted to match. Without it, moving an animated element on canvas
// would snap back to the old keyframed position on the next playback
// tick.
//
// It implements engine.AnimationSink. Records are folded into a pending
// per-element offset; Rewrite consumes the pending offsets against a
// snapshot and produces a replacement keyframe map.
type Reconciler struct {
	mu      sync.Mutex
	pending map[string][2]float64
}

func NewReconciler() *Reconciler {
	return &Reconciler{pending: make(map[string][2]float64)}
}

// RecordMoves folds a batch of move records into the pending offsets.
func (r *Reconciler) RecordMoves(records []engine.MoveRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range records {
		dx, dy := rec.To.ApplyToPoint(0, 0)
		fx, fy := rec.From.ApplyToPoint(0, 0)
		off := r.pending[rec.ElementID]
		off[0] += dx - fx
		off[1] += dy - fy
		r.pending[rec.ElementID] = off
	}
}

// Pending reports whether any offsets are waiting to be rewritten.
func (r *Reconciler) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending) > 0
}

// Rewrite produces a replacement keyframe map with the pending offsets
// folded into every transform.x / transform.y keyframe of the affected
// elements, then clears the pending state. Keyframes of unaffected
// tracks are carried over unchanged. The input snapshot is not mutated.
func (r *Reconciler) Rewrite(doc *document.Document) map[string]document.Keyframe {
	r.mu.Lock()
	pending := r.pending
	r.pending = make(map[string][2]float64)
	r.mu.Unlock()

	next := make(map[string]document.Keyframe, len(doc.Keyframes))
	for id, kf := range doc.Keyframes {
		next[id] = kf
	}
	if len(pending) == 0 {
		return next
	}

	for _, track := range doc.Tracks {
		off, ok := pending[track.ElementID]
		if !ok {
			continue
		}
		var delta float64
		switch track.Property {
		case "transform.x":
			delta = off[0]
		case "transform.y":
			delta = off[1]
		default:
			continue
		}
		if delta == 0 {
			continue
		}
		for _, kfID := range track.Keys {
			kf, ok := next[kfID]
			if !ok {
				continue
			}
			kf.Value += delta
			next[kfID] = kf
		}
	}
	return next
}
