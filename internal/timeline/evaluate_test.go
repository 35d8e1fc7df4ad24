package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineal-app/lineal/backend-go/internal/document"
	"github.com/lineal-app/lineal/backend-go/internal/engine"
)

func trackDoc(easing document.EasingType) *document.Document {
	return &document.Document{
		Timelines: map[string]document.Timeline{
			"tl_root": {ID: "tl_root", Length: 48, Tracks: []string{"track_x", "track_o"}},
		},
		Tracks: map[string]document.Track{
			"track_x": {ID: "track_x", ElementID: "obj_a", Property: "transform.x", Keys: []string{"kf_a", "kf_b"}},
			"track_o": {ID: "track_o", ElementID: "obj_b", Property: "style.opacity", Keys: []string{"kf_c"}},
		},
		Keyframes: map[string]document.Keyframe{
			"kf_a": {ID: "kf_a", Frame: 0, Value: 100, Easing: easing},
			"kf_b": {ID: "kf_b", Frame: 10, Value: 200, Easing: document.EasingLinear},
			"kf_c": {ID: "kf_c", Frame: 5, Value: 0.5, Easing: document.EasingLinear},
		},
	}
}

func TestEvaluateLinearInterpolation(t *testing.T) {
	doc := trackDoc(document.EasingLinear)
	got := Evaluate(doc, "tl_root", 5)
	require.Contains(t, got, "obj_a")
	assert.InDelta(t, 150.0, got["obj_a"]["transform.x"], 1e-9)
}

func TestEvaluateClampsOutsideRange(t *testing.T) {
	doc := trackDoc(document.EasingLinear)
	assert.InDelta(t, 100.0, Evaluate(doc, "tl_root", -3)["obj_a"]["transform.x"], 1e-9)
	assert.InDelta(t, 200.0, Evaluate(doc, "tl_root", 47)["obj_a"]["transform.x"], 1e-9)
}

func TestEvaluateExactKeyframe(t *testing.T) {
	doc := trackDoc(document.EasingEaseInOut)
	assert.InDelta(t, 100.0, Evaluate(doc, "tl_root", 0)["obj_a"]["transform.x"], 1e-9)
	assert.InDelta(t, 200.0, Evaluate(doc, "tl_root", 10)["obj_a"]["transform.x"], 1e-9)
}

func TestEvaluateEasing(t *testing.T) {
	// At the midpoint easeIn lags linear and easeOut leads it; easeInOut
	// meets linear exactly.
	in := Evaluate(trackDoc(document.EasingEaseIn), "tl_root", 5)["obj_a"]["transform.x"]
	out := Evaluate(trackDoc(document.EasingEaseOut), "tl_root", 5)["obj_a"]["transform.x"]
	inOut := Evaluate(trackDoc(document.EasingEaseInOut), "tl_root", 5)["obj_a"]["transform.x"]

	assert.InDelta(t, 125.0, in, 1e-9)
	assert.InDelta(t, 175.0, out, 1e-9)
	assert.InDelta(t, 150.0, inOut, 1e-9)
}

func TestEvaluateSingleKeyHolds(t *testing.T) {
	doc := trackDoc(document.EasingLinear)
	got := Evaluate(doc, "tl_root", 20)
	assert.InDelta(t, 0.5, got["obj_b"]["style.opacity"], 1e-9)
}

func TestEvaluateMissingTimelineOrTrack(t *testing.T) {
	doc := trackDoc(document.EasingLinear)
	assert.Empty(t, Evaluate(doc, "tl_missing", 5))

	doc.Timelines["tl_root"] = document.Timeline{ID: "tl_root", Tracks: []string{"track_gone"}}
	assert.Empty(t, Evaluate(doc, "tl_root", 5))
}

func TestApplyToTransform(t *testing.T) {
	base := document.Transform{X: 1, Y: 2, SX: 1, SY: 1, R: 0}
	got := ApplyToTransform(base, PropertyOverrides{"transform.x": 50, "transform.r": 45})
	assert.Equal(t, 50.0, got.X)
	assert.Equal(t, 2.0, got.Y)
	assert.Equal(t, 45.0, got.R)
}

func TestApplyToStyle(t *testing.T) {
	base := document.Style{Opacity: 1, StrokeWidth: 2}
	got := ApplyToStyle(base, PropertyOverrides{"style.opacity": 0.25})
	assert.Equal(t, 0.25, got.Opacity)
	assert.Equal(t, 2.0, got.StrokeWidth)
}

func TestPropertyClassifiers(t *testing.T) {
	assert.True(t, IsTransformProperty("transform.x"))
	assert.False(t, IsTransformProperty("style.opacity"))
	assert.True(t, IsStyleProperty("style.fill"))
}

func TestReconcilerShiftsPositionKeyframes(t *testing.T) {
	doc := trackDoc(document.EasingLinear)
	r := NewReconciler()
	r.RecordMoves([]engine.MoveRecord{{
		ElementID: "obj_a",
		From:      engine.Identity(),
		To:        engine.Translate(30, -10),
	}})
	require.True(t, r.Pending())

	next := r.Rewrite(doc)
	assert.InDelta(t, 130.0, next["kf_a"].Value, 1e-9)
	assert.InDelta(t, 230.0, next["kf_b"].Value, 1e-9)
	// Unaffected element's keyframes carry over unchanged.
	assert.InDelta(t, 0.5, next["kf_c"].Value, 1e-9)
	// The snapshot itself was not mutated.
	assert.InDelta(t, 100.0, doc.Keyframes["kf_a"].Value, 1e-9)
	assert.False(t, r.Pending())
}

func TestReconcilerAccumulatesAcrossBatches(t *testing.T) {
	doc := trackDoc(document.EasingLinear)
	r := NewReconciler()
	r.RecordMoves([]engine.MoveRecord{{ElementID: "obj_a", From: engine.Identity(), To: engine.Translate(5, 0)}})
	r.RecordMoves([]engine.MoveRecord{{ElementID: "obj_a", From: engine.Identity(), To: engine.Translate(7, 0)}})

	next := r.Rewrite(doc)
	assert.InDelta(t, 112.0, next["kf_a"].Value, 1e-9)
}

func TestReconcilerIgnoresNonPositionTracks(t *testing.T) {
	doc := trackDoc(document.EasingLinear)
	r := NewReconciler()
	r.RecordMoves([]engine.MoveRecord{{ElementID: "obj_b", From: engine.Identity(), To: engine.Translate(5, 5)}})

	next := r.Rewrite(doc)
	assert.InDelta(t, 0.5, next["kf_c"].Value, 1e-9)
}
