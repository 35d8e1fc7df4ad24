package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineal-app/lineal/backend-go/internal/document"
)

type recordingSink struct {
	batches [][]MoveRecord
}

func (s *recordingSink) RecordMoves(records []MoveRecord) {
	s.batches = append(s.batches, records)
}

func sampleEngine() *Engine {
	e := NewEngine()
	e.LoadSampleDocument("proj_test")
	return e
}

func TestMoveSelectionReplacesSnapshot(t *testing.T) {
	e := sampleEngine()
	before := e.Document()

	e.SetSelection([]string{"obj_tri"})
	e.MoveSelection(10, 20, nil)

	after := e.Document()
	require.NotSame(t, before, after)

	moved, _ := after.ElementByID("obj_tri")
	assert.Equal(t, 530.0, moved.Path.SubPaths[0][0].X)
	assert.Equal(t, 440.0, moved.Path.SubPaths[0][0].Y)

	old, _ := before.ElementByID("obj_tri")
	assert.Equal(t, 520.0, old.Path.SubPaths[0][0].X)
}

func TestMoveSelectionLeafInNestedGroupsMovesRootOnly(t *testing.T) {
	e := sampleEngine()
	e.SetSelection([]string{"obj_wave"})
	e.MoveSelection(10, 0, nil)

	doc := e.Document()
	outer, _ := doc.ElementByID("obj_outer")
	inner, _ := doc.ElementByID("obj_inner")
	wave, _ := doc.ElementByID("obj_wave")

	assert.Equal(t, 210.0, outer.Group.Transform.X)
	assert.Equal(t, 120.0, outer.Group.Transform.Y)
	assert.Equal(t, 40.0, inner.Group.Transform.X)
	assert.Equal(t, 0.0, wave.Path.SubPaths[0][0].X)
}

func TestMoveSelectionShiftsSourceAnchoredLabel(t *testing.T) {
	e := sampleEngine()
	e.SetSelection([]string{"obj_wave"})
	e.MoveSelection(10, -5, nil)

	label, _ := e.Document().ElementByID("obj_label")
	anchor := FromSlice(label.Text.AnchorMatrix)
	x, y := anchor.ApplyToPoint(0, 0)
	assert.InDelta(t, 10.0, x, standardTol)
	assert.InDelta(t, -5.0, y, standardTol)
	// The text's own coordinates are untouched; the anchor carries it.
	assert.Equal(t, 210.0, label.Text.X)
}

func TestMoveSelectionSyncsClipDefinition(t *testing.T) {
	e := sampleEngine()
	e.SetSelection([]string{"obj_photo"})
	e.MoveSelection(5, 5, nil)

	def, ok := e.Document().DefinitionByID("def_vignette")
	require.True(t, ok)
	// The image owns its frame, so the definition origin stays put and
	// only the cache-busting version moves.
	assert.Equal(t, 760.0, def.OriginX)
	assert.Equal(t, int64(1), def.Version)
	assert.Equal(t, "def_vignette-v1", def.RenderID())
}

func TestMoveSelectionNotifiesBusOnce(t *testing.T) {
	e := sampleEngine()
	calls := 0
	e.Bus().Subscribe(EventElementsMoved, func() { calls++ })

	e.SetSelection([]string{"obj_tri"})
	e.MoveSelection(1, 1, nil)
	assert.Equal(t, 1, calls)

	// A no-op move publishes nothing.
	e.MoveSelection(0, 0, nil)
	assert.Equal(t, 1, calls)
}

func TestMoveSelectionRecordsAnimationForTrackedElements(t *testing.T) {
	e := sampleEngine()
	sink := &recordingSink{}
	e.SetAnimationSink(sink)

	// obj_tri has no track; nothing to reconcile.
	e.SetSelection([]string{"obj_tri"})
	e.MoveSelection(1, 1, nil)
	assert.Empty(t, sink.batches)

	// obj_outer absorbs the delta and carries track_x.
	e.SetSelection([]string{"obj_wave"})
	e.MoveSelection(10, 0, nil)
	require.Len(t, sink.batches, 1)
	require.Len(t, sink.batches[0], 1)
	rec := sink.batches[0][0]
	assert.Equal(t, "obj_outer", rec.ElementID)
	x, y := rec.To.ApplyToPoint(0, 0)
	assert.InDelta(t, 10.0, x, standardTol)
	assert.InDelta(t, 0.0, y, standardTol)
}

func TestEnterGroupValidation(t *testing.T) {
	e := sampleEngine()

	assert.Error(t, e.EnterGroup("obj_tri"))
	assert.Error(t, e.EnterGroup("obj_missing"))
	assert.Equal(t, "", e.EditGroupID())

	require.NoError(t, e.EnterGroup("obj_outer"))
	assert.Equal(t, "obj_outer", e.EditGroupID())

	e.ExitGroup()
	assert.Equal(t, "", e.EditGroupID())
}

func TestGroupLocalMoveCountersAncestorRotation(t *testing.T) {
	e := sampleEngine()
	require.NoError(t, e.EnterGroup("obj_outer"))
	e.SetSelection([]string{"obj_inner"})
	e.MoveSelection(10, 0, nil)

	// obj_outer is rotated 30 degrees, so the world delta folds into
	// obj_inner rotated back by the same amount.
	rad := 30 * math.Pi / 180
	inner, _ := e.Document().ElementByID("obj_inner")
	assert.InDelta(t, 40+10*math.Cos(rad), inner.Group.Transform.X, standardTol)
	assert.InDelta(t, -10*math.Sin(rad), inner.Group.Transform.Y, standardTol)

	outer, _ := e.Document().ElementByID("obj_outer")
	assert.Equal(t, 200.0, outer.Group.Transform.X)
}

func TestGroupLocalMoveIgnoresOutsideSelection(t *testing.T) {
	e := sampleEngine()
	require.NoError(t, e.EnterGroup("obj_outer"))
	before := e.Document()
	e.SetSelection([]string{"obj_tri"})
	e.MoveSelection(10, 10, nil)
	assert.Same(t, before, e.Document())
}

func TestMoveSelectionPrecisionOverride(t *testing.T) {
	e := sampleEngine()
	e.SetSelection([]string{"obj_tri"})
	p := 1
	e.MoveSelection(1.0/3.0, 0, &p)

	tri, _ := e.Document().ElementByID("obj_tri")
	assert.Equal(t, 520.3, tri.Path.SubPaths[0][0].X)
}

func TestSetDocumentResetsEditingState(t *testing.T) {
	e := sampleEngine()
	e.SetSelection([]string{"obj_tri"})
	require.NoError(t, e.EnterGroup("obj_outer"))

	e.SetDocument(document.NewEmptyDocument("proj_next", "Next", "tl_root"))
	assert.Empty(t, e.Selection())
	assert.Equal(t, "", e.EditGroupID())
}

func TestLoadDocumentRejectsBadJSON(t *testing.T) {
	e := NewEngine()
	assert.Error(t, e.LoadDocument("{not json"))
	assert.NoError(t, e.LoadDocument(`{"project":{"id":"proj_x"},"elements":[]}`))
	assert.Equal(t, "proj_x", e.Document().Project.ID)
}

func TestMoveSelectionWithoutDocumentIsNoOp(t *testing.T) {
	e := NewEngine()
	e.SetSelection([]string{"obj_a"})
	e.MoveSelection(5, 5, nil)
	assert.Nil(t, e.Document())
}
