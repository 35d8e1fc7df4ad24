package collab

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineal-app/lineal/backend-go/internal/document"
)

func newState() *DocumentState {
	return NewDocumentState(document.NewSampleDocument("proj_test"))
}

func TestApplyMoveReplacesSnapshot(t *testing.T) {
	ds := newState()
	before := ds.Document()

	seq, err := ds.Apply(Operation{
		ID:         "op_1",
		Type:       OpElementsMove,
		ElementIDs: []string{"obj_tri"},
		DX:         10,
		DY:         20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	after := ds.Document()
	require.NotSame(t, before, after)
	tri, _ := after.ElementByID("obj_tri")
	assert.Equal(t, 530.0, tri.Path.SubPaths[0][0].X)
	assert.Equal(t, 440.0, tri.Path.SubPaths[0][0].Y)
}

func TestApplyMoveThroughNestedGroups(t *testing.T) {
	ds := newState()
	_, err := ds.Apply(Operation{
		ID:         "op_1",
		Type:       OpElementsMove,
		ElementIDs: []string{"obj_wave"},
		DX:         10,
	})
	require.NoError(t, err)

	outer, _ := ds.Document().ElementByID("obj_outer")
	wave, _ := ds.Document().ElementByID("obj_wave")
	assert.Equal(t, 210.0, outer.Group.Transform.X)
	assert.Equal(t, 0.0, wave.Path.SubPaths[0][0].X)
}

func TestApplyMoveGroupLocal(t *testing.T) {
	ds := newState()
	_, err := ds.Apply(Operation{
		ID:          "op_1",
		Type:        OpElementsMove,
		ElementIDs:  []string{"obj_inner"},
		DX:          10,
		EditGroupID: "obj_outer",
	})
	require.NoError(t, err)

	outer, _ := ds.Document().ElementByID("obj_outer")
	inner, _ := ds.Document().ElementByID("obj_inner")
	assert.Equal(t, 200.0, outer.Group.Transform.X)
	assert.NotEqual(t, 40.0, inner.Group.Transform.X)
}

func TestApplyMoveRejectsEmptyAndImmovable(t *testing.T) {
	ds := newState()

	_, err := ds.Apply(Operation{ID: "op_1", Type: OpElementsMove, DX: 5})
	assert.Error(t, err)

	_, err = ds.Apply(Operation{
		ID: "op_2", Type: OpElementsMove,
		ElementIDs: []string{"obj_missing"}, DX: 5,
	})
	assert.Error(t, err)

	assert.Equal(t, int64(0), ds.ServerSeq())
	assert.Empty(t, ds.OpLog())
}

func TestApplyStyle(t *testing.T) {
	ds := newState()
	style, _ := json.Marshal(map[string]interface{}{"fill": "#ffffff", "opacity": 0.5})

	before := ds.Document()
	_, err := ds.Apply(Operation{
		ID: "op_1", Type: OpElementStyle,
		ElementID: "obj_tri", Style: style,
	})
	require.NoError(t, err)

	tri, _ := ds.Document().ElementByID("obj_tri")
	assert.Equal(t, "#ffffff", tri.Style.Fill)
	assert.Equal(t, 0.5, tri.Style.Opacity)

	// The prior snapshot keeps its values.
	oldTri, _ := before.ElementByID("obj_tri")
	assert.Equal(t, "#e94560", oldTri.Style.Fill)
}

func TestApplyVisibilityAndLocked(t *testing.T) {
	ds := newState()
	f := false
	tr := true

	_, err := ds.Apply(Operation{ID: "op_1", Type: OpElementVisibility, ElementID: "obj_tri", Visible: &f})
	require.NoError(t, err)
	_, err = ds.Apply(Operation{ID: "op_2", Type: OpElementLocked, ElementID: "obj_tri", Locked: &tr})
	require.NoError(t, err)

	tri, _ := ds.Document().ElementByID("obj_tri")
	assert.False(t, tri.Visible)
	assert.True(t, tri.Locked)
	assert.Equal(t, int64(2), ds.ServerSeq())
}

func TestApplyRename(t *testing.T) {
	ds := newState()
	_, err := ds.Apply(Operation{ID: "op_1", Type: OpProjectRename, Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", ds.Document().Project.Name)
}

func TestApplyUnknownType(t *testing.T) {
	ds := newState()
	_, err := ds.Apply(Operation{ID: "op_1", Type: "element.teleport"})
	assert.Error(t, err)
}

func TestOpLogAndSeqAdvanceTogether(t *testing.T) {
	ds := newState()
	for i := 0; i < 3; i++ {
		_, err := ds.Apply(Operation{
			ID: "op", Type: OpElementsMove,
			ElementIDs: []string{"obj_tri"}, DX: 1,
		})
		require.NoError(t, err)
	}
	assert.Equal(t, int64(3), ds.ServerSeq())
	assert.Len(t, ds.OpLog(), 3)
}

func TestDocumentJSONCarriesSeq(t *testing.T) {
	ds := newState()
	_, err := ds.Apply(Operation{
		ID: "op_1", Type: OpElementsMove,
		ElementIDs: []string{"obj_tri"}, DX: 1,
	})
	require.NoError(t, err)

	raw, seq := ds.DocumentJSON()
	assert.Equal(t, int64(1), seq)

	var doc document.Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	tri, ok := doc.ElementByID("obj_tri")
	require.True(t, ok)
	assert.Equal(t, 521.0, tri.Path.SubPaths[0][0].X)
}

func TestPresenceManager(t *testing.T) {
	pm := NewPresenceManager()
	pm.Update("user_a", &PresencePayload{Selection: []string{"obj_tri"}})
	pm.Update("user_b", &PresencePayload{Cursor: &CursorPos{X: 1, Y: 2}})

	all := pm.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, []string{"obj_tri"}, all["user_a"].Selection)

	msg := pm.StateMessage()
	require.NotNil(t, msg)
	assert.Equal(t, TypePresenceState, msg.Type)

	pm.Remove("user_a")
	assert.Len(t, pm.GetAll(), 1)
}
