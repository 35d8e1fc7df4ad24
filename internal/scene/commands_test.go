package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineal-app/lineal/backend-go/internal/document"
)

func sampleGraph(t *testing.T) *Graph {
	t.Helper()
	return Build(document.NewSampleDocument("proj_test"), 0, false)
}

func TestCompilePaintersOrder(t *testing.T) {
	g := sampleGraph(t)
	commands := Compile(g)

	var ops []string
	for _, cmd := range commands {
		ops = append(ops, cmd.Op)
	}
	// tri, then the group's path, then the clipped image, then the label.
	assert.Equal(t, []string{"path", "path", "save", "clip", "image", "restore", "text"}, ops)
}

func TestCompileClipCarriesRenderID(t *testing.T) {
	g := sampleGraph(t)
	commands := Compile(g)

	var clip *DrawCommand
	for i := range commands {
		if commands[i].Op == "clip" {
			clip = &commands[i]
			break
		}
	}
	require.NotNil(t, clip)
	assert.Equal(t, "def_vignette-v0", clip.ClipRenderID)
	require.NotEmpty(t, clip.SubPaths)
	assert.Equal(t, 760.0, clip.SubPaths[0][0].X)
}

func TestCompilePathCommandFields(t *testing.T) {
	g := sampleGraph(t)
	commands := Compile(g)

	require.Equal(t, "path", commands[0].Op)
	assert.Equal(t, "obj_tri", commands[0].ElementID)
	assert.Equal(t, "#e94560", commands[0].Fill)
	assert.InDelta(t, 1.0, commands[0].Opacity, tol)
	require.Len(t, commands[0].Transform, 9)
}

func TestCompileEmptyGraph(t *testing.T) {
	assert.Nil(t, Compile(nil))
	assert.Nil(t, Compile(&Graph{}))
}

func TestCommandsJSON(t *testing.T) {
	out, err := CommandsJSON([]DrawCommand{{Op: "save"}})
	require.NoError(t, err)
	assert.Contains(t, out, `"op":"save"`)
}

func TestHitTestTopmostWins(t *testing.T) {
	g := sampleGraph(t)

	assert.Equal(t, "obj_tri", HitTest(g, 500, 500))
	assert.Equal(t, "obj_photo", HitTest(g, 900, 200))
	assert.Equal(t, "", HitTest(g, -50, -50))
}

func TestHitTestPrefersLaterSiblings(t *testing.T) {
	doc := &document.Document{Elements: []document.Element{
		{
			ID: "obj_under", Kind: document.KindPath, Visible: true, ZIndex: 0,
			Style: document.Style{Opacity: 1},
			Path: &document.PathData{SubPaths: []document.SubPath{{
				{Op: document.OpMoveTo, X: 0, Y: 0},
				{Op: document.OpLineTo, X: 100, Y: 100},
			}}},
		},
		{
			ID: "obj_over", Kind: document.KindPath, Visible: true, ZIndex: 1,
			Style: document.Style{Opacity: 1},
			Path: &document.PathData{SubPaths: []document.SubPath{{
				{Op: document.OpMoveTo, X: 50, Y: 50},
				{Op: document.OpLineTo, X: 150, Y: 150},
			}}},
		},
	}}
	g := Build(doc, 0, false)
	assert.Equal(t, "obj_over", HitTest(g, 75, 75))
	assert.Equal(t, "obj_under", HitTest(g, 25, 25))
}

func TestSelectionBounds(t *testing.T) {
	g := sampleGraph(t)

	b := SelectionBounds(g, []string{"obj_tri", "obj_photo"})
	assert.InDelta(t, 440.0, b.X, tol)
	assert.InDelta(t, 80.0, b.Y, tol)
	assert.InDelta(t, 1080.0-440.0, b.Width, tol)
	assert.InDelta(t, 560.0-80.0, b.Height, tol)

	assert.True(t, SelectionBounds(g, []string{"obj_missing"}).IsEmpty())
	assert.True(t, SelectionBounds(nil, []string{"obj_tri"}).IsEmpty())
}
