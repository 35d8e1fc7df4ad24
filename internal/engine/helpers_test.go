package engine

import (
	"github.com/lineal-app/lineal/backend-go/internal/document"
)

func strPtr(s string) *string { return &s }

func testGroup(id string, parent *string, children []string, tf document.Transform) document.Element {
	return document.Element{
		ID:      id,
		Kind:    document.KindGroup,
		Parent:  parent,
		Visible: true,
		Group: &document.GroupData{
			Children:  children,
			Transform: &tf,
		},
	}
}

func testMatrixGroup(id string, parent *string, children []string, m Matrix2D) document.Element {
	return document.Element{
		ID:      id,
		Kind:    document.KindGroup,
		Parent:  parent,
		Visible: true,
		Group: &document.GroupData{
			Children: children,
			Matrix:   m.ToSlice(),
		},
	}
}

func testPath(id string, parent *string, pts ...[2]float64) document.Element {
	sp := make(document.SubPath, 0, len(pts))
	for i, p := range pts {
		op := document.OpLineTo
		if i == 0 {
			op = document.OpMoveTo
		}
		sp = append(sp, document.PathCommand{Op: op, X: p[0], Y: p[1]})
	}
	return document.Element{
		ID:      id,
		Kind:    document.KindPath,
		Parent:  parent,
		Visible: true,
		Path:    &document.PathData{SubPaths: []document.SubPath{sp}},
	}
}

func testDoc(elements ...document.Element) *document.Document {
	return &document.Document{
		Project:   document.Project{ID: "proj_test", FPS: 24},
		Elements:  elements,
		Timelines: map[string]document.Timeline{},
		Tracks:    map[string]document.Track{},
		Keyframes: map[string]document.Keyframe{},
	}
}

func docLookup(doc *document.Document) document.Lookup {
	return newLookupCache().Lookup(doc)
}

func identityTransform() document.Transform {
	return document.Transform{SX: 1, SY: 1}
}
