package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lineal-app/lineal/backend-go/internal/document"
)

func TestCumulativeParentTransformIdentityForRoot(t *testing.T) {
	doc := testDoc(testPath("obj_p", nil, [2]float64{0, 0}))
	lookup := docLookup(doc)
	el, ok := lookup("obj_p")
	require.True(t, ok)

	xf := CumulativeParentTransform(NewRegistry(), lookup, el)
	require.True(t, xf.IsIdentity())
}

func TestCumulativeParentTransformComposesRootToLeaf(t *testing.T) {
	doc := testDoc(
		testGroup("obj_a", nil, []string{"obj_b"}, document.Transform{X: 10, SX: 1, SY: 1, R: 90}),
		testGroup("obj_b", strPtr("obj_a"), []string{"obj_p"}, document.Transform{X: 1, SX: 1, SY: 1}),
		testPath("obj_p", strPtr("obj_b"), [2]float64{0, 0}),
	)
	lookup := docLookup(doc)
	reg := NewRegistry()

	el, _ := lookup("obj_p")
	xf := CumulativeParentTransform(reg, lookup, el)

	// B translates (1,0) first, then A rotates 90 degrees and
	// translates (10,0): origin lands at (10,1).
	x, y := xf.ApplyToPoint(0, 0)
	assertPoint(t, 10, 1, x, y)
}

func TestCumulativeParentTransformExcludesOwnFrame(t *testing.T) {
	doc := testDoc(
		testGroup("obj_a", nil, []string{"obj_b"}, document.Transform{X: 10, SX: 1, SY: 1}),
		testGroup("obj_b", strPtr("obj_a"), nil, document.Transform{X: 99, SX: 1, SY: 1}),
	)
	lookup := docLookup(doc)

	el, _ := lookup("obj_b")
	xf := CumulativeParentTransform(NewRegistry(), lookup, el)

	x, y := xf.ApplyToPoint(0, 0)
	assertPoint(t, 10, 0, x, y)
}

func TestCumulativeParentTransformSkipsNonFrameAncestors(t *testing.T) {
	// A text ancestor without a frame contributes nothing.
	doc := testDoc(
		testGroup("obj_a", nil, []string{"obj_t"}, document.Transform{X: 4, Y: 2, SX: 1, SY: 1}),
		document.Element{
			ID: "obj_t", Kind: document.KindText, Parent: strPtr("obj_a"), Visible: true,
			Text: &document.TextData{X: 0, Y: 0},
		},
		testPath("obj_p", strPtr("obj_t"), [2]float64{0, 0}),
	)
	lookup := docLookup(doc)

	el, _ := lookup("obj_p")
	xf := CumulativeParentTransform(NewRegistry(), lookup, el)
	x, y := xf.ApplyToPoint(0, 0)
	assertPoint(t, 4, 2, x, y)
}

func TestCumulativeParentTransformTerminatesOnCycle(t *testing.T) {
	p1 := testPath("obj_p1", strPtr("obj_p2"), [2]float64{0, 0})
	p2 := testPath("obj_p2", strPtr("obj_p1"), [2]float64{0, 0})
	doc := testDoc(p1, p2)
	lookup := docLookup(doc)

	el, _ := lookup("obj_p1")
	xf := CumulativeParentTransform(NewRegistry(), lookup, el)
	require.True(t, xf.IsIdentity())
}

func TestCumulativeParentTransformGroupCycle(t *testing.T) {
	// Two frame-owning groups pointing at each other: the climb stops on
	// the revisit and returns the partial product instead of looping.
	a := testGroup("obj_a", strPtr("obj_b"), nil, document.Transform{X: 1, SX: 1, SY: 1})
	b := testGroup("obj_b", strPtr("obj_a"), nil, document.Transform{X: 2, SX: 1, SY: 1})
	doc := testDoc(a, b)
	lookup := docLookup(doc)

	el, _ := lookup("obj_a")
	xf := CumulativeParentTransform(NewRegistry(), lookup, el)
	x, y := xf.ApplyToPoint(0, 0)
	assertPoint(t, 2, 0, x, y)
}

func TestCumulativeParentTransformMissingParent(t *testing.T) {
	doc := testDoc(testPath("obj_p", strPtr("obj_gone"), [2]float64{0, 0}))
	lookup := docLookup(doc)

	el, _ := lookup("obj_p")
	xf := CumulativeParentTransform(NewRegistry(), lookup, el)
	require.True(t, xf.IsIdentity())
}
