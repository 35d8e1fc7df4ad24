package scene

import (
	"math"
	"sort"

	"github.com/lineal-app/lineal/backend-go/internal/document"
	"github.com/lineal-app/lineal/backend-go/internal/engine"
	"github.com/lineal-app/lineal/backend-go/internal/timeline"
)

// Build evaluates a document snapshot into a render-ready graph.
// When playing is true, keyframes of the root timeline are evaluated at
// the given frame and overlaid on the stored transforms; in edit mode
// the raw document values are used.
func Build(doc *document.Document, frame int, playing bool) *Graph {
	g := &Graph{ByID: make(map[string]*Node)}
	if doc == nil {
		return g
	}

	var overrides map[string]timeline.PropertyOverrides
	if playing {
		overrides = timeline.Evaluate(doc, doc.Project.RootTimeline, frame)
	}

	g.Root = &Node{World: engine.Identity(), Local: engine.Identity(), Opacity: 1}
	for _, el := range rootElements(doc) {
		child := buildNode(doc, el, g.Root, engine.Identity(), 1.0, overrides, g)
		if child == nil {
			continue
		}
		g.Root.Children = append(g.Root.Children, child)
		if !child.Bounds.IsEmpty() {
			g.Root.Bounds = g.Root.Bounds.Union(child.Bounds)
		}
	}
	return g
}

// rootElements returns the top level elements in paint order. Root
// siblings order by ZIndex; inside a group the child list is
// authoritative.
func rootElements(doc *document.Document) []*document.Element {
	var roots []*document.Element
	for i := range doc.Elements {
		if doc.Elements[i].Parent == nil {
			roots = append(roots, &doc.Elements[i])
		}
	}
	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].ZIndex < roots[j].ZIndex
	})
	return roots
}

func buildNode(
	doc *document.Document,
	el *document.Element,
	parent *Node,
	parentWorld engine.Matrix2D,
	parentOpacity float64,
	overrides map[string]timeline.PropertyOverrides,
	g *Graph,
) *Node {
	if el == nil || !el.Visible {
		return nil
	}

	style := el.Style
	var elOverrides timeline.PropertyOverrides
	if overrides != nil {
		if props, ok := overrides[el.ID]; ok {
			elOverrides = props
			style = timeline.ApplyToStyle(style, props)
		}
	}

	local := localMatrix(el, elOverrides)
	world := parentWorld.Multiply(local)
	opacity := parentOpacity * style.Opacity

	node := &Node{
		ID:          el.ID,
		Kind:        el.Kind,
		Local:       local,
		World:       world,
		Opacity:     opacity,
		Parent:      parent,
		Fill:        style.Fill,
		Stroke:      style.Stroke,
		StrokeWidth: style.StrokeWidth,
	}

	if el.ClipID != "" {
		if def, ok := doc.DefinitionByID(el.ClipID); ok {
			node.ClipRenderID = def.RenderID()
			node.ClipSubPaths = def.SubPaths
		}
	}

	switch el.Kind {
	case document.KindPath:
		if el.Path != nil {
			node.SubPaths = el.Path.SubPaths
			node.Bounds = subPathBounds(node.SubPaths, world)
		}

	case document.KindImage:
		if el.Image != nil {
			node.ImageAssetID = el.Image.AssetID
			node.ImageWidth = el.Image.Width
			node.ImageHeight = el.Image.Height
			node.Bounds = quadBounds(world, el.Image.Width, el.Image.Height)
		}

	case document.KindText:
		if el.Text != nil {
			node.TextContent = el.Text.Content
			node.TextX = el.Text.X
			node.TextY = el.Text.Y
			node.TextFontSize = el.Text.FontSize
			// Text is anchored, not frame-owned: the anchor matrix is the
			// node's local frame and the stored point rides inside it.
			node.Bounds = textBounds(el.Text, world)
		}

	case document.KindGroup:
		if el.Group != nil {
			for _, childID := range el.Group.Children {
				childEl, ok := doc.ElementByID(childID)
				if !ok {
					continue
				}
				child := buildNode(doc, childEl, node, world, opacity, overrides, g)
				if child == nil {
					continue
				}
				node.Children = append(node.Children, child)
				if !child.Bounds.IsEmpty() {
					node.Bounds = node.Bounds.Union(child.Bounds)
				}
			}
		}
	}

	g.ByID[el.ID] = node
	return node
}

// localMatrix resolves an element's own coordinate frame. Paths carry
// canvas-absolute coordinates and contribute identity; groups and
// images own a frame; anchored text contributes its anchor matrix.
func localMatrix(el *document.Element, overrides timeline.PropertyOverrides) engine.Matrix2D {
	switch el.Kind {
	case document.KindGroup:
		if el.Group == nil {
			return engine.Identity()
		}
		if el.Group.Transform != nil {
			tf := *el.Group.Transform
			if overrides != nil {
				tf = timeline.ApplyToTransform(tf, overrides)
			}
			return engine.FromTransform(tf.X, tf.Y, tf.SX, tf.SY, tf.R)
		}
		return engine.FromSlice(el.Group.Matrix)

	case document.KindImage:
		if el.Image == nil {
			return engine.Identity()
		}
		return engine.FromSlice(el.Image.Matrix)

	case document.KindText:
		if el.Text == nil || el.Text.AnchorMatrix == nil {
			return engine.Identity()
		}
		return engine.FromSlice(el.Text.AnchorMatrix)
	}
	return engine.Identity()
}

// subPathBounds computes the world-space bounding box of path geometry.
// Cubic control points are included; the hull is conservative, never
// tight.
func subPathBounds(sps []document.SubPath, world engine.Matrix2D) Rect {
	acc := boundsAccum{}
	for _, sp := range sps {
		for _, cmd := range sp {
			if cmd.Op == document.OpClose {
				continue
			}
			acc.add(world.ApplyToPoint(cmd.X, cmd.Y))
			if cmd.Op == document.OpCubic {
				acc.add(world.ApplyToPoint(cmd.C1X, cmd.C1Y))
				acc.add(world.ApplyToPoint(cmd.C2X, cmd.C2Y))
			}
		}
	}
	return acc.rect()
}

// quadBounds computes the world-space box of a width by height quad at
// the frame origin.
func quadBounds(world engine.Matrix2D, w, h float64) Rect {
	acc := boundsAccum{}
	for _, c := range [4][2]float64{{0, 0}, {w, 0}, {w, h}, {0, h}} {
		acc.add(world.ApplyToPoint(c[0], c[1]))
	}
	return acc.rect()
}

// textBounds approximates the box of a text run. Glyph metrics live in
// the renderer; an em-square estimate is enough for hit testing.
func textBounds(tx *document.TextData, world engine.Matrix2D) Rect {
	size := tx.FontSize
	if size <= 0 {
		size = 16
	}
	w := 0.6 * size * float64(len(tx.Content))
	acc := boundsAccum{}
	acc.add(world.ApplyToPoint(tx.X, tx.Y-size))
	acc.add(world.ApplyToPoint(tx.X+w, tx.Y-size))
	acc.add(world.ApplyToPoint(tx.X+w, tx.Y))
	acc.add(world.ApplyToPoint(tx.X, tx.Y))
	return acc.rect()
}

type boundsAccum struct {
	set                    bool
	minX, minY, maxX, maxY float64
}

func (b *boundsAccum) add(x, y float64) {
	if !b.set {
		b.minX, b.maxX = x, x
		b.minY, b.maxY = y, y
		b.set = true
		return
	}
	b.minX = math.Min(b.minX, x)
	b.maxX = math.Max(b.maxX, x)
	b.minY = math.Min(b.minY, y)
	b.maxY = math.Max(b.maxY, y)
}

func (b *boundsAccum) rect() Rect {
	if !b.set {
		return Rect{}
	}
	return Rect{X: b.minX, Y: b.minY, Width: b.maxX - b.minX, Height: b.maxY - b.minY}
}
