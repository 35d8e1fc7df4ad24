package engine

import (
	"math"

	"github.com/lineal-app/lineal/backend-go/internal/document"
)

// Translator shifts an element's absolute-coordinate geometry by a delta,
// rounding to the given number of decimal places. The second return is
// false when the kind is not directly movable (it only moves through an
// ancestor frame).
type Translator func(el document.Element, dx, dy float64, precision int) (document.Element, bool)

// FrameFolder folds a local-space delta into the element's own
// coordinate frame, whichever representation it holds. The element is a
// fresh clone owned by the caller.
type FrameFolder func(el *document.Element, dx, dy float64)

// Capability describes how the movement engine treats one element kind.
// OwnsFrame is the explicit frame-ownership flag: true means the kind's
// geometry is expressed inside its own transform/matrix, so moving it
// mutates the frame and never the stored geometry.
type Capability struct {
	OwnsFrame bool
	Frame     func(el *document.Element) Matrix2D
	FoldDelta FrameFolder
	Translate Translator
}

// Registry maps element kinds to their capabilities. It is resolved once
// at startup; contributed element kinds register before the engine runs.
type Registry struct {
	caps map[document.ElementKind]Capability
}

// NewRegistry returns a registry with the built-in kinds registered.
func NewRegistry() *Registry {
	r := &Registry{caps: make(map[document.ElementKind]Capability)}

	r.Register(document.KindPath, Capability{
		Translate: translatePath,
	})
	r.Register(document.KindGroup, Capability{
		OwnsFrame: true,
		Frame:     groupFrame,
		FoldDelta: foldGroupDelta,
	})
	r.Register(document.KindImage, Capability{
		OwnsFrame: true,
		Frame:     imageFrame,
		FoldDelta: foldImageDelta,
	})
	r.Register(document.KindText, Capability{
		Translate: translateText,
	})

	return r
}

// Register installs or replaces the capability for a kind.
func (r *Registry) Register(kind document.ElementKind, cap Capability) {
	r.caps[kind] = cap
}

// Capability returns the capability for a kind.
func (r *Registry) Capability(kind document.ElementKind) (Capability, bool) {
	c, ok := r.caps[kind]
	return c, ok
}

// OwnsFrame reports whether the element's kind carries its own
// coordinate frame.
func (r *Registry) OwnsFrame(el *document.Element) bool {
	c, ok := r.caps[el.Kind]
	return ok && c.OwnsFrame
}

// OwnFrame returns the element's own frame matrix, or the identity for
// kinds without one.
func (r *Registry) OwnFrame(el *document.Element) Matrix2D {
	c, ok := r.caps[el.Kind]
	if !ok || !c.OwnsFrame || c.Frame == nil {
		return Identity()
	}
	return c.Frame(el)
}

func groupFrame(el *document.Element) Matrix2D {
	g := el.Group
	if g == nil {
		return Identity()
	}
	if g.Transform != nil {
		return FromTransform(g.Transform.X, g.Transform.Y, g.Transform.SX, g.Transform.SY, g.Transform.R)
	}
	if g.Matrix != nil {
		return FromSlice(g.Matrix)
	}
	return Identity()
}

func foldGroupDelta(el *document.Element, dx, dy float64) {
	g := el.Group
	if g == nil {
		return
	}
	if g.Transform != nil {
		g.Transform.X += dx
		g.Transform.Y += dy
		return
	}
	folded := Translate(dx, dy).Multiply(FromSlice(g.Matrix))
	g.Matrix = folded.ToSlice()
}

func imageFrame(el *document.Element) Matrix2D {
	if el.Image == nil {
		return Identity()
	}
	return FromSlice(el.Image.Matrix)
}

func foldImageDelta(el *document.Element, dx, dy float64) {
	if el.Image == nil {
		return
	}
	folded := Translate(dx, dy).Multiply(FromSlice(el.Image.Matrix))
	el.Image.Matrix = folded.ToSlice()
}

func translatePath(el document.Element, dx, dy float64, precision int) (document.Element, bool) {
	if el.Path == nil {
		return el, false
	}
	cp := el.Clone()
	for si, sp := range cp.Path.SubPaths {
		for ci, cmd := range sp {
			if cmd.Op == document.OpClose {
				continue
			}
			cmd.X = roundTo(cmd.X+dx, precision)
			cmd.Y = roundTo(cmd.Y+dy, precision)
			if cmd.Op == document.OpCubic {
				cmd.C1X = roundTo(cmd.C1X+dx, precision)
				cmd.C1Y = roundTo(cmd.C1Y+dy, precision)
				cmd.C2X = roundTo(cmd.C2X+dx, precision)
				cmd.C2Y = roundTo(cmd.C2Y+dy, precision)
			}
			cp.Path.SubPaths[si][ci] = cmd
		}
	}
	return cp, true
}

func translateText(el document.Element, dx, dy float64, precision int) (document.Element, bool) {
	if el.Text == nil {
		return el, false
	}
	cp := el.Clone()
	cp.Text.X = roundTo(cp.Text.X+dx, precision)
	cp.Text.Y = roundTo(cp.Text.Y+dy, precision)
	return cp, true
}

// roundTo rounds v to the given number of decimal places. A negative
// precision disables rounding.
func roundTo(v float64, precision int) float64 {
	if precision < 0 {
		return v
	}
	p := math.Pow(10, float64(precision))
	return math.Round(v*p) / p
}
