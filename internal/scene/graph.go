package scene

import (
	"github.com/lineal-app/lineal/backend-go/internal/document"
	"github.com/lineal-app/lineal/backend-go/internal/engine"
)

// Graph is the evaluated, render-ready state of a document snapshot. It
// is rebuilt wholesale when the snapshot is replaced; nodes are never
// patched in place.
type Graph struct {
	Root *Node
	ByID map[string]*Node
}

// Node is a resolved element ready for rendering. All transforms are
// composed and all inherited properties are flattened.
type Node struct {
	ID   string
	Kind document.ElementKind

	// World is parent world times local.
	World engine.Matrix2D
	Local engine.Matrix2D

	Opacity float64

	Parent   *Node
	Children []*Node

	// Clip geometry resolved from the element's clip definition.
	// ClipRenderID is versioned so renderer caches keyed by it refetch
	// when the definition changes.
	ClipRenderID string
	ClipSubPaths []document.SubPath

	SubPaths    []document.SubPath
	Fill        string
	Stroke      string
	StrokeWidth float64

	ImageAssetID string
	ImageWidth   float64
	ImageHeight  float64

	TextContent  string
	TextX        float64
	TextY        float64
	TextFontSize float64

	// Bounds is the axis-aligned bounding box in world space.
	Bounds Rect
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether the point lies inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// IsEmpty reports whether the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Center returns the center point of the rect.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}
