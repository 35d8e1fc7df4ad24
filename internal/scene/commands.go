package scene

import (
	"encoding/json"

	"github.com/lineal-app/lineal/backend-go/internal/document"
)

// DrawCommand is a single drawing operation for the frontend to execute
// on a Canvas2D context. Commands arrive in painter's order.
type DrawCommand struct {
	Op           string             `json:"op"`
	ElementID    string             `json:"elementId,omitempty"`
	Transform    []float64          `json:"transform,omitempty"`
	SubPaths     []document.SubPath `json:"subPaths,omitempty"`
	ClipRenderID string             `json:"clipRenderId,omitempty"`
	Fill         string             `json:"fill,omitempty"`
	Stroke       string             `json:"stroke,omitempty"`
	StrokeWidth  float64            `json:"strokeWidth,omitempty"`
	Opacity      float64            `json:"opacity,omitempty"`
	Text         string             `json:"text,omitempty"`
	X            float64            `json:"x,omitempty"`
	Y            float64            `json:"y,omitempty"`
	FontSize     float64            `json:"fontSize,omitempty"`
	ImageAssetID string             `json:"imageAssetId,omitempty"`
	ImageWidth   float64            `json:"imageWidth,omitempty"`
	ImageHeight  float64            `json:"imageHeight,omitempty"`
}

// Compile generates the draw command buffer for a graph.
func Compile(g *Graph) []DrawCommand {
	if g == nil || g.Root == nil {
		return nil
	}
	var commands []DrawCommand
	for _, child := range g.Root.Children {
		compileNode(child, &commands)
	}
	return commands
}

func compileNode(node *Node, commands *[]DrawCommand) {
	if node == nil {
		return
	}

	hasClip := len(node.ClipSubPaths) > 0
	if hasClip {
		*commands = append(*commands, DrawCommand{Op: "save"})
		*commands = append(*commands, DrawCommand{
			Op:           "clip",
			SubPaths:     node.ClipSubPaths,
			ClipRenderID: node.ClipRenderID,
		})
	}

	switch {
	case node.Kind == document.KindImage && node.ImageAssetID != "":
		*commands = append(*commands, DrawCommand{
			Op:           "image",
			ElementID:    node.ID,
			Transform:    node.World.ToSlice(),
			Opacity:      node.Opacity,
			ImageAssetID: node.ImageAssetID,
			ImageWidth:   node.ImageWidth,
			ImageHeight:  node.ImageHeight,
		})

	case node.Kind == document.KindText && node.TextContent != "":
		*commands = append(*commands, DrawCommand{
			Op:        "text",
			ElementID: node.ID,
			Transform: node.World.ToSlice(),
			Opacity:   node.Opacity,
			Fill:      node.Fill,
			Text:      node.TextContent,
			X:         node.TextX,
			Y:         node.TextY,
			FontSize:  node.TextFontSize,
		})

	case len(node.SubPaths) > 0:
		*commands = append(*commands, DrawCommand{
			Op:          "path",
			ElementID:   node.ID,
			Transform:   node.World.ToSlice(),
			SubPaths:    node.SubPaths,
			Opacity:     node.Opacity,
			Fill:        node.Fill,
			Stroke:      node.Stroke,
			StrokeWidth: node.StrokeWidth,
		})
	}

	for _, child := range node.Children {
		compileNode(child, commands)
	}

	if hasClip {
		*commands = append(*commands, DrawCommand{Op: "restore"})
	}
}

// CommandsJSON serializes a command buffer to JSON.
func CommandsJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// HitTest returns the id of the frontmost element containing the point,
// or the empty string. Children sit on top of their parents and later
// siblings on top of earlier ones.
func HitTest(g *Graph, x, y float64) string {
	if g == nil || g.Root == nil {
		return ""
	}
	for i := len(g.Root.Children) - 1; i >= 0; i-- {
		if hit := hitTestNode(g.Root.Children[i], x, y); hit != "" {
			return hit
		}
	}
	return ""
}

func hitTestNode(node *Node, x, y float64) string {
	if node == nil {
		return ""
	}
	for i := len(node.Children) - 1; i >= 0; i-- {
		if hit := hitTestNode(node.Children[i], x, y); hit != "" {
			return hit
		}
	}
	renderable := len(node.SubPaths) > 0 ||
		node.Kind == document.KindImage ||
		node.Kind == document.KindText
	if renderable && !node.Bounds.IsEmpty() && node.Bounds.Contains(x, y) {
		return node.ID
	}
	return ""
}

// SelectionBounds returns the combined world-space box of the given
// element ids.
func SelectionBounds(g *Graph, ids []string) Rect {
	if g == nil {
		return Rect{}
	}
	var result Rect
	for _, id := range ids {
		node, ok := g.ByID[id]
		if !ok || node.Bounds.IsEmpty() {
			continue
		}
		result = result.Union(node.Bounds)
	}
	return result
}
