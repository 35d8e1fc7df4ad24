package document

import "fmt"

// ElementKind identifies the concrete variant of an Element.
type ElementKind string

const (
	KindPath  ElementKind = "Path"
	KindGroup ElementKind = "Group"
	KindImage ElementKind = "Image"
	KindText  ElementKind = "Text"
)

// CommandOp is a path drawing command opcode.
type CommandOp string

const (
	OpMoveTo CommandOp = "M"
	OpLineTo CommandOp = "L"
	OpCubic  CommandOp = "C"
	OpClose  CommandOp = "Z"
)

// PathCommand is a single drawing command. Coordinates are always
// canvas-absolute, never relative to an enclosing group: a path only
// renders correctly composed with its full ancestor transform chain.
type PathCommand struct {
	Op  CommandOp `json:"op"`
	X   float64   `json:"x,omitempty"`
	Y   float64   `json:"y,omitempty"`
	C1X float64   `json:"c1x,omitempty"`
	C1Y float64   `json:"c1y,omitempty"`
	C2X float64   `json:"c2x,omitempty"`
	C2Y float64   `json:"c2y,omitempty"`
}

// SubPath is one contiguous run of drawing commands.
type SubPath []PathCommand

// PathData is the geometry payload of a Path element.
type PathData struct {
	SubPaths []SubPath `json:"subPaths"`
}

// Transform is the decomposed form of an element's own coordinate frame.
// R is in degrees.
type Transform struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	SX float64 `json:"sx"`
	SY float64 `json:"sy"`
	R  float64 `json:"r"`
}

// GroupData is the payload of a Group element. Exactly one of Transform
// and Matrix is populated: they are alternate representations of the
// group's own coordinate frame. Matrix is a row-major 3x3.
type GroupData struct {
	Children  []string   `json:"children"`
	Transform *Transform `json:"transform,omitempty"`
	Matrix    []float64  `json:"matrix,omitempty"`
	// SourceID references the logical source (template, generated run)
	// this group was instantiated from, if any. Elements anchored to the
	// same source move in lock-step with the group.
	SourceID string `json:"sourceId,omitempty"`
}

// ImageData is the payload of an Image element. Images carry their own
// placement matrix (row-major 3x3) rather than absolute coordinates.
type ImageData struct {
	AssetID string    `json:"assetId"`
	Width   float64   `json:"width"`
	Height  float64   `json:"height"`
	Matrix  []float64 `json:"matrix"`
}

// TextData is the payload of a Text element. The anchor point is
// canvas-absolute. A text run laid out along generated geometry keeps
// AnchorSourceID + AnchorMatrix instead of being parented under it.
type TextData struct {
	Content        string    `json:"content"`
	X              float64   `json:"x"`
	Y              float64   `json:"y"`
	FontSize       float64   `json:"fontSize,omitempty"`
	AnchorSourceID string    `json:"anchorSourceId,omitempty"`
	AnchorMatrix   []float64 `json:"anchorMatrix,omitempty"`
}

// Style holds paint properties shared by all element kinds.
type Style struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Opacity     float64 `json:"opacity"`
}

// Element is the closed tagged union of all element kinds. Exactly one
// of the payload pointers matching Kind is non-nil.
type Element struct {
	ID      string      `json:"id"`
	Kind    ElementKind `json:"kind"`
	Parent  *string     `json:"parent"`
	ZIndex  int         `json:"zIndex"`
	Visible bool        `json:"visible"`
	Locked  bool        `json:"locked"`
	Style   Style       `json:"style"`
	ClipID  string      `json:"clipId,omitempty"`

	Path  *PathData  `json:"path,omitempty"`
	Group *GroupData `json:"group,omitempty"`
	Image *ImageData `json:"image,omitempty"`
	Text  *TextData  `json:"text,omitempty"`
}

// Definition is auxiliary geometry (e.g. a clip region) referenced by one
// or more owning elements. Origin is the cached anchor the geometry is
// expressed against; Version is a cache-busting counter only, it carries
// no correctness weight.
type Definition struct {
	ID       string    `json:"id"`
	Owners   []string  `json:"owners"`
	SubPaths []SubPath `json:"subPaths"`
	OriginX  float64   `json:"originX"`
	OriginY  float64   `json:"originY"`
	Version  int64     `json:"version"`
}

// RenderID is the identifier the rendering step keys caches by. The
// version suffix forces any cache keyed by the stable id to treat a
// changed definition as new.
func (d *Definition) RenderID() string {
	return fmt.Sprintf("%s-v%d", d.ID, d.Version)
}

// Project is document-level metadata.
type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Version      int    `json:"version"`
	FPS          int    `json:"fps"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Background   string `json:"background"`
	RootTimeline string `json:"rootTimeline"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// Document is one complete snapshot of the element collection. Mutating
// operations replace the snapshot wholesale; elements inside a live
// snapshot are never edited in place, so concurrent readers always see
// a consistent state.
type Document struct {
	Project     Project             `json:"project"`
	Elements    []Element           `json:"elements"`
	Definitions []Definition        `json:"definitions"`
	Timelines   map[string]Timeline `json:"timelines"`
	Tracks      map[string]Track    `json:"tracks"`
	Keyframes   map[string]Keyframe `json:"keyframes"`
}

type Timeline struct {
	ID     string   `json:"id"`
	Length int      `json:"length"`
	Tracks []string `json:"tracks"`
}

type Track struct {
	ID        string   `json:"id"`
	ElementID string   `json:"elementId"`
	Property  string   `json:"property"`
	Keys      []string `json:"keys"`
}

type EasingType string

const (
	EasingLinear    EasingType = "linear"
	EasingEaseIn    EasingType = "easeIn"
	EasingEaseOut   EasingType = "easeOut"
	EasingEaseInOut EasingType = "easeInOut"
)

type Keyframe struct {
	ID     string     `json:"id"`
	Frame  int        `json:"frame"`
	Value  float64    `json:"value"`
	Easing EasingType `json:"easing"`
}

// Lookup resolves an element id within a single document snapshot.
// It must not be reused across snapshots.
type Lookup func(id string) (*Element, bool)

// ElementByID does a linear scan of the snapshot. Interactive paths go
// through the engine's snapshot-scoped cache instead.
func (d *Document) ElementByID(id string) (*Element, bool) {
	for i := range d.Elements {
		if d.Elements[i].ID == id {
			return &d.Elements[i], true
		}
	}
	return nil, false
}

// DefinitionByID returns the definition with the given stable id.
func (d *Document) DefinitionByID(id string) (*Definition, bool) {
	for i := range d.Definitions {
		if d.Definitions[i].ID == id {
			return &d.Definitions[i], true
		}
	}
	return nil, false
}

// Descendants returns the transitive child set of the given group,
// excluding the group itself. Child links that dangle or form a cycle
// are tolerated: every id is visited at most once.
func Descendants(lookup Lookup, groupID string) map[string]bool {
	out := make(map[string]bool)
	visited := map[string]bool{groupID: true}
	stack := []string{groupID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		el, ok := lookup(id)
		if !ok || el.Group == nil {
			continue
		}
		for _, childID := range el.Group.Children {
			if visited[childID] {
				continue
			}
			visited[childID] = true
			out[childID] = true
			stack = append(stack, childID)
		}
	}
	return out
}

// Clone returns a deep copy of the element, safe to mutate without
// touching the snapshot it came from.
func (e Element) Clone() Element {
	cp := e
	if e.Parent != nil {
		p := *e.Parent
		cp.Parent = &p
	}
	if e.Path != nil {
		cp.Path = &PathData{SubPaths: cloneSubPaths(e.Path.SubPaths)}
	}
	if e.Group != nil {
		gd := *e.Group
		gd.Children = append([]string(nil), e.Group.Children...)
		if e.Group.Transform != nil {
			tf := *e.Group.Transform
			gd.Transform = &tf
		}
		if e.Group.Matrix != nil {
			gd.Matrix = append([]float64(nil), e.Group.Matrix...)
		}
		cp.Group = &gd
	}
	if e.Image != nil {
		im := *e.Image
		if e.Image.Matrix != nil {
			im.Matrix = append([]float64(nil), e.Image.Matrix...)
		}
		cp.Image = &im
	}
	if e.Text != nil {
		tx := *e.Text
		if e.Text.AnchorMatrix != nil {
			tx.AnchorMatrix = append([]float64(nil), e.Text.AnchorMatrix...)
		}
		cp.Text = &tx
	}
	return cp
}

func cloneSubPaths(sps []SubPath) []SubPath {
	out := make([]SubPath, len(sps))
	for i, sp := range sps {
		out[i] = append(SubPath(nil), sp...)
	}
	return out
}

// CloneElements returns a fresh element slice sharing untouched payload
// pointers with the source. Callers must Clone any element they mutate.
func (d *Document) CloneElements() []Element {
	return append([]Element(nil), d.Elements...)
}

// CloneDefinitions returns a fresh definitions slice with copied entries.
func (d *Document) CloneDefinitions() []Definition {
	out := make([]Definition, len(d.Definitions))
	for i, def := range d.Definitions {
		out[i] = def
		out[i].Owners = append([]string(nil), def.Owners...)
	}
	return out
}
