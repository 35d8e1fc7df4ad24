package document

// NewEmptyDocument creates an empty document for a new project.
func NewEmptyDocument(projectID, projectName, timelineID string) *Document {
	return &Document{
		Project: Project{
			ID:           projectID,
			Name:         projectName,
			Version:      1,
			FPS:          24,
			Width:        1280,
			Height:       720,
			Background:   "#1a1a2e",
			RootTimeline: timelineID,
		},
		Elements:    []Element{},
		Definitions: []Definition{},
		Timelines: map[string]Timeline{
			timelineID: {ID: timelineID, Length: 48, Tracks: []string{}},
		},
		Tracks:    map[string]Track{},
		Keyframes: map[string]Keyframe{},
	}
}

// NewSampleDocument builds the demo document used by the playground: a
// free-standing path, a rotated group nesting an inner group and a path,
// a clipped image, and a label anchored to the group's source.
func NewSampleDocument(projectID string) *Document {
	strPtr := func(s string) *string { return &s }

	outer := Element{
		ID:      "obj_outer",
		Kind:    KindGroup,
		Visible: true,
		ZIndex:  1,
		Style:   Style{Opacity: 1},
		Group: &GroupData{
			Children:  []string{"obj_inner"},
			Transform: &Transform{X: 200, Y: 120, SX: 1, SY: 1, R: 30},
			SourceID:  "src_wave",
		},
	}
	inner := Element{
		ID:      "obj_inner",
		Kind:    KindGroup,
		Parent:  strPtr("obj_outer"),
		Visible: true,
		Style:   Style{Opacity: 1},
		Group: &GroupData{
			Children:  []string{"obj_wave"},
			Transform: &Transform{X: 40, Y: 0, SX: 1, SY: 1, R: 0},
		},
	}
	wave := Element{
		ID:      "obj_wave",
		Kind:    KindPath,
		Parent:  strPtr("obj_inner"),
		Visible: true,
		Style:   Style{Stroke: "#7df9ff", StrokeWidth: 2, Opacity: 1},
		Path: &PathData{SubPaths: []SubPath{{
			{Op: OpMoveTo, X: 0, Y: 0},
			{Op: OpCubic, C1X: 30, C1Y: -40, C2X: 70, C2Y: 40, X: 100, Y: 0},
			{Op: OpCubic, C1X: 130, C1Y: -40, C2X: 170, C2Y: 40, X: 200, Y: 0},
		}}},
	}
	free := Element{
		ID:      "obj_tri",
		Kind:    KindPath,
		Visible: true,
		ZIndex:  0,
		Style:   Style{Fill: "#e94560", Opacity: 1},
		Path: &PathData{SubPaths: []SubPath{{
			{Op: OpMoveTo, X: 520, Y: 420},
			{Op: OpLineTo, X: 600, Y: 560},
			{Op: OpLineTo, X: 440, Y: 560},
			{Op: OpClose},
		}}},
	}
	photo := Element{
		ID:      "obj_photo",
		Kind:    KindImage,
		Visible: true,
		ZIndex:  2,
		Style:   Style{Opacity: 1},
		ClipID:  "def_vignette",
		Image: &ImageData{
			AssetID: "asset_paper",
			Width:   320,
			Height:  240,
			Matrix:  []float64{1, 0, 760, 0, 1, 80, 0, 0, 1},
		},
	}
	label := Element{
		ID:      "obj_label",
		Kind:    KindText,
		Visible: true,
		ZIndex:  3,
		Style:   Style{Fill: "#f5f5f5", Opacity: 1},
		Text: &TextData{
			Content:        "wave",
			X:              210,
			Y:              100,
			FontSize:       14,
			AnchorSourceID: "src_wave",
			AnchorMatrix:   []float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
		},
	}

	timelineID := "tl_root"
	doc := &Document{
		Project: Project{
			ID:           projectID,
			Name:         "Playground",
			Version:      1,
			FPS:          24,
			Width:        1280,
			Height:       720,
			Background:   "#1a1a2e",
			RootTimeline: timelineID,
		},
		Elements: []Element{outer, inner, wave, free, photo, label},
		Definitions: []Definition{{
			ID:     "def_vignette",
			Owners: []string{"obj_photo"},
			SubPaths: []SubPath{{
				{Op: OpMoveTo, X: 760, Y: 80},
				{Op: OpLineTo, X: 1080, Y: 80},
				{Op: OpLineTo, X: 1080, Y: 320},
				{Op: OpLineTo, X: 760, Y: 320},
				{Op: OpClose},
			}},
			OriginX: 760,
			OriginY: 80,
			Version: 0,
		}},
		Timelines: map[string]Timeline{
			timelineID: {ID: timelineID, Length: 48, Tracks: []string{"track_x"}},
		},
		Tracks: map[string]Track{
			"track_x": {
				ID:        "track_x",
				ElementID: "obj_outer",
				Property:  "transform.x",
				Keys:      []string{"kf_a", "kf_b"},
			},
		},
		Keyframes: map[string]Keyframe{
			"kf_a": {ID: "kf_a", Frame: 0, Value: 200, Easing: EasingLinear},
			"kf_b": {ID: "kf_b", Frame: 47, Value: 420, Easing: EasingEaseInOut},
		},
	}
	return doc
}
