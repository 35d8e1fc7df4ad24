package timeline

import (
	"sort"
	"strings"

	"github.com/lineal-app/lineal/backend-go/internal/document"
)

// PropertyOverrides holds interpolated property values from keyframe
// evaluation. Keys are property paths like "transform.x" or
// "style.opacity".
type PropertyOverrides map[string]float64

// Evaluate evaluates every track of a timeline at the given frame and
// returns the per-element overrides. Elements without tracks are absent
// from the result.
func Evaluate(doc *document.Document, timelineID string, frame int) map[string]PropertyOverrides {
	result := make(map[string]PropertyOverrides)

	tl, ok := doc.Timelines[timelineID]
	if !ok {
		return result
	}

	for _, trackID := range tl.Tracks {
		track, ok := doc.Tracks[trackID]
		if !ok {
			continue
		}
		value, ok := interpolateTrack(doc, &track, frame)
		if !ok {
			continue
		}
		if result[track.ElementID] == nil {
			result[track.ElementID] = make(PropertyOverrides)
		}
		result[track.ElementID][track.Property] = value
	}

	return result
}

// interpolateTrack evaluates one track at the given frame. Frames before
// the first keyframe clamp to the first value, frames after the last
// hold the last value.
func interpolateTrack(doc *document.Document, track *document.Track, frame int) (float64, bool) {
	keyframes := make([]document.Keyframe, 0, len(track.Keys))
	for _, kfID := range track.Keys {
		if kf, ok := doc.Keyframes[kfID]; ok {
			keyframes = append(keyframes, kf)
		}
	}
	if len(keyframes) == 0 {
		return 0, false
	}

	sort.Slice(keyframes, func(i, j int) bool {
		return keyframes[i].Frame < keyframes[j].Frame
	})

	var prev, next *document.Keyframe
	for i := range keyframes {
		if keyframes[i].Frame <= frame {
			prev = &keyframes[i]
		}
		if keyframes[i].Frame >= frame && next == nil {
			next = &keyframes[i]
		}
	}

	if prev == nil {
		return next.Value, true
	}
	if next == nil {
		return prev.Value, true
	}
	if prev.Frame == next.Frame {
		return prev.Value, true
	}

	t := float64(frame-prev.Frame) / float64(next.Frame-prev.Frame)
	t = applyEasing(t, prev.Easing)
	return prev.Value + (next.Value-prev.Value)*t, true
}

// applyEasing maps a linear interpolation factor through the segment's
// easing curve. t is in [0, 1].
func applyEasing(t float64, easing document.EasingType) float64 {
	switch easing {
	case document.EasingEaseIn:
		return t * t
	case document.EasingEaseOut:
		return t * (2 - t)
	case document.EasingEaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t
	default:
		return t
	}
}

// ApplyToTransform overlays transform-path overrides onto a base
// transform.
func ApplyToTransform(base document.Transform, overrides PropertyOverrides) document.Transform {
	result := base
	if v, ok := overrides["transform.x"]; ok {
		result.X = v
	}
	if v, ok := overrides["transform.y"]; ok {
		result.Y = v
	}
	if v, ok := overrides["transform.sx"]; ok {
		result.SX = v
	}
	if v, ok := overrides["transform.sy"]; ok {
		result.SY = v
	}
	if v, ok := overrides["transform.r"]; ok {
		result.R = v
	}
	return result
}

// ApplyToStyle overlays style-path overrides onto a base style.
func ApplyToStyle(base document.Style, overrides PropertyOverrides) document.Style {
	result := base
	if v, ok := overrides["style.opacity"]; ok {
		result.Opacity = v
	}
	if v, ok := overrides["style.strokeWidth"]; ok {
		result.StrokeWidth = v
	}
	return result
}

// IsTransformProperty reports whether a property path targets the
// transform.
func IsTransformProperty(property string) bool {
	return strings.HasPrefix(property, "transform.")
}

// IsStyleProperty reports whether a property path targets the style.
func IsStyleProperty(property string) bool {
	return strings.HasPrefix(property, "style.")
}
