package engine

import (
	"encoding/json"
	"fmt"

	"github.com/lineal-app/lineal/backend-go/internal/document"
)

// DefaultPrecision is the decimal precision leaf translations round to
// when no override is given.
const DefaultPrecision = 2

// Engine owns the current document snapshot and the ambient editing
// state (selection, entered group) the public move entry point reads.
// It is single threaded: one pointer or key event produces one
// synchronous movement pass and one replacement snapshot.
type Engine struct {
	doc   *document.Document
	reg   *Registry
	cache *lookupCache

	selection   []string
	editGroupID string
	precision   int

	anim AnimationSink
	bus  *Bus
}

// NewEngine creates an engine with the built-in capability registry.
func NewEngine() *Engine {
	return &Engine{
		reg:       NewRegistry(),
		cache:     newLookupCache(),
		precision: DefaultPrecision,
	}
}

// Registry exposes the capability registry so contributed element kinds
// can register before editing starts.
func (e *Engine) Registry() *Registry { return e.reg }

// Bus returns the lifecycle notification bus, creating it on first use.
func (e *Engine) Bus() *Bus {
	if e.bus == nil {
		e.bus = NewBus()
	}
	return e.bus
}

// SetAnimationSink installs the collaborator that reconciles keyframe
// data with authored moves.
func (e *Engine) SetAnimationSink(s AnimationSink) { e.anim = s }

// SetPrecision sets the default decimal precision for leaf translation.
func (e *Engine) SetPrecision(p int) { e.precision = p }

// LoadDocument replaces the engine state with a document parsed from
// JSON.
func (e *Engine) LoadDocument(jsonData string) error {
	var doc document.Document
	if err := json.Unmarshal([]byte(jsonData), &doc); err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	e.SetDocument(&doc)
	return nil
}

// SetDocument replaces the engine state with the given snapshot and
// resets selection and edit mode.
func (e *Engine) SetDocument(doc *document.Document) {
	e.doc = doc
	e.selection = nil
	e.editGroupID = ""
	e.cache.Invalidate()
}

// LoadSampleDocument loads the built-in sample document.
func (e *Engine) LoadSampleDocument(projectID string) {
	e.SetDocument(document.NewSampleDocument(projectID))
}

// Document returns the current snapshot. Callers must treat it as
// read-only; moves replace it wholesale.
func (e *Engine) Document() *document.Document { return e.doc }

// DocumentJSON returns the current snapshot as JSON.
func (e *Engine) DocumentJSON() string {
	if e.doc == nil {
		return "{}"
	}
	data, _ := json.Marshal(e.doc)
	return string(data)
}

// SetSelection sets the selected element ids.
func (e *Engine) SetSelection(ids []string) {
	e.selection = append([]string(nil), ids...)
}

// Selection returns the selected element ids.
func (e *Engine) Selection() []string { return e.selection }

// EnterGroup switches to group-local editing inside the given group.
func (e *Engine) EnterGroup(id string) error {
	if e.doc == nil {
		return fmt.Errorf("no document loaded")
	}
	el, ok := e.cache.Lookup(e.doc)(id)
	if !ok || el.Group == nil {
		return fmt.Errorf("not a group: %s", id)
	}
	e.editGroupID = id
	return nil
}

// ExitGroup leaves group-local editing.
func (e *Engine) ExitGroup() { e.editGroupID = "" }

// EditGroupID returns the entered group id, or "" in normal mode.
func (e *Engine) EditGroupID() string { return e.editGroupID }

// MoveSelection applies a world-space delta to the current selection,
// reading selection and mode from ambient state. The mutation is
// observed through the replaced snapshot; either a complete new snapshot
// is installed or the prior one is left untouched.
func (e *Engine) MoveSelection(dx, dy float64, precisionOverride *int) {
	if e.doc == nil {
		return
	}
	precision := e.precision
	if precisionOverride != nil {
		precision = *precisionOverride
	}
	mode := ModeNormal
	if e.editGroupID != "" {
		mode = ModeGroupLocal
	}

	lookup := e.cache.Lookup(e.doc)
	res := Move(e.reg, lookup, e.doc, e.selection, dx, dy, precision, mode, e.editGroupID)
	if !res.Moved() {
		return
	}

	// The result snapshot is private until installed below, so the
	// definition pass may mutate its cloned definitions in place.
	SyncDefinitions(e.reg, e.cache.Lookup(res.Doc), res, dx, dy)

	if e.anim != nil {
		if records := e.animationRecords(res, dx, dy); len(records) > 0 {
			e.anim.RecordMoves(records)
		}
	}

	e.doc = res.Doc

	if e.bus != nil {
		e.bus.Publish(EventElementsMoved)
	}
}

// animationRecords builds the reconciliation batch for moved elements
// that have animation tracks targeting them.
func (e *Engine) animationRecords(res *MoveResult, dx, dy float64) []MoveRecord {
	tracked := make(map[string]bool, len(res.Doc.Tracks))
	for _, tr := range res.Doc.Tracks {
		tracked[tr.ElementID] = true
	}
	var records []MoveRecord
	for id := range res.Changed {
		if !tracked[id] {
			continue
		}
		records = append(records, MoveRecord{
			ElementID: id,
			From:      Identity(),
			To:        Translate(dx, dy),
		})
	}
	return records
}
