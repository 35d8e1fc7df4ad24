package collab

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/lineal-app/lineal/backend-go/internal/document"
	"github.com/lineal-app/lineal/backend-go/internal/engine"
)

// DocumentState holds the authoritative document for a room. Movement
// operations go through the engine so server-side results match what
// the submitting client computed locally; property edits follow the
// same snapshot-replacement discipline by hand.
type DocumentState struct {
	mu        sync.RWMutex
	eng       *engine.Engine
	serverSeq int64
	opLog     []Operation
}

// NewDocumentState wraps an initial snapshot.
func NewDocumentState(doc *document.Document) *DocumentState {
	eng := engine.NewEngine()
	eng.SetDocument(doc)
	return &DocumentState{
		eng:   eng,
		opLog: make([]Operation, 0),
	}
}

// Document returns the current snapshot. Callers must not mutate it.
func (ds *DocumentState) Document() *document.Document {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.eng.Document()
}

// DocumentJSON returns the current snapshot as JSON together with the
// server sequence it reflects.
func (ds *DocumentState) DocumentJSON() (string, int64) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.eng.DocumentJSON(), ds.serverSeq
}

// ServerSeq returns the last assigned sequence number.
func (ds *DocumentState) ServerSeq() int64 {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.serverSeq
}

// OpLog returns the applied operation history.
func (ds *DocumentState) OpLog() []Operation {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return append([]Operation(nil), ds.opLog...)
}

// Apply applies an operation and returns its server sequence.
func (ds *DocumentState) Apply(op Operation) (int64, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if err := ds.applyLocked(op); err != nil {
		return 0, err
	}
	ds.serverSeq++
	ds.opLog = append(ds.opLog, op)
	return ds.serverSeq, nil
}

func (ds *DocumentState) applyLocked(op Operation) error {
	switch op.Type {
	case OpElementsMove:
		return ds.applyMove(op)
	case OpElementStyle:
		return ds.applyStyle(op)
	case OpElementVisibility:
		return ds.applyFlag(op, func(el *document.Element) {
			if op.Visible != nil {
				el.Visible = *op.Visible
			}
		})
	case OpElementLocked:
		return ds.applyFlag(op, func(el *document.Element) {
			if op.Locked != nil {
				el.Locked = *op.Locked
			}
		})
	case OpProjectRename:
		return ds.applyRename(op)
	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}
}

func (ds *DocumentState) applyMove(op Operation) error {
	if len(op.ElementIDs) == 0 {
		return fmt.Errorf("move without element ids")
	}
	if op.EditGroupID != "" {
		if err := ds.eng.EnterGroup(op.EditGroupID); err != nil {
			return err
		}
		defer ds.eng.ExitGroup()
	}
	before := ds.eng.Document()
	ds.eng.SetSelection(op.ElementIDs)
	ds.eng.MoveSelection(op.DX, op.DY, op.Precision)
	if ds.eng.Document() == before {
		return fmt.Errorf("no movable elements")
	}
	return nil
}

func (ds *DocumentState) applyStyle(op Operation) error {
	var changes map[string]interface{}
	if err := json.Unmarshal(op.Style, &changes); err != nil {
		return fmt.Errorf("invalid style: %w", err)
	}
	return ds.replaceElement(op.ElementID, func(el *document.Element) {
		if v, ok := changes["fill"].(string); ok {
			el.Style.Fill = v
		}
		if v, ok := changes["stroke"].(string); ok {
			el.Style.Stroke = v
		}
		if v, ok := changes["strokeWidth"].(float64); ok {
			el.Style.StrokeWidth = v
		}
		if v, ok := changes["opacity"].(float64); ok {
			el.Style.Opacity = v
		}
	})
}

func (ds *DocumentState) applyFlag(op Operation, set func(*document.Element)) error {
	return ds.replaceElement(op.ElementID, set)
}

func (ds *DocumentState) applyRename(op Operation) error {
	doc := ds.eng.Document()
	next := *doc
	next.Project.Name = op.Name
	ds.eng.SetDocument(&next)
	return nil
}

// replaceElement clones one element, mutates the clone, and installs a
// replacement snapshot around it.
func (ds *DocumentState) replaceElement(id string, mutate func(*document.Element)) error {
	doc := ds.eng.Document()
	el, ok := doc.ElementByID(id)
	if !ok {
		return fmt.Errorf("element not found: %s", id)
	}

	elements := doc.CloneElements()
	for i := range elements {
		if elements[i].ID == id {
			cp := el.Clone()
			mutate(&cp)
			elements[i] = cp
			break
		}
	}

	next := *doc
	next.Elements = elements
	ds.eng.SetDocument(&next)
	return nil
}

// ServerTimestamp returns the current server timestamp in milliseconds.
func ServerTimestamp() int64 {
	return time.Now().UnixMilli()
}
