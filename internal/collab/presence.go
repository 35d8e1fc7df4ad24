package collab

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

type presenceEntry struct {
	payload   *PresencePayload
	updatedAt time.Time
}

// PresenceManager tracks per-user cursor, selection, and entered-group
// state for one room. Entries live until the user leaves the room.
type PresenceManager struct {
	mu      sync.RWMutex
	entries map[string]*presenceEntry
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{entries: make(map[string]*presenceEntry)}
}

func (pm *PresenceManager) Update(userID string, p *PresencePayload) {
	pm.mu.Lock()
	pm.entries[userID] = &presenceEntry{payload: p, updatedAt: time.Now()}
	pm.mu.Unlock()
}

func (pm *PresenceManager) Remove(userID string) {
	pm.mu.Lock()
	delete(pm.entries, userID)
	pm.mu.Unlock()
}

func (pm *PresenceManager) Count() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.entries)
}

func (pm *PresenceManager) GetAll() map[string]*PresencePayload {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	out := make(map[string]*PresencePayload, len(pm.entries))
	for userID, e := range pm.entries {
		out[userID] = e.payload
	}
	return out
}

// StateMessage packages the full room presence for a newly joined
// client. Returns nil when encoding fails.
func (pm *PresenceManager) StateMessage() *Message {
	payload, err := json.Marshal(PresenceStatePayload{Presences: pm.GetAll()})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{Type: TypePresenceState, Payload: payload}
}
