package models

import (
	"sync"
	"time"
)

// HistoryStore maps campaign ids to their recorded plays. Histories are
// append-only: dedup happens before insertion and records are never
// reordered or removed afterwards. Campaign order is preserved for the
// snapshot format.
type HistoryStore struct {
	mu    sync.RWMutex
	order []string
	plays map[string][]*PlayRecord
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		plays: make(map[string][]*PlayRecord),
	}
}

// Plays returns a copy of the campaign's history list. Records themselves
// are immutable and shared.
func (h *HistoryStore) Plays(campaignID string) []*PlayRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	recs := h.plays[campaignID]
	if recs == nil {
		return nil
	}
	out := make([]*PlayRecord, len(recs))
	copy(out, recs)
	return out
}

func (h *HistoryStore) Len(campaignID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.plays[campaignID])
}

// Append adds already-deduplicated records to the campaign's history.
func (h *HistoryStore) Append(campaignID string, records []*PlayRecord) {
	if len(records) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.plays[campaignID]; !ok {
		h.order = append(h.order, campaignID)
	}
	h.plays[campaignID] = append(h.plays[campaignID], records...)
}

// Snapshot assembles the persistable form of the store.
func (h *HistoryStore) Snapshot() *Storage {
	h.mu.RLock()
	defer h.mu.RUnlock()

	st := &Storage{
		PlayHistory: make([]HistoryEntry, 0, len(h.order)),
		LastSaved:   time.Now().UTC(),
	}
	for _, id := range h.order {
		recs := h.plays[id]
		entry := HistoryEntry{CampaignID: id, Plays: make([]*PlayRecord, len(recs))}
		copy(entry.Plays, recs)
		st.PlayHistory = append(st.PlayHistory, entry)
	}
	return st
}

// Restore replaces the store contents with a loaded snapshot. Used once at
// process startup, before any tick runs.
func (h *HistoryStore) Restore(st *Storage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.order = h.order[:0]
	h.plays = make(map[string][]*PlayRecord, len(st.PlayHistory))
	for _, entry := range st.PlayHistory {
		h.order = append(h.order, entry.CampaignID)
		h.plays[entry.CampaignID] = append([]*PlayRecord(nil), entry.Plays...)
	}
}
