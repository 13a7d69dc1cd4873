package models

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// Storage is the on-disk snapshot document. PlayHistory is serialized as an
// array of [campaignId, plays] pairs rather than an object map so campaign
// ordering survives a save/load cycle exactly.
type Storage struct {
	PlayHistory []HistoryEntry `json:"playHistory"`
	LastSaved   time.Time      `json:"lastSaved"`
}

// HistoryEntry is one campaign's history inside the snapshot.
type HistoryEntry struct {
	CampaignID string
	Plays      []*PlayRecord
}

func (e HistoryEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.CampaignID, e.Plays})
}

func (e *HistoryEntry) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 2 {
		return fmt.Errorf("history entry: expected [campaignId, plays] pair, got %d elements", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &e.CampaignID); err != nil {
		return fmt.Errorf("history entry campaign id: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &e.Plays); err != nil {
		return fmt.Errorf("history entry plays: %w", err)
	}
	return nil
}
