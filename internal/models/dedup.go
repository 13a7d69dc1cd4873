package models

import "time"

// DiffPlays returns the subset of fetched plays whose derived identity is
// not already present in history, in the order the source returned them.
// Duplicates inside the same fetch collapse to their first occurrence.
// A play missing every identity-forming field still yields a valid
// placeholder identity, so this never fails.
func DiffPlays(history []*PlayRecord, fetched []RawPlay, detectedAt time.Time) []*PlayRecord {
	seen := make(map[string]struct{}, len(history))
	for _, rec := range history {
		seen[rec.ID] = struct{}{}
	}

	var fresh []*PlayRecord
	for _, rp := range fetched {
		rec := NewPlayRecord(rp, detectedAt)
		if _, ok := seen[rec.ID]; ok {
			continue
		}
		seen[rec.ID] = struct{}{}
		fresh = append(fresh, rec)
	}
	return fresh
}
