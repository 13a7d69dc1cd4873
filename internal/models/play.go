package models

import (
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// UnknownField is substituted for identity-forming fields the source left empty.
const UnknownField = "unknown"

// RawPlay is one play entry exactly as returned by the external play source.
// Every field is optional; Payload keeps the original JSON untouched so a
// record never loses information the source added later.
type RawPlay struct {
	StationName      string `json:"stationName"`
	RadioStationName string `json:"radioStationName"`
	Time             string `json:"time"`
	Date             string `json:"date"`

	Payload json.RawMessage `json:"-"`
}

func (rp *RawPlay) UnmarshalJSON(data []byte) error {
	type alias RawPlay
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*rp = RawPlay(a)
	rp.Payload = append(rp.Payload[:0], data...)
	return nil
}

// Station resolves the station name, preferring radioStationName which the
// source populates for verified stations.
func (rp *RawPlay) Station() string {
	if rp.RadioStationName != "" {
		return rp.RadioStationName
	}
	return rp.StationName
}

// PlayIdentity derives the dedup identity of a play from its station, date
// and time. Empty fields fall back to the "unknown" placeholder and the
// result is reduced to an alphanumeric-and-hyphen alphabet. Two distinct
// plays at the same station within the same reported minute collapse to one
// identity; that is a limitation of the source data, not something this
// layer second-guesses.
func PlayIdentity(station, date, playTime string) string {
	id := orUnknown(station) + "-" + orUnknown(date) + "-" + orUnknown(playTime)
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return UnknownField
	}
	return s
}

// PlayRecord is one detected broadcast event. Immutable once created.
// DetectedAt is the wall-clock time the monitor observed the play, which is
// not the broadcast time.
type PlayRecord struct {
	ID         string          `json:"id"`
	Station    string          `json:"station"`
	Time       string          `json:"time"`
	Date       string          `json:"date"`
	DetectedAt time.Time       `json:"detectedAt"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// NewPlayRecord freezes a raw play into its recorded form.
func NewPlayRecord(rp RawPlay, detectedAt time.Time) *PlayRecord {
	return &PlayRecord{
		ID:         PlayIdentity(rp.Station(), rp.Date, rp.Time),
		Station:    orUnknown(rp.Station()),
		Time:       orUnknown(rp.Time),
		Date:       orUnknown(rp.Date),
		DetectedAt: detectedAt,
		Payload:    rp.Payload,
	}
}
