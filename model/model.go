// Package model holds the value types passed between the screens:
// tracks, instrument slots, ensembles and session metrics.
package model

import (
	"errors"
	"fmt"
)

// Track is a song of the catalog. Immutable once the catalog is built.
type Track struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Tempo    int    `json:"tempo"` // BPM, > 0
	Duration string `json:"duration"`
	Genre    string `json:"genre"`
}

// InstrumentSlot is one member of an ensemble, together with its mixer state.
type InstrumentSlot struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Avatar string `json:"avatar"`
	Volume int    `json:"volume"`
	Muted  bool   `json:"muted"`
	Solo   bool   `json:"solo"`
}

// SessionMetrics are the scores of a finished rehearsal.
// Each score is a percentage, conventionally in [0, 100].
type SessionMetrics struct {
	Tempo    int `json:"tempo"`
	Pitch    int `json:"pitch"`
	Dynamics int `json:"dynamics"`
	Timing   int `json:"timing"`
	Overall  int `json:"overall"`
}

const (
	MinVolume = 0
	MaxVolume = 100
)

// ClampVolume limits v to [MinVolume, MaxVolume].
func ClampVolume(v int) int {
	switch {
	case v < MinVolume:
		return MinVolume
	case v > MaxVolume:
		return MaxVolume
	default:
		return v
	}
}

// Validate reports whether the track can be used to open a session.
func (t Track) Validate() error {
	if t.ID == "" {
		return errors.New("track: empty id")
	}
	if t.Tempo <= 0 {
		return fmt.Errorf("track %s: tempo should be > 0, got %d", t.ID, t.Tempo)
	}
	return nil
}

// BeatPeriod returns the length of one beat in seconds.
// It's what the studio uses to pulse the avatars while playing.
func (t Track) BeatPeriod() float64 {
	if t.Tempo <= 0 {
		return 0
	}
	return 60 / float64(t.Tempo)
}
