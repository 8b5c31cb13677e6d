package model

import (
	"errors"
	"fmt"
)

// MaxEnsembleSize is the number of slots an ensemble can hold.
const MaxEnsembleSize = 8

var (
	ErrEnsembleFull        = errors.New("ensemble is full")
	ErrDuplicateInstrument = errors.New("instrument already in ensemble")
)

// Ensemble is the ordered list of instrument slots of a session.
// No two slots share an ID.
type Ensemble []InstrumentSlot

// Index returns the position of the slot with the given id, or -1.
func (e Ensemble) Index(id string) int {
	for i := range e {
		if e[i].ID == id {
			return i
		}
	}
	return -1
}

func (e Ensemble) Contains(id string) bool {
	return e.Index(id) >= 0
}

// Add appends a copy of slot.
// The ensemble is left untouched when it is full or already holds slot.ID.
func (e *Ensemble) Add(slot InstrumentSlot) error {
	if len(*e) >= MaxEnsembleSize {
		return fmt.Errorf("Add %s: %w", slot.ID, ErrEnsembleFull)
	}
	if e.Contains(slot.ID) {
		return fmt.Errorf("Add %s: %w", slot.ID, ErrDuplicateInstrument)
	}
	*e = append(*e, slot)
	return nil
}

// Remove drops the slot with the given id. It returns false if there was none.
func (e *Ensemble) Remove(id string) bool {
	i := e.Index(id)
	if i < 0 {
		return false
	}
	*e = append((*e)[:i], (*e)[i+1:]...)
	return true
}

// Clone returns a copy that shares no memory with e.
func (e Ensemble) Clone() Ensemble {
	if e == nil {
		return nil
	}
	c := make(Ensemble, len(e))
	copy(c, e)
	return c
}

// Validate checks the ensemble invariants:
// at most MaxEnsembleSize slots, non-empty unique ids, volumes in range.
func (e Ensemble) Validate() error {
	if len(e) > MaxEnsembleSize {
		return fmt.Errorf("ensemble has %d slots, at most %d allowed", len(e), MaxEnsembleSize)
	}
	seen := make(map[string]struct{}, len(e))
	for i, s := range e {
		if s.ID == "" {
			return fmt.Errorf("ensemble slot %d: empty id", i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("ensemble slot %d (%s): %w", i, s.ID, ErrDuplicateInstrument)
		}
		seen[s.ID] = struct{}{}

		if s.Volume < MinVolume || s.Volume > MaxVolume {
			return fmt.Errorf("ensemble slot %d (%s): volume should be in [%d, %d], got %d",
				i, s.ID, MinVolume, MaxVolume, s.Volume)
		}
	}
	return nil
}
