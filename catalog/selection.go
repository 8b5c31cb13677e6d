package catalog

import (
	"errors"
	"fmt"

	"mehearsal/envelope"
	"mehearsal/model"
)

var (
	ErrUnknownSong       = errors.New("unknown song")
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrNoSong            = errors.New("no song selected")
	ErrEmptyEnsemble     = errors.New("ensemble is empty")
)

// Selection is the state of the catalog screen:
// the chosen song and the ensemble being assembled.
type Selection struct {
	catalog  *Catalog
	song     *model.Track
	ensemble model.Ensemble
}

func (c *Catalog) NewSelection() *Selection {
	return &Selection{catalog: c, ensemble: model.Ensemble{}}
}

func (s *Selection) SelectSong(id string) error {
	t, ok := s.catalog.Song(id)
	if !ok {
		return fmt.Errorf("SelectSong %q: %w", id, ErrUnknownSong)
	}
	s.song = &t
	return nil
}

// AddInstrument copies the template with the given id into the ensemble.
// Fails when the ensemble is full or already holds the instrument.
func (s *Selection) AddInstrument(id string) error {
	inst, ok := Instrument(id)
	if !ok {
		return fmt.Errorf("AddInstrument %q: %w", id, ErrUnknownInstrument)
	}
	return s.ensemble.Add(inst)
}

func (s *Selection) RemoveInstrument(id string) bool {
	return s.ensemble.Remove(id)
}

func (s *Selection) Ensemble() model.Ensemble {
	return s.ensemble.Clone()
}

// CanConfirm reports whether Confirm would succeed.
func (s *Selection) CanConfirm() bool {
	return s.song != nil && len(s.ensemble) > 0
}

// Confirm returns the envelope that opens the studio with this selection.
func (s *Selection) Confirm() (envelope.Envelope, error) {
	if s.song == nil {
		return nil, ErrNoSong
	}
	if len(s.ensemble) == 0 {
		return nil, ErrEmptyEnsemble
	}
	return envelope.ForStudio(*s.song, s.ensemble)
}

// Select is the one-shot form of a selection: a song and the instrument ids,
// in order. Any error leaves nothing behind.
func (c *Catalog) Select(songID string, instrumentIDs []string) (envelope.Envelope, error) {
	sel := c.NewSelection()
	if err := sel.SelectSong(songID); err != nil {
		return nil, err
	}
	for _, id := range instrumentIDs {
		if err := sel.AddInstrument(id); err != nil {
			return nil, err
		}
	}
	return sel.Confirm()
}
