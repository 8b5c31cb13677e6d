// Package envelope implements the navigation state codec: how the screens
// pass a song, an ensemble and session metrics to each other through URL
// query parameters.
//
// Structured fields (ensemble, metrics) travel as JSON text, the song as
// individual scalar values. Every decoder fails closed with a *DecodeError.
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mehearsal/model"
)

// EncodeEnsemble returns the JSON text of the full ordered ensemble.
func EncodeEnsemble(e model.Ensemble) (string, error) {
	if e == nil {
		e = model.Ensemble{}
	}
	b, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("EncodeEnsemble: %w", err)
	}
	return string(b), nil
}

// DecodeEnsemble parses the output of EncodeEnsemble.
//
// Anything but a JSON array of slots fails, and so does an array that
// breaks the ensemble invariants (size, unique ids, volume range).
func DecodeEnsemble(s string) (model.Ensemble, error) {
	if strings.TrimSpace(s) == "" {
		return nil, decodeErr(KeyEnsemble, errMissing)
	}

	var e model.Ensemble
	if err := strictUnmarshal(s, &e); err != nil {
		return nil, decodeErr(KeyEnsemble, err)
	}
	if e == nil { // "null"
		return nil, decodeErr(KeyEnsemble, errors.New("not an array"))
	}
	if err := e.Validate(); err != nil {
		return nil, decodeErr(KeyEnsemble, err)
	}
	return e, nil
}

// EncodeMetrics returns the JSON text of m.
func EncodeMetrics(m model.SessionMetrics) (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("EncodeMetrics: %w", err)
	}
	return string(b), nil
}

// wireMetrics tells a missing score apart from a zero one.
type wireMetrics struct {
	Tempo    *int `json:"tempo"`
	Pitch    *int `json:"pitch"`
	Dynamics *int `json:"dynamics"`
	Timing   *int `json:"timing"`
	Overall  *int `json:"overall"`
}

// DecodeMetrics parses the output of EncodeMetrics. All five scores are required.
func DecodeMetrics(s string) (model.SessionMetrics, error) {
	if strings.TrimSpace(s) == "" {
		return model.SessionMetrics{}, decodeErr(KeyMetrics, errMissing)
	}

	var w wireMetrics
	if err := strictUnmarshal(s, &w); err != nil {
		return model.SessionMetrics{}, decodeErr(KeyMetrics, err)
	}

	scores := []struct {
		name string
		v    *int
	}{
		{"tempo", w.Tempo}, {"pitch", w.Pitch}, {"dynamics", w.Dynamics},
		{"timing", w.Timing}, {"overall", w.Overall},
	}
	for _, sc := range scores {
		if sc.v == nil {
			return model.SessionMetrics{}, decodeErr(KeyMetrics, fmt.Errorf("score %s: %w", sc.name, errMissing))
		}
	}

	return model.SessionMetrics{
		Tempo:    *w.Tempo,
		Pitch:    *w.Pitch,
		Dynamics: *w.Dynamics,
		Timing:   *w.Timing,
		Overall:  *w.Overall,
	}, nil
}

// DecodeTempo parses the songTempo scalar: a positive decimal integer.
func DecodeTempo(s string) (int, error) {
	if s == "" {
		return 0, decodeErr(KeySongTempo, errMissing)
	}
	tempo, err := strconv.Atoi(s)
	if err != nil {
		return 0, decodeErr(KeySongTempo, err)
	}
	if tempo <= 0 {
		return 0, decodeErr(KeySongTempo, fmt.Errorf("tempo should be > 0, got %d", tempo))
	}
	return tempo, nil
}

// strictUnmarshal is json.Unmarshal that also rejects unknown fields
// and anything after the first value.
func strictUnmarshal(s string, v any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("trailing data after value")
	}
	return nil
}
