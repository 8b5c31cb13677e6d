package envelope

import (
	"errors"
	"net/url"
	"strconv"

	"mehearsal/model"
)

// Paths of the three screens.
const (
	CatalogPath = "/"
	StudioPath  = "/studio"
	ResultsPath = "/results"
)

// Keys recognised in an envelope.
const (
	KeySongID     = "songId"
	KeySongTitle  = "songTitle"
	KeySongArtist = "songArtist"
	KeySongTempo  = "songTempo"
	KeyEnsemble   = "ensemble"
	KeyMetrics    = "metrics"
)

// studioKeys are the keys needed to open a studio session.
var studioKeys = []string{KeySongID, KeySongTitle, KeySongArtist, KeySongTempo, KeyEnsemble}

// Duration and genre are not carried by the envelope.
// Arrivals get these until the catalog fills in the real ones.
const (
	DefaultDuration = "5:00"
	DefaultGenre    = "Rock"
)

// Envelope is the flat string-keyed bundle passed along with a navigation.
type Envelope map[string]string

// FromValues takes the first value of every key in q.
func FromValues(q url.Values) Envelope {
	env := make(Envelope, len(q))
	for k, vs := range q {
		if len(vs) > 0 {
			env[k] = vs[0]
		}
	}
	return env
}

func (env Envelope) Values() url.Values {
	q := make(url.Values, len(env))
	for k, v := range env {
		q.Set(k, v)
	}
	return q
}

// URL returns path with the envelope as its query string.
func (env Envelope) URL(path string) string {
	if len(env) == 0 {
		return path
	}
	return path + "?" + env.Values().Encode()
}

// ForStudio builds the envelope that opens a studio session.
func ForStudio(track model.Track, ensemble model.Ensemble) (Envelope, error) {
	if err := track.Validate(); err != nil {
		return nil, err
	}
	if err := ensemble.Validate(); err != nil {
		return nil, err
	}
	ens, err := EncodeEnsemble(ensemble)
	if err != nil {
		return nil, err
	}
	return Envelope{
		KeySongID:     track.ID,
		KeySongTitle:  track.Title,
		KeySongArtist: track.Artist,
		KeySongTempo:  strconv.Itoa(track.Tempo),
		KeyEnsemble:   ens,
	}, nil
}

// ForResults builds the envelope of the results screen: the metrics plus
// what is needed to repeat the session.
func ForResults(metrics model.SessionMetrics, track model.Track, ensemble model.Ensemble) (Envelope, error) {
	env, err := ForStudio(track, ensemble)
	if err != nil {
		return nil, err
	}
	m, err := EncodeMetrics(metrics)
	if err != nil {
		return nil, err
	}
	env[KeyMetrics] = m
	return env, nil
}

// StudioArrival is what the studio screen reconstructs from its envelope.
type StudioArrival struct {
	Track    model.Track
	Ensemble model.Ensemble
}

// StudioRequest decodes a studio envelope. Every studio key is required
// and the ensemble must hold at least one slot.
func StudioRequest(env Envelope) (StudioArrival, error) {
	for _, k := range []string{KeySongID, KeySongTitle, KeySongArtist} {
		if env[k] == "" {
			return StudioArrival{}, decodeErr(k, errMissing)
		}
	}

	tempo, err := DecodeTempo(env[KeySongTempo])
	if err != nil {
		return StudioArrival{}, err
	}

	ensemble, err := DecodeEnsemble(env[KeyEnsemble])
	if err != nil {
		return StudioArrival{}, err
	}
	if len(ensemble) == 0 {
		return StudioArrival{}, decodeErr(KeyEnsemble, errors.New("empty ensemble"))
	}

	return StudioArrival{
		Track: model.Track{
			ID:       env[KeySongID],
			Title:    env[KeySongTitle],
			Artist:   env[KeySongArtist],
			Tempo:    tempo,
			Duration: DefaultDuration,
			Genre:    DefaultGenre,
		},
		Ensemble: ensemble,
	}, nil
}

// ResultsArrival is what the results screen reconstructs from its envelope.
// Studio is nil when the envelope carried no session to repeat.
type ResultsArrival struct {
	Metrics model.SessionMetrics
	Studio  *StudioArrival
}

func (r ResultsArrival) CanRepeat() bool {
	return r.Studio != nil
}

// ResultsRequest decodes a results envelope.
//
// The metrics are required. The song and ensemble are optional as a block,
// but once any of their keys is present the whole block must decode.
func ResultsRequest(env Envelope) (ResultsArrival, error) {
	metrics, err := DecodeMetrics(env[KeyMetrics])
	if err != nil {
		return ResultsArrival{}, err
	}

	r := ResultsArrival{Metrics: metrics}
	if !hasAny(env, studioKeys) {
		return r, nil
	}

	studio, err := StudioRequest(env)
	if err != nil {
		return ResultsArrival{}, err
	}
	r.Studio = &studio
	return r, nil
}

func hasAny(env Envelope, keys []string) bool {
	for _, k := range keys {
		if _, ok := env[k]; ok {
			return true
		}
	}
	return false
}
