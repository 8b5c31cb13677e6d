package studio

import (
	"sync"
	"time"

	"mehearsal/model"
)

// this file implements the transport of a rehearsal session:
// play/pause/stop, the recording flag, the elapsed-time counter
// and the mixer of the ensemble.

type TransportState int

const (
	Stopped TransportState = iota
	Playing
)

func (s TransportState) String() string {
	if s == Playing {
		return "playing"
	}
	return "stopped"
}

// Mic display status. Derived from transport + recording, never stored.
const (
	MicActive    = "active"
	MicListening = "listening"
	MicInactive  = "inactive"
)

// DefaultTickInterval is how often the elapsed counter advances while playing.
const DefaultTickInterval = time.Second

// Transport is the state machine of one session screen.
// It is safe for concurrent use.
type Transport struct {
	mu sync.Mutex

	track    model.Track
	original model.Ensemble // as it arrived; handed on to the results
	ensemble model.Ensemble // live mixer state

	state     TransportState
	recording bool
	elapsed   int
	closed    bool

	sched    Scheduler
	interval time.Duration
	cancel   func()
	tickGen  uint64 // bumped on every start/cancel; stale ticks are dropped

	scores ScoreGenerator
	onEnd  func(model.SessionMetrics)
}

type Option func(*Transport)

func WithScheduler(s Scheduler) Option {
	return func(t *Transport) { t.sched = s }
}

func WithTickInterval(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.interval = d
		}
	}
}

func WithScoreGenerator(g ScoreGenerator) Option {
	return func(t *Transport) { t.scores = g }
}

// OnEnd registers the hook called once the session ends with a stop.
// It runs after Stop releases the transport, so it may call back into it.
func OnEnd(f func(model.SessionMetrics)) Option {
	return func(t *Transport) { t.onEnd = f }
}

// NewTransport opens a stopped, not recording session for track with a copy of ensemble.
func NewTransport(track model.Track, ensemble model.Ensemble, options ...Option) *Transport {
	t := &Transport{
		track:    track,
		original: ensemble.Clone(),
		ensemble: ensemble.Clone(),
		sched:    TimeScheduler{},
		interval: DefaultTickInterval,
		scores:   &RandomScores{},
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// Play moves Stopped -> Playing and starts the elapsed counter.
// It returns false if nothing changed.
func (t *Transport) Play() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.state == Playing {
		return false
	}
	t.state = Playing
	t.startTicking()
	return true
}

// Pause moves Playing -> Stopped, keeping the elapsed counter.
func (t *Transport) Pause() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.state != Playing {
		return false
	}
	t.state = Stopped
	t.stopTicking()
	return true
}

// Stop ends the session: Playing -> Stopped, elapsed reset to zero and the
// session metrics generated and handed to the OnEnd hook.
//
// Stop while already stopped does nothing: ok is false and no metrics are made.
func (t *Transport) Stop() (metrics model.SessionMetrics, ok bool) {
	t.mu.Lock()

	if t.closed || t.state != Playing {
		t.mu.Unlock()
		return model.SessionMetrics{}, false
	}
	t.state = Stopped
	t.stopTicking()
	t.elapsed = 0
	metrics = t.scores.Scores()
	onEnd := t.onEnd

	t.mu.Unlock()

	if onEnd != nil {
		onEnd(metrics)
	}
	return metrics, true
}

// ToggleRecord flips the recording flag, whatever the transport state.
// It returns the new flag.
func (t *Transport) ToggleRecord() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.closed {
		t.recording = !t.recording
	}
	return t.recording
}

// Close tears the session down: the counter stops for good and every
// later operation is a no-op. Idempotent.
func (t *Transport) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopTicking()
	t.closed = true
}

// requires: t.mu held
func (t *Transport) startTicking() {
	t.stopTicking()

	gen := t.tickGen
	t.cancel = t.sched.Every(t.interval, func() { t.tick(gen) })
}

// requires: t.mu held
func (t *Transport) stopTicking() {
	t.tickGen++
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *Transport) tick(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// a tick may still be in flight when the counter is cancelled
	if gen != t.tickGen || t.state != Playing {
		return
	}
	t.elapsed++
}

// -------- mixer --------

// SetVolume sets the volume of an instrument, clamped to [0, 100].
// It returns false if the ensemble has no such instrument.
func (t *Transport) SetVolume(instrumentID string, volume int) bool {
	return t.mix(instrumentID, func(s *model.InstrumentSlot) {
		s.Volume = model.ClampVolume(volume)
	})
}

func (t *Transport) ToggleMute(instrumentID string) bool {
	return t.mix(instrumentID, func(s *model.InstrumentSlot) {
		s.Muted = !s.Muted
	})
}

func (t *Transport) ToggleSolo(instrumentID string) bool {
	return t.mix(instrumentID, func(s *model.InstrumentSlot) {
		s.Solo = !s.Solo
	})
}

func (t *Transport) mix(instrumentID string, f func(*model.InstrumentSlot)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return false
	}
	i := t.ensemble.Index(instrumentID)
	if i < 0 {
		return false
	}
	f(&t.ensemble[i])
	return true
}

// -------- read --------

func (t *Transport) State() TransportState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Transport) Recording() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recording
}

func (t *Transport) Elapsed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed
}

func (t *Transport) MicStatus() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.micStatus()
}

func (t *Transport) micStatus() string {
	switch {
	case t.recording:
		return MicActive
	case t.state == Playing:
		return MicListening
	default:
		return MicInactive
	}
}

func (t *Transport) Track() model.Track {
	return t.track
}

// Ensemble returns a copy of the live mixer state.
func (t *Transport) Ensemble() model.Ensemble {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ensemble.Clone()
}

// OriginalEnsemble returns the ensemble as it was when the session opened.
func (t *Transport) OriginalEnsemble() model.Ensemble {
	return t.original.Clone()
}

// Snapshot is the view of a session the screen renders.
type Snapshot struct {
	Track      model.Track    `json:"track"`
	Tempo      int            `json:"tempo"`
	Playing    bool           `json:"playing"`
	Recording  bool           `json:"recording"`
	Mic        string         `json:"mic"`
	Elapsed    int            `json:"elapsed"`
	Clock      string         `json:"clock"`
	Ensemble   model.Ensemble `json:"ensemble"`
	Commands   []string       `json:"commands"`
	PoseView   bool           `json:"poseView"`
	BeatPeriod float64        `json:"beatPeriod"`
}

// suggested voice commands
var (
	playingCommands = []string{"Stop", "Slower", "Faster", "Mute Bass"}
	stoppedCommands = []string{"Play", "Start Recording", "Set Tempo"}
)

func (t *Transport) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	playing := t.state == Playing

	commands := stoppedCommands
	if playing {
		commands = playingCommands
	}

	return Snapshot{
		Track:      t.track,
		Tempo:      t.track.Tempo,
		Playing:    playing,
		Recording:  t.recording,
		Mic:        t.micStatus(),
		Elapsed:    t.elapsed,
		Clock:      model.FormatClock(t.elapsed),
		Ensemble:   t.ensemble.Clone(),
		Commands:   append([]string(nil), commands...),
		PoseView:   playing || t.recording,
		BeatPeriod: t.track.BeatPeriod(),
	}
}
