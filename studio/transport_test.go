package studio

import (
	"testing"
	"time"

	"mehearsal/model"
)

var testTrack = model.Track{ID: "1", Title: "Bohemian Rhapsody", Artist: "Queen", Tempo: 72, Duration: "5:55", Genre: "Rock"}

func testEnsemble() model.Ensemble {
	return model.Ensemble{
		{ID: "bass", Name: "Bass", Kind: "bass", Avatar: "🎸", Volume: 75},
		{ID: "drums", Name: "Drums", Kind: "drums", Avatar: "🥁", Volume: 80},
		{ID: "piano", Name: "Piano", Kind: "piano", Avatar: "🎹", Volume: 70},
	}
}

var fixed = FixedScores{Tempo: 90, Pitch: 85, Dynamics: 88, Timing: 80, Overall: 87}

// newTestTransport returns a transport on a manual scheduler, counting its end events.
func newTestTransport(t *testing.T) (*Transport, *ManualScheduler, *[]model.SessionMetrics) {
	t.Helper()

	sched := NewManualScheduler()
	var ended []model.SessionMetrics
	tr := NewTransport(testTrack, testEnsemble(),
		WithScheduler(sched),
		WithScoreGenerator(fixed),
		OnEnd(func(m model.SessionMetrics) { ended = append(ended, m) }),
	)
	return tr, sched, &ended
}

func TestNewTransportStartsStopped(t *testing.T) {
	tr, sched, _ := newTestTransport(t)

	if tr.State() != Stopped || tr.Recording() || tr.Elapsed() != 0 {
		t.Errorf("state = %v, recording = %v, elapsed = %d", tr.State(), tr.Recording(), tr.Elapsed())
	}
	if tr.MicStatus() != MicInactive {
		t.Errorf("mic = %q, want inactive", tr.MicStatus())
	}
	if sched.Active() != 0 {
		t.Errorf("ticker running before play")
	}
}

func TestPlayThenStopEndsOnce(t *testing.T) {
	tr, sched, ended := newTestTransport(t)

	if !tr.Play() {
		t.Fatal("Play() = false")
	}
	if tr.MicStatus() != MicListening {
		t.Errorf("mic = %q, want listening", tr.MicStatus())
	}
	sched.Tick(5)

	m, ok := tr.Stop()
	if !ok {
		t.Fatal("Stop() after play: ok = false")
	}
	if m != model.SessionMetrics(fixed) {
		t.Errorf("metrics = %+v, want %+v", m, fixed)
	}
	if len(*ended) != 1 || (*ended)[0] != m {
		t.Errorf("end events = %+v, want exactly one", *ended)
	}
	if tr.State() != Stopped || tr.Elapsed() != 0 || tr.MicStatus() != MicInactive {
		t.Errorf("after stop: state = %v, elapsed = %d, mic = %q", tr.State(), tr.Elapsed(), tr.MicStatus())
	}
	if sched.Active() != 0 {
		t.Error("ticker still running after stop")
	}
}

func TestStopWhileStoppedIsNoop(t *testing.T) {
	tr, sched, ended := newTestTransport(t)

	tr.Play()
	sched.Tick(3)
	tr.Pause()
	tr.ToggleRecord()
	before := tr.Snapshot()

	if _, ok := tr.Stop(); ok {
		t.Error("Stop() while stopped: ok = true")
	}
	if len(*ended) != 0 {
		t.Errorf("end events = %d, want 0", len(*ended))
	}
	after := tr.Snapshot()
	if after.Elapsed != before.Elapsed || after.Playing || after.Recording != before.Recording || after.Mic != before.Mic {
		t.Errorf("state changed: before %+v, after %+v", before, after)
	}
}

func TestElapsedCounter(t *testing.T) {
	tr, sched, _ := newTestTransport(t)

	tr.Play()
	sched.Tick(3)
	if got := tr.Elapsed(); got != 3 {
		t.Fatalf("elapsed = %d, want 3", got)
	}

	tr.Pause()
	if sched.Active() != 0 {
		t.Error("ticker still running after pause")
	}
	sched.Tick(10)
	if got := tr.Elapsed(); got != 3 {
		t.Errorf("elapsed after pause = %d, want 3 (kept, not advancing)", got)
	}

	tr.Play()
	sched.Tick(2)
	if got := tr.Elapsed(); got != 5 {
		t.Errorf("elapsed after resume = %d, want 5", got)
	}
	if sched.Active() != 1 {
		t.Errorf("active tickers = %d, want 1", sched.Active())
	}
}

func TestPlayWhilePlayingIsNoop(t *testing.T) {
	tr, sched, _ := newTestTransport(t)

	tr.Play()
	if tr.Play() {
		t.Error("second Play() = true")
	}
	if sched.Active() != 1 {
		t.Errorf("active tickers = %d, want 1", sched.Active())
	}
	tr.Pause()
	if tr.Pause() {
		t.Error("second Pause() = true")
	}
}

func TestStaleTickIsDropped(t *testing.T) {
	tr, _, _ := newTestTransport(t)

	tr.Play()
	tr.mu.Lock()
	gen := tr.tickGen
	tr.mu.Unlock()

	tr.Pause()
	tr.Play()

	tr.tick(gen) // fired by the first, cancelled ticker
	if got := tr.Elapsed(); got != 0 {
		t.Errorf("elapsed = %d after a stale tick, want 0", got)
	}
}

func TestMicStatus(t *testing.T) {
	tests := []struct {
		name      string
		play      bool
		record    bool
		wantMic   string
		wantPose  bool
		wantFirst string
	}{
		{"stopped", false, false, MicInactive, false, "Play"},
		{"playing", true, false, MicListening, true, "Stop"},
		{"recording", false, true, MicActive, true, "Play"},
		{"playing and recording", true, true, MicActive, true, "Stop"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, _, _ := newTestTransport(t)
			if tt.play {
				tr.Play()
			}
			if tt.record {
				tr.ToggleRecord()
			}

			snap := tr.Snapshot()
			if snap.Mic != tt.wantMic {
				t.Errorf("mic = %q, want %q", snap.Mic, tt.wantMic)
			}
			if snap.PoseView != tt.wantPose {
				t.Errorf("poseView = %v, want %v", snap.PoseView, tt.wantPose)
			}
			if snap.Commands[0] != tt.wantFirst {
				t.Errorf("commands = %v", snap.Commands)
			}
		})
	}
}

func TestRecordIsIndependentOfTransport(t *testing.T) {
	tr, _, _ := newTestTransport(t)

	if !tr.ToggleRecord() {
		t.Fatal("ToggleRecord() = false, want recording")
	}
	if tr.State() != Stopped {
		t.Error("record started playback")
	}

	tr.Play()
	if tr.ToggleRecord() {
		t.Fatal("second ToggleRecord() = true")
	}
	if tr.State() != Playing {
		t.Error("record stopped playback")
	}
	if tr.MicStatus() != MicListening {
		t.Errorf("mic = %q, want listening", tr.MicStatus())
	}

	// stop while recording keeps the mic active
	tr.ToggleRecord()
	tr.Stop()
	if tr.MicStatus() != MicActive {
		t.Errorf("mic after stop while recording = %q, want active", tr.MicStatus())
	}
}

func TestSetVolume(t *testing.T) {
	tr, _, _ := newTestTransport(t)
	before := tr.Ensemble()

	if !tr.SetVolume("bass", 57) {
		t.Fatal("SetVolume(bass) = false")
	}
	after := tr.Ensemble()
	for i := range after {
		want := before[i]
		if want.ID == "bass" {
			want.Volume = 57
		}
		if after[i] != want {
			t.Errorf("slot %d = %+v, want %+v", i, after[i], want)
		}
	}

	if tr.SetVolume("nonexistent", 57) {
		t.Error("SetVolume(nonexistent) = true")
	}
	if got := tr.Ensemble(); !equalEnsembles(got, after) {
		t.Errorf("unknown id changed the ensemble: %+v", got)
	}
}

func TestSetVolumeClamps(t *testing.T) {
	tr, _, _ := newTestTransport(t)

	tr.SetVolume("drums", 150)
	tr.SetVolume("piano", -20)
	e := tr.Ensemble()
	if e[1].Volume != 100 || e[2].Volume != 0 {
		t.Errorf("volumes = %d, %d, want 100, 0", e[1].Volume, e[2].Volume)
	}
}

func TestToggleMuteAndSolo(t *testing.T) {
	tr, _, _ := newTestTransport(t)

	tr.ToggleMute("drums")
	tr.ToggleSolo("piano")
	tr.ToggleSolo("piano")
	tr.ToggleSolo("bass")

	e := tr.Ensemble()
	if !e[1].Muted || e[0].Muted || e[2].Muted {
		t.Errorf("mute = %v %v %v", e[0].Muted, e[1].Muted, e[2].Muted)
	}
	if !e[0].Solo || e[1].Solo || e[2].Solo {
		t.Errorf("solo = %v %v %v", e[0].Solo, e[1].Solo, e[2].Solo)
	}
	if tr.ToggleMute("nonexistent") || tr.ToggleSolo("nonexistent") {
		t.Error("toggle on unknown id = true")
	}
}

func TestMixerDoesNotTouchOriginal(t *testing.T) {
	tr, _, _ := newTestTransport(t)

	tr.SetVolume("bass", 10)
	tr.ToggleMute("bass")

	orig := tr.OriginalEnsemble()
	if orig[0].Volume != 75 || orig[0].Muted {
		t.Errorf("original ensemble mutated: %+v", orig[0])
	}
}

func TestClose(t *testing.T) {
	tr, sched, ended := newTestTransport(t)

	tr.Play()
	tr.Close()
	tr.Close()

	if sched.Active() != 0 {
		t.Error("ticker still running after close")
	}
	if tr.Play() || tr.SetVolume("bass", 1) {
		t.Error("operation succeeded on a closed transport")
	}
	if _, ok := tr.Stop(); ok || len(*ended) != 0 {
		t.Error("closed transport ended")
	}
}

func TestSnapshot(t *testing.T) {
	tr, sched, _ := newTestTransport(t)
	tr.Play()
	sched.Tick(65)

	snap := tr.Snapshot()
	if snap.Clock != "1:05" || snap.Elapsed != 65 {
		t.Errorf("clock = %q, elapsed = %d", snap.Clock, snap.Elapsed)
	}
	if snap.Tempo != 72 || snap.BeatPeriod != 60.0/72 {
		t.Errorf("tempo = %d, beat = %v", snap.Tempo, snap.BeatPeriod)
	}

	snap.Ensemble[0].Volume = 0
	if tr.Ensemble()[0].Volume == 0 {
		t.Error("snapshot shares the live ensemble")
	}
}

func TestTimeScheduler(t *testing.T) {
	tr := NewTransport(testTrack, testEnsemble(),
		WithTickInterval(2*time.Millisecond),
		WithScoreGenerator(fixed))
	defer tr.Close()

	tr.Play()
	deadline := time.Now().Add(2 * time.Second)
	for tr.Elapsed() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("elapsed = %d after 2s", tr.Elapsed())
		}
		time.Sleep(time.Millisecond)
	}

	tr.Pause()
	paused := tr.Elapsed()
	time.Sleep(20 * time.Millisecond)
	if got := tr.Elapsed(); got != paused {
		t.Errorf("elapsed moved while paused: %d -> %d", paused, got)
	}
}

func TestRandomScoresInRange(t *testing.T) {
	for _, g := range []ScoreGenerator{NewRandomScores(42), &RandomScores{}} {
		for i := 0; i < 2000; i++ {
			m := g.Scores()
			if !ScoreRanges.Tempo.Contains(m.Tempo) ||
				!ScoreRanges.Pitch.Contains(m.Pitch) ||
				!ScoreRanges.Dynamics.Contains(m.Dynamics) ||
				!ScoreRanges.Timing.Contains(m.Timing) ||
				!ScoreRanges.Overall.Contains(m.Overall) {
				t.Fatalf("scores out of range: %+v", m)
			}
		}
	}
}

func TestRandomScoresSeeded(t *testing.T) {
	a, b := NewRandomScores(7), NewRandomScores(7)
	for i := 0; i < 10; i++ {
		if ma, mb := a.Scores(), b.Scores(); ma != mb {
			t.Fatalf("same seed, different scores: %+v vs %+v", ma, mb)
		}
	}
}

func equalEnsembles(a, b model.Ensemble) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
