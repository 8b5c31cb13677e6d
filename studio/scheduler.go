package studio

import (
	"sync"
	"time"
)

// Scheduler runs a callback periodically until cancelled.
type Scheduler interface {
	// Every calls tick once per interval until cancel is called.
	// cancel is idempotent and never blocks.
	Every(interval time.Duration, tick func()) (cancel func())
}

// TimeScheduler is the Scheduler backed by time.Ticker.
type TimeScheduler struct{}

func (TimeScheduler) Every(interval time.Duration, tick func()) (cancel func()) {
	t := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				tick()
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// ManualScheduler ticks only when told to. For tests.
type ManualScheduler struct {
	mu      sync.Mutex
	nextID  int
	pending map[int]func()
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: make(map[int]func())}
}

func (m *ManualScheduler) Every(_ time.Duration, tick func()) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.pending[id] = tick

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.pending, id)
	}
}

// Tick fires every live callback n times.
func (m *ManualScheduler) Tick(n int) {
	for i := 0; i < n; i++ {
		m.mu.Lock()
		ticks := make([]func(), 0, len(m.pending))
		for _, f := range m.pending {
			ticks = append(ticks, f)
		}
		m.mu.Unlock()

		for _, f := range ticks {
			f()
		}
	}
}

// Active is the number of callbacks not cancelled yet.
func (m *ManualScheduler) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
