// Package studio is the session screen: the transport (play, pause, stop,
// record) and the mixer of a rehearsal, plus the API its controls call.
//
// Each open studio screen owns one Transport, kept in a Registry until the
// session is stopped, exited or abandoned.
package studio

import (
	"context"
	"time"

	"mehearsal/model"

	"github.com/cdfmlr/crud/log"
	"github.com/gin-gonic/gin"
)

var logger = log.ZoneLogger("mehearsal/studio")

// Config of the studio module.
type Config struct {
	TickInterval  time.Duration
	IdleTimeout   time.Duration
	SweepInterval time.Duration
	MaxSessions   int
}

// TrackEnricher fills in the track fields the envelope does not carry.
type TrackEnricher interface {
	Enrich(model.Track) model.Track
}

// Studio serves the session screen.
type Studio struct {
	registry *Registry
	tracks   TrackEnricher
}

// New returns a studio without routes. tracks may be nil.
func New(registry *Registry, tracks TrackEnricher) *Studio {
	return &Studio{registry: registry, tracks: tracks}
}

// Start the studio module: registers the session screen on router and
// sweeps idle sessions until ctx is done.
func Start(ctx context.Context, cfg Config, tracks TrackEnricher, router gin.IRouter) *Studio {
	registry := NewRegistry(cfg.IdleTimeout, WithTickInterval(cfg.TickInterval))
	registry.SetMaxSessions(cfg.MaxSessions)

	sweep := cfg.SweepInterval
	if sweep <= 0 {
		sweep = time.Minute
	}
	go registry.Run(ctx, sweep)

	s := New(registry, tracks)
	s.registerRoutes(router)
	return s
}

func (s *Studio) Registry() *Registry {
	return s.registry
}
