// Package catalog is the song catalog and the ensemble selector
// (the first screen of the studio).
//
// The catalog is built once at start: the fixed song table, plus the tracks
// imported from a directory of tagged audio files, loaded into a SQLite search
// index. After Start it is never mutated.
package catalog

import (
	"context"
	"fmt"

	"mehearsal/model"

	"github.com/cdfmlr/crud/log"
	"github.com/cdfmlr/crud/orm"
	"github.com/gin-gonic/gin"

	"github.com/glebarez/sqlite" // pure go sqlite driver
	"gorm.io/gorm"
)

var logger = log.ZoneLogger("mehearsal/catalog")

// Config of the catalog module.
type Config struct {
	// DB is the DSN of the search index. Defaults to an in-memory database.
	DB string
	// ImportDir, if not empty, is scanned for tagged audio files at start.
	ImportDir string
}

// Catalog holds the songs known to this process.
type Catalog struct {
	songs []model.Track
	byID  map[string]int
}

// Start the catalog module: connect the index, load the songs
// and register the catalog screen on router.
//
// There should be only one catalog in a program.
func Start(ctx context.Context, cfg Config, router gin.IRouter) (*Catalog, error) {
	c, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c.registerRoutes(router)

	return c, nil
}

// Open builds the catalog without registering any route.
func Open(ctx context.Context, cfg Config) (*Catalog, error) {
	if cfg.DB == "" {
		cfg.DB = DefaultDB
	}
	if err := connectDB(cfg.DB); err != nil {
		return nil, fmt.Errorf("catalog.Open: connectDB failed: %w", err)
	}

	orm.RegisterModel(&songRow{})

	if err := seedSongs(ctx, sampleSongs[:]); err != nil {
		return nil, fmt.Errorf("catalog.Open: seedSongs failed: %w", err)
	}

	if cfg.ImportDir != "" {
		if err := importTracksFromDir(ctx, cfg.ImportDir); err != nil {
			// the fixed songs are still there.
			logger.WithError(err).
				WithField("ImportDir", cfg.ImportDir).
				Warn("Open: importTracksFromDir failed")
		}
	}

	songs, err := loadSongs(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog.Open: loadSongs failed: %w", err)
	}

	c := &Catalog{
		songs: songs,
		byID:  make(map[string]int, len(songs)),
	}
	for i, s := range songs {
		c.byID[s.ID] = i
	}

	logger.WithField("songs", len(songs)).Info("catalog ready")

	return c, nil
}

// DefaultDB keeps the index in memory: nothing outlives the process.
const DefaultDB = ":memory:"

func connectDB(dsn string) error {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: log.Logger4Gorm,
	})
	if err != nil {
		return err
	}

	// every new connection to :memory: is a new, empty database.
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)

	orm.DB = db
	return nil
}

// Songs returns a copy of all the songs, in catalog order.
func (c *Catalog) Songs() []model.Track {
	out := make([]model.Track, len(c.songs))
	copy(out, c.songs)
	return out
}

// Song looks up a song by id.
func (c *Catalog) Song(id string) (model.Track, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Track{}, false
	}
	return c.songs[i], true
}

// Enrich fills the fields the navigation envelope does not carry
// (duration, genre) from the catalog entry with the same id.
func (c *Catalog) Enrich(t model.Track) model.Track {
	if s, ok := c.Song(t.ID); ok {
		t.Duration = s.Duration
		t.Genre = s.Genre
	}
	return t
}
