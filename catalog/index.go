package catalog

// this file implements the search index of the catalog:
// songs live in a sqlite table, searched by title or artist.

import (
	"context"
	"fmt"
	"strings"

	"mehearsal/model"

	"github.com/cdfmlr/crud/orm"
	"github.com/cdfmlr/crud/service"
)

type songRow struct {
	orm.BasicModel

	SongID   string `gorm:"uniqueIndex"`
	Position int    `gorm:"index"`
	Title    string
	Artist   string
	Tempo    int
	Duration string
	Genre    string

	// lower-cased copies for case-insensitive search
	TitleFold  string
	ArtistFold string
}

func (songRow) TableName() string { return "catalog_songs" }

func rowFromTrack(t model.Track, position int) songRow {
	return songRow{
		SongID:     t.ID,
		Position:   position,
		Title:      t.Title,
		Artist:     t.Artist,
		Tempo:      t.Tempo,
		Duration:   t.Duration,
		Genre:      t.Genre,
		TitleFold:  strings.ToLower(t.Title),
		ArtistFold: strings.ToLower(t.Artist),
	}
}

func (r *songRow) track() model.Track {
	return model.Track{
		ID:       r.SongID,
		Title:    r.Title,
		Artist:   r.Artist,
		Tempo:    r.Tempo,
		Duration: r.Duration,
		Genre:    r.Genre,
	}
}

// seedSongs puts the fixed songs into the index, in order.
// Songs already indexed (a reopened database) are left as they are.
func seedSongs(ctx context.Context, songs []model.Track) error {
	for i, s := range songs {
		if idExists(ctx, s.ID) {
			continue
		}
		row := rowFromTrack(s, i)
		if err := service.Create(ctx, &row, service.IfNotExist()); err != nil {
			return fmt.Errorf("seedSongs: Create %s failed: %w", s.ID, err)
		}
	}
	return nil
}

func idExists(ctx context.Context, id string) bool {
	cnt, err := service.Count[songRow](ctx, service.FilterBy("song_id", id))
	if err != nil {
		logger.WithContext(ctx).
			WithField("songId", id).
			WithError(err).
			Error("idExists: failed to count songs")
		return false
	}
	return cnt > 0
}

// songExists checks if a song with the same title & artist is indexed.
func songExists(ctx context.Context, t *model.Track) bool {
	cnt, err := service.Count[songRow](ctx,
		service.FilterBy("title", t.Title),
		service.FilterBy("artist", t.Artist))

	if err != nil {
		logger.WithContext(ctx).
			WithField("title", t.Title).
			WithField("artist", t.Artist).
			WithError(err).
			Error("songExists: failed to select songs")
		return false
	}

	return cnt > 0
}

// addSong appends t at the end of the index.
func addSong(ctx context.Context, t *model.Track) error {
	var last int
	err := orm.DB.WithContext(ctx).
		Model(&songRow{}).
		Select("COALESCE(MAX(position), -1)").
		Scan(&last).Error
	if err != nil {
		return fmt.Errorf("addSong: max position failed: %w", err)
	}
	row := rowFromTrack(*t, last+1)
	return service.Create(ctx, &row, service.IfNotExist())
}

// importedCount is the number of indexed songs that came from an import.
func importedCount(ctx context.Context) (int, error) {
	var n int64
	err := orm.DB.WithContext(ctx).
		Model(&songRow{}).
		Where("song_id LIKE ?", ImportedIDPrefix+"%").
		Count(&n).Error
	return int(n), err
}

func loadSongs(ctx context.Context) ([]model.Track, error) {
	var rows []*songRow
	err := orm.DB.WithContext(ctx).
		Order("position").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return tracksOf(rows), nil
}

// Search returns the songs whose title or artist contains query,
// ignoring case, in catalog order. An empty query matches every song.
func (c *Catalog) Search(ctx context.Context, query string) ([]model.Track, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.Songs(), nil
	}

	var rows []*songRow
	err := orm.DB.WithContext(ctx).
		Where("INSTR(title_fold, ?) > 0 OR INSTR(artist_fold, ?) > 0", q, q).
		Order("position").
		Find(&rows).Error
	if err != nil {
		logger.WithContext(ctx).
			WithField("query", query).
			WithError(err).
			Error("Search: failed to select songs")
		return nil, err
	}

	return tracksOf(rows), nil
}

func tracksOf(rows []*songRow) []model.Track {
	tracks := make([]model.Track, 0, len(rows))
	for _, r := range rows {
		tracks = append(tracks, r.track())
	}
	return tracks
}
