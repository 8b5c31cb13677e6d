package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mehearsal/model"

	"github.com/dhowden/tag"
)

// this file implements the import of songs from a local directory
// of tagged audio files.

// ImportedIDPrefix prefixes the ids of imported songs: "imp-1", "imp-2", ...
const ImportedIDPrefix = "imp-"

var errNoTempo = errors.New("no tempo tag")

// importTracksFromDir adds every tagged audio file under dir to the index.
// Files that can't be read, carry no tempo or duplicate a song are skipped.
func importTracksFromDir(ctx context.Context, dir string) error {
	logger.WithField("ImportDir", dir).Info("importTracksFromDir: start")

	imported, err := importedCount(ctx)
	if err != nil {
		return fmt.Errorf("importTracksFromDir: importedCount failed: %w", err)
	}

	ch, err := enumMusicFiles(dir)
	if err != nil {
		return fmt.Errorf("importTracksFromDir: enumMusicFiles failed: %w", err)
	}

	for path := range ch {
		track, err := TrackFromAudioFile(path)
		if err != nil {
			logger.WithField("path", path).WithError(err).
				Warn("importTracksFromDir: skip file")
			continue
		}

		if songExists(ctx, track) {
			logger.WithField("path", path).
				WithField("title", track.Title).
				Debug("importTracksFromDir: song already in catalog")
			continue
		}

		imported++
		track.ID = ImportedIDPrefix + strconv.Itoa(imported)

		if err := addSong(ctx, track); err != nil {
			logger.Errorf("importTracksFromDir: addSong failed: %v", err)
			imported--
			continue
		}

		logger.WithField("ID", track.ID).
			WithField("Title", track.Title).
			WithField("Tempo", track.Tempo).
			Info("importTracksFromDir: song added")
	}

	return nil
}

// TrackFromAudioFile reads a catalog song from the tags of an audio file.
//
// Title, artist and genre come from the usual tags (title defaults to the
// file name), the tempo from the BPM frame (ID3 TBPM, MP4 tmpo).
// A file without a positive tempo is rejected. Duration is left blank.
func TrackFromAudioFile(path string) (*model.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, err
	}

	tempo, ok := tempoFromRaw(m.Raw())
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, errNoTempo)
	}

	track := &model.Track{
		Title:  m.Title(),
		Artist: m.Artist(),
		Tempo:  tempo,
		Genre:  m.Genre(),
	}

	if track.Title == "" {
		track.Title = strings.TrimSuffix(
			filepath.Base(path), filepath.Ext(path))
	}

	return track, nil
}

// tempoFromRaw digs the BPM out of the raw tag frames.
func tempoFromRaw(raw map[string]interface{}) (int, bool) {
	for _, key := range []string{"TBPM", "TBP", "tmpo", "bpm", "BPM"} {
		v, ok := raw[key]
		if !ok {
			continue
		}

		var bpm int
		switch v := v.(type) {
		case string:
			// some taggers write "120.00"
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				continue
			}
			bpm = int(f + 0.5)
		case int:
			bpm = v
		case uint16:
			bpm = int(v)
		case uint32:
			bpm = int(v)
		case int64:
			bpm = int(v)
		default:
			continue
		}

		if bpm > 0 {
			return bpm, true
		}
	}
	return 0, false
}

// isMusicFile returns true if the file is a music file.
// It checks the file extension.
// supported extensions: .mp3, .m4a, .flac, .ogg
func isMusicFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3", ".m4a", ".flac", ".ogg":
		return true
	default:
		return false
	}
}

// enumMusicFiles enumerates all the music files in the directory.
// It returns a channel of the file paths.
func enumMusicFiles(dir string) (chan string, error) {
	if dir == "" {
		return nil, errors.New("empty dir")
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return nil, errors.New("not a dir")
	}

	ch := make(chan string, 3)

	go func() {
		defer close(ch)

		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() || !isMusicFile(path) {
				return nil
			}

			ch <- path

			return nil
		})

		if err != nil {
			logger.WithError(err).Error("enumMusicFiles: WalkDir failed")
		}
	}()

	return ch, nil
}
