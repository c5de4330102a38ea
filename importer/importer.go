// Package importer ingests JSON catalog dumps into the database. A dump
// holds artists, their albums, and their tracks; importing the same
// dump twice is a no-op, and tracks that disappear from an album's dump
// entry are pruned.
package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/rainycape/unidecode"

	"github.com/discobase/discobase/db"
)

type Importer struct {
	db *db.DB
}

func New(dbc *db.DB) *Importer {
	return &Importer{db: dbc}
}

type Dump struct {
	Artists []DumpArtist `json:"artists"`
}

type DumpArtist struct {
	Name   string      `json:"name"`
	Albums []DumpAlbum `json:"albums"`
}

type DumpAlbum struct {
	Title  string      `json:"title"`
	Year   int         `json:"year"`
	Genres []string    `json:"genres"`
	Tracks []DumpTrack `json:"tracks"`
}

type DumpTrack struct {
	Title       string   `json:"title"`
	TrackNumber int      `json:"track_number"`
	DiscNumber  int      `json:"disc_number"`
	Length      int      `json:"length"`
	Size        int      `json:"size"`
	Filename    string   `json:"filename"`
	Genres      []string `json:"genres"`
}

type Summary struct {
	Artists int
	Albums  int
	Tracks  int
	Pruned  int
	Bytes   int64
}

func (i *Importer) ImportFile(path string) (*Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}
	defer file.Close()
	return i.ImportReader(file)
}

func (i *Importer) ImportReader(reader io.Reader) (*Summary, error) {
	var dump Dump
	if err := json.NewDecoder(reader).Decode(&dump); err != nil {
		return nil, fmt.Errorf("decode dump: %w", err)
	}

	var summary Summary
	var stale []int64
	err := i.db.InTx(func(tx *gorm.DB) error {
		for _, dumpArtist := range dump.Artists {
			artistStale, err := i.importArtist(tx, &summary, dumpArtist)
			if err != nil {
				return fmt.Errorf("artist %q: %w", dumpArtist.Name, err)
			}
			stale = append(stale, artistStale...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(stale) > 0 {
		err := i.db.WithTxChunked(stale, func(tx *gorm.DB, chunk []int64) error {
			return tx.
				Where("id IN (?)", chunk).
				Delete(db.Track{}).
				Error
		})
		if err != nil {
			return nil, fmt.Errorf("prune stale tracks: %w", err)
		}
		summary.Pruned = len(stale)
	}

	if err := i.db.SetSetting(db.LastImportTime, time.Now().Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("set last import time: %w", err)
	}
	return &summary, nil
}

func (i *Importer) importArtist(tx *gorm.DB, summary *Summary, dumpArtist DumpArtist) ([]int64, error) {
	var artist db.Artist
	err := tx.
		Where(db.Artist{Name: dumpArtist.Name}).
		Assign(db.Artist{NameUDec: unidecode.Unidecode(dumpArtist.Name)}).
		FirstOrCreate(&artist).
		Error
	if err != nil {
		return nil, err
	}
	summary.Artists++

	var stale []int64
	for _, dumpAlbum := range dumpArtist.Albums {
		albumStale, err := i.importAlbum(tx, summary, &artist, dumpAlbum)
		if err != nil {
			return nil, fmt.Errorf("album %q: %w", dumpAlbum.Title, err)
		}
		stale = append(stale, albumStale...)
	}
	return stale, nil
}

func (i *Importer) importAlbum(tx *gorm.DB, summary *Summary, artist *db.Artist, dumpAlbum DumpAlbum) ([]int64, error) {
	var album db.Album
	err := tx.
		Where(db.Album{ArtistID: artist.ID, Title: dumpAlbum.Title}).
		Assign(db.Album{
			Year:      dumpAlbum.Year,
			TitleUDec: unidecode.Unidecode(dumpAlbum.Title),
		}).
		FirstOrCreate(&album).
		Error
	if err != nil {
		return nil, err
	}
	summary.Albums++

	for _, name := range dumpAlbum.Genres {
		genre, err := firstOrCreateGenre(tx, name)
		if err != nil {
			return nil, err
		}
		err = tx.
			FirstOrCreate(&db.AlbumGenre{}, db.AlbumGenre{AlbumID: album.ID, GenreID: genre.ID}).
			Error
		if err != nil {
			return nil, fmt.Errorf("album genre %q: %w", name, err)
		}
	}

	seen := map[string]struct{}{}
	for _, dumpTrack := range dumpAlbum.Tracks {
		if err := i.importTrack(tx, summary, &album, dumpTrack); err != nil {
			return nil, fmt.Errorf("track %q: %w", dumpTrack.Title, err)
		}
		seen[dumpTrack.Filename] = struct{}{}
	}

	// anything in this album the dump no longer mentions is stale
	var existing []*db.Track
	if err := tx.Where("album_id=?", album.ID).Find(&existing).Error; err != nil {
		return nil, err
	}
	var stale []int64
	for _, track := range existing {
		if _, ok := seen[track.Filename]; !ok {
			stale = append(stale, int64(track.ID))
		}
	}
	return stale, nil
}

func (i *Importer) importTrack(tx *gorm.DB, summary *Summary, album *db.Album, dumpTrack DumpTrack) error {
	var track db.Track
	err := tx.
		Where(db.Track{AlbumID: album.ID, Filename: dumpTrack.Filename}).
		Assign(db.Track{
			Title:       dumpTrack.Title,
			TitleUDec:   unidecode.Unidecode(dumpTrack.Title),
			TrackNumber: dumpTrack.TrackNumber,
			DiscNumber:  dumpTrack.DiscNumber,
			Length:      dumpTrack.Length,
			Size:        dumpTrack.Size,
		}).
		FirstOrCreate(&track).
		Error
	if err != nil {
		return err
	}
	summary.Tracks++
	summary.Bytes += int64(dumpTrack.Size)

	for _, name := range dumpTrack.Genres {
		genre, err := firstOrCreateGenre(tx, name)
		if err != nil {
			return err
		}
		err = tx.
			FirstOrCreate(&db.TrackGenre{}, db.TrackGenre{TrackID: track.ID, GenreID: genre.ID}).
			Error
		if err != nil {
			return fmt.Errorf("track genre %q: %w", name, err)
		}
	}
	return nil
}

func firstOrCreateGenre(tx *gorm.DB, name string) (*db.Genre, error) {
	var genre db.Genre
	err := tx.
		FirstOrCreate(&genre, db.Genre{Name: name}).
		Error
	if err != nil {
		return nil, fmt.Errorf("first or create genre %q: %w", name, err)
	}
	return &genre, nil
}
