// Package catalog is the data access facade over the discobase schema.
// Reads return models with their associations preloaded in follow up
// queries, writes go through changesets so that callers get field
// errors back instead of driver errors.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jinzhu/gorm"
	"github.com/mattn/go-sqlite3"
	"github.com/rainycape/unidecode"

	"github.com/discobase/discobase/changeset"
	"github.com/discobase/discobase/db"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db *db.DB
}

func NewStore(dbc *db.DB) *Store {
	return &Store{db: dbc}
}

func (s *Store) ArtistByName(name string) (*db.Artist, error) {
	var artist db.Artist
	err := s.db.
		Where("name=?", name).
		First(&artist).
		Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("artist %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

func (s *Store) AlbumByTitle(title string) (*db.Album, error) {
	var album db.Album
	err := s.db.
		Where("title=?", title).
		First(&album).
		Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("album %q: %w", title, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &album, nil
}

func (s *Store) GenreByName(name string) (*db.Genre, error) {
	var genre db.Genre
	err := s.db.
		Where("name=?", name).
		First(&genre).
		Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("genre %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &genre, nil
}

func (s *Store) ArtistWithAlbums(id int) (*db.Artist, error) {
	var artist db.Artist
	err := s.db.
		Preload("Albums", func(db *gorm.DB) *gorm.DB {
			return db.Order("albums.year, albums.title")
		}).
		First(&artist, id).
		Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("artist %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

func (s *Store) AlbumWithTracks(id int) (*db.Album, error) {
	var album db.Album
	err := s.db.
		Preload("Artist").
		Preload("Genres").
		Preload("Tracks", func(db *gorm.DB) *gorm.DB {
			return db.Order("tracks.disc_number, tracks.track_number")
		}).
		First(&album, id).
		Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("album %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	album.TrackCount = len(album.Tracks)
	for _, track := range album.Tracks {
		album.Duration += track.Length
	}
	return &album, nil
}

func (s *Store) AlbumsByArtist(artistID int) ([]*db.Album, error) {
	var albums []*db.Album
	err := s.db.
		Where("artist_id=?", artistID).
		Order("year, title").
		Find(&albums).
		Error
	if err != nil {
		return nil, fmt.Errorf("find albums: %w", err)
	}
	return albums, nil
}

func (s *Store) Artists() ([]*db.Artist, error) {
	var artists []*db.Artist
	err := s.db.
		Select("artists.*, count(albums.id) album_count").
		Joins("LEFT JOIN albums ON albums.artist_id=artists.id").
		Group("artists.id").
		Order("artists.name").
		Find(&artists).
		Error
	if err != nil {
		return nil, fmt.Errorf("find artists: %w", err)
	}
	return artists, nil
}

func (s *Store) Genres() ([]*db.Genre, error) {
	var genres []*db.Genre
	err := s.db.
		Select(`genres.*,
			(SELECT count(1) FROM album_genres WHERE album_genres.genre_id=genres.id) album_count,
			(SELECT count(1) FROM track_genres WHERE track_genres.genre_id=genres.id) track_count`).
		Order("genres.name").
		Find(&genres).
		Error
	if err != nil {
		return nil, fmt.Errorf("find genres: %w", err)
	}
	return genres, nil
}

func (s *Store) CreateArtist(params map[string]interface{}) (*db.Artist, error) {
	var artist db.Artist
	cs := changeset.New(&artist).
		Cast(params, "Name").
		Required("Name")
	if err := cs.Check(); err != nil {
		return nil, err
	}
	artist.NameUDec = unidecode.Unidecode(artist.Name)
	if err := s.db.Create(&artist).Error; err != nil {
		return nil, constraintError(cs, err)
	}
	return &artist, nil
}

func (s *Store) CreateAlbum(params map[string]interface{}) (*db.Album, error) {
	var album db.Album
	cs := changeset.New(&album).
		Cast(params, "Title", "ArtistID", "Year").
		Required("Title", "ArtistID")
	if err := cs.Check(); err != nil {
		return nil, err
	}
	album.TitleUDec = unidecode.Unidecode(album.Title)
	if err := s.db.Create(&album).Error; err != nil {
		return nil, constraintError(cs, err)
	}
	return &album, nil
}

func (s *Store) CreateTrack(params map[string]interface{}) (*db.Track, error) {
	var track db.Track
	cs := changeset.New(&track).
		Cast(params, "Title", "AlbumID", "TrackNumber", "DiscNumber", "Length", "Size", "Filename").
		Required("Title", "AlbumID")
	if err := cs.Check(); err != nil {
		return nil, err
	}
	track.TitleUDec = unidecode.Unidecode(track.Title)
	if err := s.db.Create(&track).Error; err != nil {
		return nil, constraintError(cs, err)
	}
	return &track, nil
}

func (s *Store) CreateGenre(params map[string]interface{}) (*db.Genre, error) {
	var genre db.Genre
	cs := changeset.New(&genre).
		Cast(params, "Name").
		Required("Name")
	if err := cs.Check(); err != nil {
		return nil, err
	}
	if err := s.db.Create(&genre).Error; err != nil {
		return nil, constraintError(cs, err)
	}
	return &genre, nil
}

func (s *Store) UpdateAlbum(id int, params map[string]interface{}) (*db.Album, error) {
	var album db.Album
	err := s.db.First(&album, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("album %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	cs := changeset.New(&album).
		Cast(params, "Title", "ArtistID", "Year").
		Required("Title", "ArtistID")
	if err := cs.Check(); err != nil {
		return nil, err
	}
	album.TitleUDec = unidecode.Unidecode(album.Title)
	if err := s.db.Save(&album).Error; err != nil {
		return nil, constraintError(cs, err)
	}
	return &album, nil
}

func (s *Store) DeleteAlbum(id int) error {
	q := s.db.Delete(&db.Album{ID: id})
	if q.Error != nil {
		return q.Error
	}
	if q.RowsAffected == 0 {
		return fmt.Errorf("album %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteArtist removes the artist and, through the schema's cascading
// foreign keys, their albums and tracks.
func (s *Store) DeleteArtist(id int) error {
	q := s.db.Delete(&db.Artist{ID: id})
	if q.Error != nil {
		return q.Error
	}
	if q.RowsAffected == 0 {
		return fmt.Errorf("artist %d: %w", id, ErrNotFound)
	}
	return nil
}

// AttachAlbumGenres tags the album with the named genres, creating any
// that don't exist yet.
func (s *Store) AttachAlbumGenres(album *db.Album, names ...string) error {
	return s.db.InTx(func(tx *gorm.DB) error {
		for _, name := range names {
			var genre db.Genre
			if err := tx.FirstOrCreate(&genre, db.Genre{Name: name}).Error; err != nil {
				return fmt.Errorf("first or create genre %q: %w", name, err)
			}
			if err := tx.Model(album).Association("Genres").Append(&genre).Error; err != nil {
				return fmt.Errorf("append genre %q: %w", name, err)
			}
		}
		return nil
	})
}

type Stats struct {
	Artists   int `json:"artists"`
	Albums    int `json:"albums"`
	Tracks    int `json:"tracks"`
	Genres    int `json:"genres"`
	Playlists int `json:"playlists"`
}

func (s *Store) Stats() (*Stats, error) {
	var stats Stats
	for _, count := range []struct {
		model interface{}
		dest  *int
	}{
		{db.Artist{}, &stats.Artists},
		{db.Album{}, &stats.Albums},
		{db.Track{}, &stats.Tracks},
		{db.Genre{}, &stats.Genres},
		{db.Playlist{}, &stats.Playlists},
	} {
		if err := s.db.Model(count.model).Count(count.dest).Error; err != nil {
			return nil, fmt.Errorf("count: %w", err)
		}
	}
	return &stats, nil
}

// constraintError maps a database unique constraint violation onto a
// changeset field error, the same shape validations produce. Other
// constraint classes (foreign key, check) and everything else come
// back unchanged.
func constraintError(cs *changeset.Changeset, err error) error {
	var serr sqlite3.Error
	if !errors.As(err, &serr) || serr.ExtendedCode != sqlite3.ErrConstraintUnique {
		return err
	}
	cs.AddError(constraintField(serr.Error()), "has already been taken")
	return cs.Check()
}

// constraintField pulls the first offending column out of messages like
// "UNIQUE constraint failed: genres.name".
func constraintField(msg string) string {
	i := strings.LastIndex(msg, ": ")
	if i < 0 {
		return "base"
	}
	col := strings.Split(msg[i+2:], ", ")[0]
	if j := strings.Index(col, "."); j >= 0 {
		col = col[j+1:]
	}
	return fieldName(col)
}

func fieldName(column string) string {
	var b strings.Builder
	for _, part := range strings.Split(column, "_") {
		switch {
		case part == "":
		case part == "id":
			b.WriteString("ID")
		default:
			b.WriteString(strings.ToUpper(part[:1]))
			b.WriteString(part[1:])
		}
	}
	return b.String()
}
