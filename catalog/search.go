package catalog

import (
	"fmt"
	"strings"

	"github.com/discobase/discobase/db"
)

const defaultSearchLimit = 20

// likePattern builds the substring predicate value for a raw query,
// trimming the wildcard-ish characters clients like to send.
func likePattern(query string) string {
	return fmt.Sprintf("%%%s%%", strings.Trim(query, `*"'`))
}

func limitOr(limit int) int {
	if limit <= 0 {
		return defaultSearchLimit
	}
	return limit
}

func (s *Store) SearchArtists(query string, offset, limit int) ([]*db.Artist, error) {
	pattern := likePattern(query)
	var artists []*db.Artist
	err := s.db.
		Where("name LIKE ? OR name_u_dec LIKE ?", pattern, pattern).
		Order("name").
		Offset(offset).
		Limit(limitOr(limit)).
		Find(&artists).
		Error
	if err != nil {
		return nil, fmt.Errorf("find artists: %w", err)
	}
	return artists, nil
}

func (s *Store) SearchAlbums(query string, offset, limit int) ([]*db.Album, error) {
	pattern := likePattern(query)
	var albums []*db.Album
	err := s.db.
		Preload("Artist").
		Preload("Genres").
		Where("title LIKE ? OR title_u_dec LIKE ?", pattern, pattern).
		Order("title").
		Offset(offset).
		Limit(limitOr(limit)).
		Find(&albums).
		Error
	if err != nil {
		return nil, fmt.Errorf("find albums: %w", err)
	}
	return albums, nil
}

func (s *Store) SearchTracks(query string, offset, limit int) ([]*db.Track, error) {
	pattern := likePattern(query)
	var tracks []*db.Track
	err := s.db.
		Preload("Album").
		Preload("Album.Artist").
		Where("title LIKE ? OR title_u_dec LIKE ?", pattern, pattern).
		Order("title").
		Offset(offset).
		Limit(limitOr(limit)).
		Find(&tracks).
		Error
	if err != nil {
		return nil, fmt.Errorf("find tracks: %w", err)
	}
	return tracks, nil
}

// SearchResult groups the three entity searches the way clients consume
// them.
type SearchResult struct {
	Artists []*db.Artist `json:"artists"`
	Albums  []*db.Album  `json:"albums"`
	Tracks  []*db.Track  `json:"tracks"`
}

func (s *Store) Search(query string, offset, limit int) (*SearchResult, error) {
	var result SearchResult
	var err error
	if result.Artists, err = s.SearchArtists(query, offset, limit); err != nil {
		return nil, err
	}
	if result.Albums, err = s.SearchAlbums(query, offset, limit); err != nil {
		return nil, err
	}
	if result.Tracks, err = s.SearchTracks(query, offset, limit); err != nil {
		return nil, err
	}
	return &result, nil
}
