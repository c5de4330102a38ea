package catalog

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"

	"github.com/discobase/discobase/db"
)

var ErrUnknownTrack = errors.New("unknown track")

func (s *Store) CreatePlaylist(name, comment string) (*db.Playlist, error) {
	playlist := db.Playlist{
		PublicID: uuid.NewString(),
		Name:     name,
		Comment:  comment,
	}
	if err := s.db.Create(&playlist).Error; err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}
	return &playlist, nil
}

func (s *Store) PlaylistByPublicID(publicID string) (*db.Playlist, error) {
	var playlist db.Playlist
	err := s.db.
		Where("public_id=?", publicID).
		First(&playlist).
		Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("playlist %q: %w", publicID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

// AddToPlaylist appends the given tracks to the playlist, rejecting ids
// that aren't in the catalog.
func (s *Store) AddToPlaylist(playlistID int, trackIDs ...int) (*db.Playlist, error) {
	var playlist db.Playlist
	err := s.db.First(&playlist, playlistID).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("playlist %d: %w", playlistID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	var count int
	err = s.db.
		Model(db.Track{}).
		Where("id IN (?)", trackIDs).
		Count(&count).
		Error
	if err != nil {
		return nil, fmt.Errorf("count tracks: %w", err)
	}
	if count != len(dedupe(trackIDs)) {
		return nil, ErrUnknownTrack
	}

	playlist.SetItems(append(playlist.GetItems(), trackIDs...))
	if err := s.db.Save(&playlist).Error; err != nil {
		return nil, fmt.Errorf("save playlist: %w", err)
	}
	return &playlist, nil
}

// PlaylistTracks resolves a playlist's items in playlist order.
func (s *Store) PlaylistTracks(playlist *db.Playlist) ([]*db.Track, error) {
	items := playlist.GetItems()
	var tracks []*db.Track
	err := s.db.
		Preload("Album").
		Where("id IN (?)", items).
		Find(&tracks).
		Error
	if err != nil {
		return nil, fmt.Errorf("find tracks: %w", err)
	}
	byID := make(map[int]*db.Track, len(tracks))
	for _, track := range tracks {
		byID[track.ID] = track
	}
	ordered := make([]*db.Track, 0, len(items))
	for _, id := range items {
		if track, ok := byID[id]; ok {
			ordered = append(ordered, track)
		}
	}
	return ordered, nil
}

func dedupe(in []int) []int {
	seen := make(map[int]struct{}, len(in))
	out := make([]int, 0, len(in))
	for _, i := range in {
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	return out
}
