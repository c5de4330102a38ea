package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/discobase/discobase/catalog"
)

func TestPlaylist(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	seedArtist(t, store, "Miles Davis", "Kind of Blue")
	album, err := store.AlbumByTitle("Kind of Blue")
	require.NoError(t, err)

	var trackIDs []int
	for i, title := range []string{"So What", "Freddie Freeloader", "Blue in Green"} {
		track, err := store.CreateTrack(map[string]interface{}{
			"title":        title,
			"album_id":     album.ID,
			"track_number": i + 1,
			"filename":     title + ".flac",
		})
		require.NoError(t, err)
		trackIDs = append(trackIDs, track.ID)
	}

	playlist, err := store.CreatePlaylist("late night", "quiet ones")
	require.NoError(t, err)
	require.NotEmpty(t, playlist.PublicID)

	// order matters, not insertion order
	playlist, err = store.AddToPlaylist(playlist.ID, trackIDs[2], trackIDs[0])
	require.NoError(t, err)
	require.Equal(t, 2, playlist.TrackCount)

	tracks, err := store.PlaylistTracks(playlist)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	require.Equal(t, "Blue in Green", tracks[0].Title)
	require.Equal(t, "So What", tracks[1].Title)

	found, err := store.PlaylistByPublicID(playlist.PublicID)
	require.NoError(t, err)
	require.Equal(t, playlist.ID, found.ID)

	_, err = store.PlaylistByPublicID("nope")
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestAddToPlaylistUnknownTrack(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	playlist, err := store.CreatePlaylist("empty", "")
	require.NoError(t, err)

	_, err = store.AddToPlaylist(playlist.ID, 42)
	require.ErrorIs(t, err, catalog.ErrUnknownTrack)
}
