package db_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/discobase/discobase/db"
)

func TestTrackExtMIME(t *testing.T) {
	t.Parallel()

	track := db.Track{Filename: "01 so what.flac"}
	require.Equal(t, "flac", track.Ext())
	require.Equal(t, "audio/x-flac", track.MIME())

	track.Filename = "no extension"
	require.Empty(t, track.Ext())
	require.Empty(t, track.MIME())
}

func TestPlaylistItems(t *testing.T) {
	t.Parallel()

	var playlist db.Playlist
	require.Empty(t, playlist.GetItems())

	playlist.SetItems([]int{3, 1, 2})
	require.Equal(t, "3,1,2", playlist.Items)
	require.Equal(t, 3, playlist.TrackCount)
	require.Equal(t, []int{3, 1, 2}, playlist.GetItems())
}

func TestIndexNames(t *testing.T) {
	t.Parallel()

	artist := db.Artist{Name: "Céu", NameUDec: "Ceu"}
	require.Equal(t, "Ceu", artist.IndexName())

	artist.NameUDec = ""
	require.Equal(t, "Céu", artist.IndexName())

	album := db.Album{Title: "Vagarosa"}
	require.Equal(t, "Vagarosa", album.IndexTitle())
}
