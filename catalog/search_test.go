package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchSubstring(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	seedArtist(t, store, "Thelonious Monk", "Monk's Dream", "Straight, No Chaser")
	seedArtist(t, store, "Charles Mingus", "Mingus Ah Um")

	albums, err := store.SearchAlbums("monk", 0, 0)
	require.NoError(t, err)
	require.Len(t, albums, 1)
	require.Equal(t, "Monk's Dream", albums[0].Title)
	require.NotNil(t, albums[0].Artist)
	require.Equal(t, "Thelonious Monk", albums[0].Artist.Name)

	artists, err := store.SearchArtists("m", 0, 0)
	require.NoError(t, err)
	require.Len(t, artists, 2)
}

func TestSearchUnidecoded(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	seedArtist(t, store, "Céu", "Vagarosa")

	artists, err := store.SearchArtists("ceu", 0, 0)
	require.NoError(t, err)
	require.Len(t, artists, 1)
	require.Equal(t, "Céu", artists[0].Name)
	require.Equal(t, "Ceu", artists[0].IndexName())
}

func TestSearchTrimsWildcards(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	seedArtist(t, store, "Sun Ra", "Lanquidity")

	albums, err := store.SearchAlbums(`*"lanquidity"*`, 0, 0)
	require.NoError(t, err)
	require.Len(t, albums, 1)
}

func TestSearchOffsetLimit(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	seedArtist(t, store, "Miles Davis",
		"Milestones", "Miles Ahead", "Miles Smiles", "Miles in the Sky")

	page, err := store.SearchAlbums("miles", 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)

	rest, err := store.SearchAlbums("miles", 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	require.NotEqual(t, page[0].ID, rest[0].ID)

	all, err := store.Search("miles", 0, 10)
	require.NoError(t, err)
	require.Len(t, all.Artists, 1)
	require.Len(t, all.Albums, 4)
	require.Empty(t, all.Tracks)
}
