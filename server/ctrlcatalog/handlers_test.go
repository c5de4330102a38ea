package ctrlcatalog_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/require"

	"github.com/discobase/discobase"
	"github.com/discobase/discobase/catalog"
	"github.com/discobase/discobase/db"
	"github.com/discobase/discobase/server/ctrlcatalog"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*catalog.Store, *http.ServeMux) {
	t.Helper()
	testDB, err := db.NewMock()
	require.NoError(t, err)
	require.NoError(t, testDB.Migrate())
	t.Cleanup(func() { testDB.Close() })

	store := catalog.NewStore(testDB)
	mux := http.NewServeMux()
	ctrlcatalog.New(store).AddRoutes(mux)
	return store, mux
}

func do(t *testing.T, mux *http.ServeMux, method, target, body string) (int, map[string]interface{}) {
	t.Helper()
	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, reqBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&decoded))
	return w.Code, decoded
}

func TestServePing(t *testing.T) {
	t.Parallel()

	_, mux := newTestServer(t)

	code, body := do(t, mux, http.MethodGet, "/ping", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, discobase.Version, body["version"])
}

func TestServeGetArtist(t *testing.T) {
	t.Parallel()

	store, mux := newTestServer(t)
	artist, err := store.CreateArtist(map[string]interface{}{"name": "Miles Davis"})
	require.NoError(t, err)
	for _, album := range []struct {
		title string
		year  int
	}{
		{"Miles Smiles", 1967},
		{"Kind of Blue", 1959},
	} {
		_, err := store.CreateAlbum(map[string]interface{}{
			"title":     album.title,
			"artist_id": artist.ID,
			"year":      album.year,
		})
		require.NoError(t, err)
	}

	code, body := do(t, mux, http.MethodGet, fmt.Sprintf("/getArtist?id=%d", artist.ID), "")
	require.Equal(t, http.StatusOK, code)

	got := body["artist"].(map[string]interface{})
	require.Equal(t, "Miles Davis", got["name"])
	albums := got["albums"].([]interface{})
	require.Len(t, albums, 2)
	require.Equal(t, "Kind of Blue", albums[0].(map[string]interface{})["title"])
	require.Equal(t, "Miles Smiles", albums[1].(map[string]interface{})["title"])

	code, _ = do(t, mux, http.MethodGet, "/getArtist", "")
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, mux, http.MethodGet, "/getArtist?id=999", "")
	require.Equal(t, http.StatusNotFound, code)
}

func TestServeDeleteArtist(t *testing.T) {
	t.Parallel()

	store, mux := newTestServer(t)
	artist, err := store.CreateArtist(map[string]interface{}{"name": "Sun Ra"})
	require.NoError(t, err)
	_, err = store.CreateAlbum(map[string]interface{}{
		"title":     "Lanquidity",
		"artist_id": artist.ID,
	})
	require.NoError(t, err)

	code, _ := do(t, mux, http.MethodGet, fmt.Sprintf("/deleteArtist?id=%d", artist.ID), "")
	require.Equal(t, http.StatusMethodNotAllowed, code)

	code, body := do(t, mux, http.MethodPost, fmt.Sprintf("/deleteArtist?id=%d", artist.ID), "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", body["status"])

	stats, err := store.Stats()
	require.NoError(t, err)
	require.Zero(t, stats.Artists)
	require.Zero(t, stats.Albums)

	code, _ = do(t, mux, http.MethodPost, fmt.Sprintf("/deleteArtist?id=%d", artist.ID), "")
	require.Equal(t, http.StatusNotFound, code)
}

func TestServeGetAlbum(t *testing.T) {
	t.Parallel()

	store, mux := newTestServer(t)
	artist, err := store.CreateArtist(map[string]interface{}{"name": "Miles Davis"})
	require.NoError(t, err)
	album, err := store.CreateAlbum(map[string]interface{}{
		"title":     "Kind of Blue",
		"artist_id": artist.ID,
		"year":      1959,
	})
	require.NoError(t, err)
	_, err = store.CreateTrack(map[string]interface{}{
		"title":    "So What",
		"album_id": album.ID,
		"length":   545,
	})
	require.NoError(t, err)

	code, body := do(t, mux, http.MethodGet, fmt.Sprintf("/getAlbum?id=%d", album.ID), "")
	require.Equal(t, http.StatusOK, code)

	got := body["album"].(map[string]interface{})
	require.Equal(t, "Kind of Blue", got["title"])
	require.Equal(t, float64(1959), got["year"])
	require.Equal(t, float64(545), got["duration"])
	require.Equal(t, "Miles Davis", got["artist"].(map[string]interface{})["name"])
	require.Len(t, got["tracks"].([]interface{}), 1)

	code, _ = do(t, mux, http.MethodGet, "/getAlbum", "")
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, mux, http.MethodGet, "/getAlbum?id=999", "")
	require.Equal(t, http.StatusNotFound, code)
}

func TestServeSearch(t *testing.T) {
	t.Parallel()

	store, mux := newTestServer(t)
	artist, err := store.CreateArtist(map[string]interface{}{"name": "Thelonious Monk"})
	require.NoError(t, err)
	_, err = store.CreateAlbum(map[string]interface{}{
		"title":     "Monk's Dream",
		"artist_id": artist.ID,
	})
	require.NoError(t, err)

	code, _ := do(t, mux, http.MethodGet, "/search", "")
	require.Equal(t, http.StatusBadRequest, code)

	code, body := do(t, mux, http.MethodGet, "/search?query=monk", "")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["artists"].([]interface{}), 1)
	require.Len(t, body["albums"].([]interface{}), 1)
	require.Empty(t, body["tracks"])
}

func TestServeCreateAlbum(t *testing.T) {
	t.Parallel()

	store, mux := newTestServer(t)
	artist, err := store.CreateArtist(map[string]interface{}{"name": "Miles Davis"})
	require.NoError(t, err)

	code, body := do(t, mux, http.MethodPost, "/createAlbum",
		fmt.Sprintf(`{"artist_id": %d}`, artist.ID))
	require.Equal(t, http.StatusUnprocessableEntity, code)
	fieldErrs := body["errors"].(map[string]interface{})
	require.Contains(t, fieldErrs, "Title")

	code, body = do(t, mux, http.MethodPost, "/createAlbum",
		fmt.Sprintf(`{"title": "Milestones", "artist_id": %d, "year": 1958}`, artist.ID))
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, "Milestones", body["album"].(map[string]interface{})["title"])

	code, _ = do(t, mux, http.MethodGet, "/createAlbum", "")
	require.Equal(t, http.StatusMethodNotAllowed, code)
}

func TestServeCreateArtistConflict(t *testing.T) {
	t.Parallel()

	_, mux := newTestServer(t)

	code, _ := do(t, mux, http.MethodPost, "/createArtist", `{"name": "Sun Ra"}`)
	require.Equal(t, http.StatusCreated, code)

	code, body := do(t, mux, http.MethodPost, "/createArtist", `{"name": "Sun Ra"}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	fieldErrs := body["errors"].(map[string]interface{})
	require.Equal(t, []interface{}{"has already been taken"}, fieldErrs["Name"])
}
