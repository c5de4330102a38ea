package ctrlcatalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/discobase/discobase"
)

func (c *Controller) AddRoutes(mux *http.ServeMux) {
	mux.Handle("/ping", c.H(c.ServePing))
	mux.Handle("/listArtists", c.H(c.ServeListArtists))
	mux.Handle("/getArtist", c.H(c.ServeGetArtist))
	mux.Handle("/getAlbum", c.H(c.ServeGetAlbum))
	mux.Handle("/listGenres", c.H(c.ServeListGenres))
	mux.Handle("/search", c.H(c.ServeSearch))
	mux.Handle("/getStats", c.H(c.ServeGetStats))
	mux.Handle("/createArtist", c.H(c.ServeCreateArtist))
	mux.Handle("/createAlbum", c.H(c.ServeCreateAlbum))
	mux.Handle("/deleteArtist", c.H(c.ServeDeleteArtist))
}

func paramInt(r *http.Request, key string, or int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return or
	}
	return v
}

func (c *Controller) ServePing(*http.Request) *Response {
	return NewResponse(map[string]string{
		"status":  "ok",
		"version": discobase.Version,
	})
}

func (c *Controller) ServeListArtists(*http.Request) *Response {
	artists, err := c.store.Artists()
	if err != nil {
		return respError(err)
	}
	return NewResponse(map[string]interface{}{"artists": artists})
}

func (c *Controller) ServeGetArtist(r *http.Request) *Response {
	id := paramInt(r, "id", 0)
	if id == 0 {
		return NewError(http.StatusBadRequest, "please provide an `id` parameter")
	}
	artist, err := c.store.ArtistWithAlbums(id)
	if err != nil {
		return respError(err)
	}
	return NewResponse(map[string]interface{}{"artist": artist})
}

func (c *Controller) ServeGetAlbum(r *http.Request) *Response {
	id := paramInt(r, "id", 0)
	if id == 0 {
		return NewError(http.StatusBadRequest, "please provide an `id` parameter")
	}
	album, err := c.store.AlbumWithTracks(id)
	if err != nil {
		return respError(err)
	}
	return NewResponse(map[string]interface{}{"album": album})
}

func (c *Controller) ServeListGenres(*http.Request) *Response {
	genres, err := c.store.Genres()
	if err != nil {
		return respError(err)
	}
	return NewResponse(map[string]interface{}{"genres": genres})
}

func (c *Controller) ServeSearch(r *http.Request) *Response {
	query := r.URL.Query().Get("query")
	if query == "" {
		return NewError(http.StatusBadRequest, "please provide a `query` parameter")
	}
	result, err := c.store.Search(query,
		paramInt(r, "offset", 0),
		paramInt(r, "limit", 0))
	if err != nil {
		return respError(err)
	}
	return NewResponse(result)
}

func (c *Controller) ServeGetStats(*http.Request) *Response {
	stats, err := c.store.Stats()
	if err != nil {
		return respError(err)
	}
	return NewResponse(stats)
}

func (c *Controller) ServeCreateArtist(r *http.Request) *Response {
	params, resp := bodyParams(r)
	if resp != nil {
		return resp
	}
	artist, err := c.store.CreateArtist(params)
	if err != nil {
		return respError(err)
	}
	return &Response{code: http.StatusCreated, body: map[string]interface{}{"artist": artist}}
}

func (c *Controller) ServeCreateAlbum(r *http.Request) *Response {
	params, resp := bodyParams(r)
	if resp != nil {
		return resp
	}
	album, err := c.store.CreateAlbum(params)
	if err != nil {
		return respError(err)
	}
	return &Response{code: http.StatusCreated, body: map[string]interface{}{"album": album}}
}

func (c *Controller) ServeDeleteArtist(r *http.Request) *Response {
	if r.Method != http.MethodPost {
		return NewError(http.StatusMethodNotAllowed, "use POST")
	}
	id := paramInt(r, "id", 0)
	if id == 0 {
		return NewError(http.StatusBadRequest, "please provide an `id` parameter")
	}
	if err := c.store.DeleteArtist(id); err != nil {
		return respError(err)
	}
	return NewResponse(map[string]string{"status": "ok"})
}

func bodyParams(r *http.Request) (map[string]interface{}, *Response) {
	if r.Method != http.MethodPost {
		return nil, NewError(http.StatusMethodNotAllowed, "use POST")
	}
	var params map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		return nil, NewError(http.StatusBadRequest, "decode body: %v", err)
	}
	return params, nil
}
