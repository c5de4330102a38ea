//nolint:lll // struct tags get very long and can't be split
package db

import (
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/discobase/discobase/mime"
)

func splitInt(in, sep string) []int {
	if in == "" {
		return []int{}
	}
	parts := strings.Split(in, sep)
	ret := make([]int, 0, len(parts))
	for _, p := range parts {
		i, _ := strconv.Atoi(p)
		ret = append(ret, i)
	}
	return ret
}

func joinInt(in []int, sep string) string {
	if in == nil {
		return ""
	}
	strs := make([]string, 0, len(in))
	for _, i := range in {
		strs = append(strs, strconv.Itoa(i))
	}
	return strings.Join(strs, sep)
}

type Artist struct {
	ID         int       `gorm:"primary_key" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Name       string    `gorm:"not null; unique_index" sql:"default: null" json:"name"`
	NameUDec   string    `sql:"default: null" json:"-"`
	Albums     []*Album  `gorm:"foreignkey:ArtistID" json:"albums,omitempty"`
	AlbumCount int       `sql:"-" json:"album_count"`
}

// IndexName returns the unicode-folded name when one exists, so that
// "Céu" sorts and matches next to "Ceu".
func (a *Artist) IndexName() string {
	if len(a.NameUDec) > 0 {
		return a.NameUDec
	}
	return a.Name
}

type Genre struct {
	ID         int    `gorm:"primary_key" json:"id"`
	Name       string `gorm:"not null; unique_index" sql:"default: null" json:"name"`
	AlbumCount int    `sql:"-" json:"album_count"`
	TrackCount int    `sql:"-" json:"track_count"`
}

type Album struct {
	ID         int       `gorm:"primary_key" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Title      string    `gorm:"not null; index" sql:"default: null" json:"title"`
	TitleUDec  string    `sql:"default: null" json:"-"`
	Artist     *Artist   `json:"artist,omitempty"`
	ArtistID   int       `gorm:"not null; index" sql:"default: null; type:int REFERENCES artists(id) ON DELETE CASCADE" json:"artist_id"`
	Year       int       `sql:"default: null" json:"year"`
	Genres     []*Genre  `gorm:"many2many:album_genres" json:"genres,omitempty"`
	Tracks     []*Track  `json:"tracks,omitempty"`
	TrackCount int       `sql:"-" json:"track_count"`
	Duration   int       `sql:"-" json:"duration"`
}

func (a *Album) IndexTitle() string {
	if len(a.TitleUDec) > 0 {
		return a.TitleUDec
	}
	return a.Title
}

func (a *Album) GenreStrings() []string {
	strs := make([]string, 0, len(a.Genres))
	for _, genre := range a.Genres {
		strs = append(strs, genre.Name)
	}
	return strs
}

type Track struct {
	ID          int       `gorm:"primary_key" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Title       string    `gorm:"not null" sql:"default: null" json:"title"`
	TitleUDec   string    `sql:"default: null" json:"-"`
	Album       *Album    `json:"album,omitempty"`
	AlbumID     int       `gorm:"not null; index" sql:"default: null; type:int REFERENCES albums(id) ON DELETE CASCADE" json:"album_id"`
	TrackNumber int       `sql:"default: null" json:"track_number"`
	DiscNumber  int       `sql:"default: null" json:"disc_number"`
	Length      int       `sql:"default: null" json:"length"`
	Size        int       `sql:"default: null" json:"size"`
	Filename    string    `sql:"default: null" json:"filename"`
	Genres      []*Genre  `gorm:"many2many:track_genres" json:"genres,omitempty"`
}

func (t *Track) Ext() string {
	longExt := path.Ext(t.Filename)
	if len(longExt) < 1 {
		return ""
	}
	return longExt[1:]
}

func (t *Track) MIME() string {
	return mime.FromExtension(t.Ext())
}

func (t *Track) GenreStrings() []string {
	strs := make([]string, 0, len(t.Genres))
	for _, genre := range t.Genres {
		strs = append(strs, genre.Name)
	}
	return strs
}

type TrackGenre struct {
	Track   *Track
	TrackID int `gorm:"not null; unique_index:idx_track_id_genre_id" sql:"default: null; type:int REFERENCES tracks(id) ON DELETE CASCADE"`
	Genre   *Genre
	GenreID int `gorm:"not null; unique_index:idx_track_id_genre_id" sql:"default: null; type:int REFERENCES genres(id) ON DELETE CASCADE"`
}

type AlbumGenre struct {
	Album   *Album
	AlbumID int `gorm:"not null; unique_index:idx_album_id_genre_id" sql:"default: null; type:int REFERENCES albums(id) ON DELETE CASCADE"`
	Genre   *Genre
	GenreID int `gorm:"not null; unique_index:idx_album_id_genre_id" sql:"default: null; type:int REFERENCES genres(id) ON DELETE CASCADE"`
}

type Playlist struct {
	ID         int       `gorm:"primary_key" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	PublicID   string    `gorm:"not null; unique_index" sql:"default: null" json:"public_id"`
	Name       string    `gorm:"not null" sql:"default: null" json:"name"`
	Comment    string    `json:"comment"`
	TrackCount int       `json:"track_count"`
	Items      string    `json:"-"`
}

func (p *Playlist) GetItems() []int {
	return splitInt(p.Items, ",")
}

func (p *Playlist) SetItems(items []int) {
	p.Items = joinInt(items, ",")
	p.TrackCount = len(items)
}

type Setting struct {
	Key   string `gorm:"not null; primary_key; auto_increment:false" sql:"default: null"`
	Value string `sql:"default: null"`
}
