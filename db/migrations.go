package db

import (
	"fmt"
	"log"

	"github.com/jinzhu/gorm"
	"gopkg.in/gormigrate.v1"
)

func (db *DB) Migrate() error {
	options := &gormigrate.Options{
		TableName:      "migrations",
		IDColumnName:   "id",
		IDColumnSize:   255,
		UseTransaction: false,
	}

	// $ date '+%Y%m%d%H%M'
	migrations := []*gormigrate.Migration{
		construct("202508181023", migrateInitSchema),
		construct("202508181917", migrateAlbumTitleIDX),
		construct("202508221104", migrateTrackFilenameIDX),
		construct("202508261342", migratePlaylists),
	}

	return gormigrate.
		New(db.DB, options, migrations).
		Migrate()
}

func construct(id string, f func(*gorm.DB) error) *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: id,
		Migrate: func(db *gorm.DB) error {
			tx := db.Begin()
			defer tx.Commit()
			if err := f(tx); err != nil {
				return fmt.Errorf("%q: %w", id, err)
			}
			log.Printf("migration '%s' finished", id)
			return nil
		},
		Rollback: func(*gorm.DB) error {
			return nil
		},
	}
}

func migrateInitSchema(tx *gorm.DB) error {
	return tx.AutoMigrate(
		Genre{},
		TrackGenre{},
		AlbumGenre{},
		Track{},
		Artist{},
		Album{},
		Setting{},
	).
		Error
}

func migrateAlbumTitleIDX(tx *gorm.DB) error {
	return tx.Model(Album{}).
		AddIndex("idx_albums_title", "title").
		Error
}

func migrateTrackFilenameIDX(tx *gorm.DB) error {
	return tx.Model(Track{}).
		AddUniqueIndex("idx_album_id_filename", "album_id", "filename").
		Error
}

func migratePlaylists(tx *gorm.DB) error {
	return tx.AutoMigrate(
		Playlist{},
	).
		Error
}
