package importer

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/discobase/discobase/multierr"
)

const doneSuffix = ".done"

// Watch imports every .json dump dropped into dir until ctx is
// cancelled. Imported dumps are renamed with a .done suffix so they
// aren't picked up again.
func (i *Importer) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %q: %w", dir, err)
	}

	// catch up on anything dropped while we weren't running
	if err := i.ImportDir(dir); err != nil {
		log.Printf("error importing existing dumps: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !shouldImport(event.Name) {
				continue
			}
			if err := i.importAndMark(event.Name); err != nil {
				log.Printf("error importing %q: %v", event.Name, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("error watching %q: %v", dir, err)
		}
	}
}

// ImportDir imports every .json dump already sitting in dir, carrying
// on past dumps that fail.
func (i *Importer) ImportDir(dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return fmt.Errorf("glob %q: %w", dir, err)
	}
	var errs multierr.Err
	for _, path := range paths {
		if err := i.importAndMark(path); err != nil {
			errs.Add(fmt.Errorf("import %q: %w", path, err))
		}
	}
	return errs.Or()
}

// shouldImport filters watcher events down to dumps that still exist.
// Marking a dump .done emits a rename event for the old path, which
// must not feed back into the importer.
func shouldImport(path string) bool {
	if filepath.Ext(path) != ".json" {
		return false
	}
	if _, err := os.Stat(path); err != nil {
		return false
	}
	return true
}

func (i *Importer) importAndMark(path string) error {
	summary, err := i.ImportFile(path)
	if err != nil {
		return err
	}
	if err := os.Rename(path, path+doneSuffix); err != nil {
		return fmt.Errorf("mark imported: %w", err)
	}
	log.Printf("imported %q: %d artists, %d albums, %d tracks, %d pruned",
		filepath.Base(path), summary.Artists, summary.Albums, summary.Tracks, summary.Pruned)
	return nil
}
