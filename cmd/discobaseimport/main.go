package main

import (
	"flag"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/peterbourgon/ff"

	"github.com/discobase/discobase"
	"github.com/discobase/discobase/db"
	"github.com/discobase/discobase/importer"
)

func main() {
	set := flag.NewFlagSet(discobase.Name+"import", flag.ExitOnError)
	confDBPath := set.String("db-path", "discobase.db", "path to database (optional)")
	confDumpPath := set.String("dump-path", "", "path to catalog dump")

	if err := ff.Parse(set, os.Args[1:],
		ff.WithEnvVarPrefix(discobase.NameUpper),
	); err != nil {
		log.Fatalf("error parsing args: %v\n", err)
	}

	if *confDumpPath == "" {
		log.Fatal("please provide a dump path")
	}
	if _, err := os.Stat(*confDumpPath); os.IsNotExist(err) {
		log.Fatalf("dump %q does not exist", *confDumpPath)
	}

	dbc, err := db.New(*confDBPath)
	if err != nil {
		log.Fatalf("error opening database: %v\n", err)
	}
	defer dbc.Close()
	if err := dbc.Migrate(); err != nil {
		log.Fatalf("error migrating database: %v\n", err)
	}

	summary, err := importer.New(dbc).ImportFile(*confDumpPath)
	if err != nil {
		log.Fatalf("error importing: %v\n", err)
	}

	log.Printf("imported %s artists, %s albums, %s tracks (%s), pruned %s",
		humanize.Comma(int64(summary.Artists)),
		humanize.Comma(int64(summary.Albums)),
		humanize.Comma(int64(summary.Tracks)),
		humanize.Bytes(uint64(summary.Bytes)),
		humanize.Comma(int64(summary.Pruned)),
	)
}
