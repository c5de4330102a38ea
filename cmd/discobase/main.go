package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/peterbourgon/ff"
	"golang.org/x/sync/errgroup"

	"github.com/discobase/discobase"
	"github.com/discobase/discobase/catalog"
	"github.com/discobase/discobase/db"
	"github.com/discobase/discobase/handlerutil"
	"github.com/discobase/discobase/importer"
	"github.com/discobase/discobase/server/ctrlcatalog"
)

func main() {
	set := flag.NewFlagSet(discobase.Name, flag.ExitOnError)
	confListenAddr := set.String("listen-addr", "0.0.0.0:4545", "listen address (optional)")
	confDBPath := set.String("db-path", "discobase.db", "path to database (optional)")
	confDropPath := set.String("drop-path", "", "path to watch for catalog dumps (optional)")
	confHTTPLog := set.Bool("http-log", true, "http request logging (optional)")
	confShowVersion := set.Bool("version", false, "show discobase version")
	_ = set.String("config-path", "", "path to config (optional)")

	if err := ff.Parse(set, os.Args[1:],
		ff.WithConfigFileFlag("config-path"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithEnvVarPrefix(discobase.NameUpper),
	); err != nil {
		log.Fatalf("error parsing args: %v\n", err)
	}

	if *confShowVersion {
		fmt.Printf("v%s\n", discobase.Version)
		os.Exit(0)
	}

	dbc, err := db.New(*confDBPath)
	if err != nil {
		log.Fatalf("error opening database: %v\n", err)
	}
	defer dbc.Close()
	if err := dbc.Migrate(); err != nil {
		log.Fatalf("error migrating database: %v\n", err)
	}

	store := catalog.NewStore(dbc)
	mux := http.NewServeMux()
	ctrlcatalog.New(store).AddRoutes(mux)

	middlewares := []handlerutil.Middleware{handlerutil.BasicCORS}
	if *confHTTPLog {
		middlewares = append([]handlerutil.Middleware{handlerutil.Log}, middlewares...)
	}

	server := &http.Server{
		Addr:         *confListenAddr,
		Handler:      handlerutil.Chain(middlewares...)(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 80 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Printf("starting server at %s", server.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})
	if *confDropPath != "" {
		imp := importer.New(dbc)
		group.Go(func() error {
			log.Printf("watching %q for catalog dumps", *confDropPath)
			if err := imp.Watch(ctx, *confDropPath); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		log.Fatalf("error in job: %v", err)
	}
}
