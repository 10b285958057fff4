package app

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shashiranjanraj/nepkart/config"
	"github.com/shashiranjanraj/nepkart/pkg/cache"
	"github.com/shashiranjanraj/nepkart/pkg/database"
	"github.com/shashiranjanraj/nepkart/pkg/logger"
	"github.com/shashiranjanraj/nepkart/pkg/migration"
	"github.com/shashiranjanraj/nepkart/pkg/orm"
	"github.com/shashiranjanraj/nepkart/pkg/router"
	"gorm.io/gorm"
)

// Boot loads config, connects the database and, when reachable, Redis and
// the MongoDB log sink. The returned cleanup flushes the log sink.
func Boot() (func(), error) {
	cleanup := func() {}
	if err := config.Load(); err != nil {
		return cleanup, err
	}

	if uri := config.LogMongoURI(); uri != "" {
		closeMongo, err := logger.EnableMongo(uri, config.LogMongoDB())
		if err != nil {
			logger.Warn("boot: mongo log sink disabled", "error", err)
		} else {
			cleanup = closeMongo
		}
	}

	if err := database.Connect(); err != nil {
		return cleanup, err
	}
	if err := orm.Instrument(database.DB); err != nil {
		return cleanup, fmt.Errorf("boot: instrument db: %w", err)
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("boot: redis unavailable, caching disabled", "error", err)
	}
	return cleanup, nil
}

// Migrate applies pending migrations and lists them on w.
func Migrate(w io.Writer, db *gorm.DB) error {
	applied, err := migration.New(db).Run()
	for _, name := range applied {
		fmt.Fprintf(w, "Migrated:  %s\n", name)
	}
	if err == nil && len(applied) == 0 {
		fmt.Fprintln(w, "Nothing to migrate.")
	}
	return err
}

// Rollback reverts the last batch and lists it on w.
func Rollback(w io.Writer, db *gorm.DB) error {
	reverted, err := migration.New(db).Rollback()
	for _, name := range reverted {
		fmt.Fprintf(w, "Rolled back:  %s\n", name)
	}
	if err == nil && len(reverted) == 0 {
		fmt.Fprintln(w, "Nothing to roll back.")
	}
	return err
}

// MigrationStatus prints one row per registered migration.
func MigrationStatus(w io.Writer, db *gorm.DB) error {
	rows, err := migration.New(db).Status()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "RAN\tBATCH\tMIGRATION")
	for _, s := range rows {
		ran, batch := "No", "-"
		if s.Ran {
			ran, batch = "Yes", fmt.Sprint(s.Batch)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ran, batch, s.Name)
	}
	return tw.Flush()
}

// RouteList prints the routes registered on r.
func RouteList(w io.Writer, r *router.Router) error {
	infos := r.Routes()
	if len(infos) == 0 {
		fmt.Fprintln(w, "No routes registered.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tNAME")
	for _, ri := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return tw.Flush()
}
