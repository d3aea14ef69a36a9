package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"granth/internal/config"
	"granth/internal/domain/models/book"
	"granth/internal/repository"
	"granth/internal/repository/postgres"
	serviceBook "granth/internal/service/book"
)

//go:embed testdata/gita.json
var sampleBook []byte

// BackendFlags locate one storage backend; empty fields fall back to the environment
type BackendFlags struct {
	Backend     string `help:"Storage backend (postgres, sqlite, file)"`
	DatabaseURL string `name:"database-url" help:"Postgres connection URL"`
	SQLitePath  string `name:"sqlite-path" help:"SQLite database file" type:"path"`
	DataDir     string `name:"data-dir" help:"Directory of compressed book files" type:"path"`
}

func (f BackendFlags) options(cfg *config.Config) repository.Options {
	opts := repository.OptionsFromConfig(cfg)
	opts.RedisURL = "" // bulk tools bypass the cache
	if f.Backend != "" {
		opts.Backend = f.Backend
	}
	if f.DatabaseURL != "" {
		opts.DatabaseURL = f.DatabaseURL
	}
	if f.SQLitePath != "" {
		opts.SQLitePath = f.SQLitePath
	}
	if f.DataDir != "" {
		opts.DataDir = f.DataDir
	}
	return opts
}

// CopyCmd copies every book from one backend to another.
type CopyCmd struct {
	From   BackendFlags `embed:"" prefix:"from-"`
	To     BackendFlags `embed:"" prefix:"to-"`
	DryRun bool         `name:"dry-run" help:"Migrate and report without writing"`
}

func (cmd *CopyCmd) Run(g *Globals) error {
	src, err := repository.Open(g.Ctx, cmd.From.options(g.Cfg), g.Logger)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dst, err := repository.Open(g.Ctx, cmd.To.options(g.Cfg), g.Logger)
	if err != nil {
		return fmt.Errorf("open destination: %w", err)
	}
	defer dst.Close()

	reg, err := serviceBook.LoadSchema(g.Cfg)
	if err != nil {
		return err
	}
	migrator := serviceBook.NewMigrator(reg, g.Cfg)

	ids, err := src.Documents.List(g.Ctx)
	if err != nil {
		return err
	}

	var failed []error
	for _, id := range ids {
		raw, err := src.Documents.Load(g.Ctx, id)
		if err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", id, err))
			continue
		}
		doc, report := migrator.MigrateWithReport(raw)
		doc.ID = id
		if doc.Revision, err = book.Digest(doc); err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", id, err))
			continue
		}

		fmt.Printf("%-32s chapters=%d articles=%d migrated=%t\n", id, report.Chapters, report.Articles, report.Changed())
		if cmd.DryRun {
			continue
		}
		if err := dst.TxManager.ExecTx(g.Ctx, func(ctx context.Context) error {
			return dst.Documents.Save(ctx, id, doc)
		}); err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", id, err))
		}
	}

	fmt.Printf("%d books, %d failed\n", len(ids), len(failed))
	return errors.Join(failed...)
}

// SeedCmd stores the embedded sample book.
type SeedCmd struct {
	Backend BackendFlags `embed:""`
	ID      string       `default:"bhagavad-gita" help:"Book id to store the sample under"`
}

func (cmd *SeedCmd) Run(g *Globals) error {
	store, err := repository.Open(g.Ctx, cmd.Backend.options(g.Cfg), g.Logger)
	if err != nil {
		return err
	}
	defer store.Close()

	services, err := serviceBook.SetupServices(store.Documents, store.TxManager, g.Cfg, g.Logger)
	if err != nil {
		return err
	}
	raw, err := book.DecodeRaw(sampleBook)
	if err != nil {
		return err
	}
	doc, err := services.Documents.PutDocument(g.Ctx, cmd.ID, raw)
	if err != nil {
		return err
	}

	fmt.Printf("seeded %s (%s) revision %s\n", cmd.ID, doc.Metadata.Title, doc.Revision)
	return nil
}

// ResetCmd drops and recreates the Postgres books table.
type ResetCmd struct {
	DatabaseURL string `name:"database-url" help:"Postgres connection URL"`
	Yes         bool   `help:"Confirm dropping the table"`
}

func (cmd *ResetCmd) Run(g *Globals) error {
	// SAFETY: Prevent destructive operations in production
	if g.Cfg.Environment == "prod" {
		return errors.New("refusing to drop tables in the prod environment")
	}
	if !cmd.Yes {
		return errors.New("reset drops every stored book; pass --yes to confirm")
	}

	url := cmd.DatabaseURL
	if url == "" {
		url = g.Cfg.DatabaseURL
	}
	pool, err := postgres.CreateConnectionPool(g.Ctx, url)
	if err != nil {
		return err
	}
	defer pool.Close()

	tables := postgres.NewTableNames(g.Cfg.TablePrefix)
	if err := postgres.DropSchema(g.Ctx, pool, tables); err != nil {
		return err
	}
	if err := postgres.EnsureSchema(g.Ctx, pool, tables); err != nil {
		return err
	}

	fmt.Printf("table %s recreated\n", tables.Books)
	return nil
}
