// Command granthctl migrates, inspects and moves book documents from the command line.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"granth/internal/config"
)

// CLI defines the command-line interface for granthctl.
var CLI struct {
	Verbose bool   `short:"v" help:"Log debug output to stderr"`
	Env     string `name:"env-file" help:"Environment file to load" default:".env" type:"path"`

	Migrate MigrateCmd `cmd:"" help:"Migrate a book file to canonical form"`
	Tree    TreeCmd    `cmd:"" help:"Print the chapter outline of a book file"`
	Panes   PanesCmd   `cmd:"" help:"Print the panes of one article in a book file"`
	Copy    CopyCmd    `cmd:"" help:"Copy every book between storage backends, migrating on the way"`
	Seed    SeedCmd    `cmd:"" help:"Store the sample book in the configured backend"`
	Reset   ResetCmd   `cmd:"" help:"Drop and recreate the Postgres books table"`
}

// Globals is passed to every command's Run method
type Globals struct {
	Ctx    context.Context
	Cfg    *config.Config
	Logger *slog.Logger
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("granthctl"),
		kong.Description("Granth book document tools"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	// Load .env file (silently ignore if it doesn't exist)
	_ = godotenv.Load(CLI.Env)
	cfg := config.Load()

	level := slog.LevelWarn
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	var out io.Writer = os.Stderr
	if cfg.LogDir != "" {
		if f, err := config.SetupLogFile(cfg.LogDir, "granthctl", cfg.LogMaxFiles); err == nil {
			defer f.Close()
			out = io.MultiWriter(os.Stderr, f)
		}
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	err := kctx.Run(&Globals{Ctx: context.Background(), Cfg: cfg, Logger: logger})
	kctx.FatalIfErrorf(err)
}
