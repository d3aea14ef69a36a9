package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"granth/internal/domain/models/book"
	serviceBook "granth/internal/service/book"
)

func readRaw(path string) (book.RawDocument, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return book.DecodeRaw(data)
}

// loadFile reads and migrates a book file
func loadFile(g *Globals, path string) (*book.Document, book.MigrationReport, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, book.MigrationReport{}, err
	}
	reg, err := serviceBook.LoadSchema(g.Cfg)
	if err != nil {
		return nil, book.MigrationReport{}, err
	}
	doc, report := serviceBook.NewMigrator(reg, g.Cfg).MigrateWithReport(raw)
	return doc, report, nil
}

// MigrateCmd prints a book file in canonical form.
type MigrateCmd struct {
	File   string `arg:"" help:"Book JSON file ('-' for stdin)"`
	Output string `short:"o" help:"Write to this file instead of stdout" type:"path"`
	Report bool   `help:"Print the migration report to stderr"`
}

func (cmd *MigrateCmd) Run(g *Globals) error {
	doc, report, err := loadFile(g, cmd.File)
	if err != nil {
		return err
	}
	if doc.Revision, err = book.Digest(doc); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if cmd.Report {
		rep, _ := json.Marshal(report)
		fmt.Fprintf(os.Stderr, "%s\n", rep)
	}
	if cmd.Output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(cmd.Output, data, 0o644)
}

// TreeCmd prints the chapter outline.
type TreeCmd struct {
	File   string `arg:"" help:"Book JSON file ('-' for stdin)"`
	Verses bool   `help:"List verse keys under each chapter"`
}

func (cmd *TreeCmd) Run(g *Globals) error {
	doc, _, err := loadFile(g, cmd.File)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", doc.Metadata.Title, doc.Metadata.Author)
	book.WalkChapters(doc.Chapters, func(ch, _ *book.Chapter, depth int) bool {
		indent := strings.Repeat("  ", depth+1)
		fmt.Printf("%s%s  [%s] %d articles\n", indent, ch.Name, ch.ID, len(ch.Articles))
		if cmd.Verses && len(ch.Articles) > 0 {
			verses := make([]string, 0, len(ch.Articles))
			for _, a := range ch.Articles {
				verses = append(verses, a.Verse)
			}
			fmt.Printf("%s  verses: %s\n", indent, strings.Join(verses, ", "))
		}
		return true
	})
	return nil
}

// PanesCmd prints the projected panes of one article.
type PanesCmd struct {
	File    string   `arg:"" help:"Book JSON file ('-' for stdin)"`
	Chapter string   `arg:"" help:"Chapter id"`
	Verse   string   `arg:"" help:"Verse key"`
	Pane    []string `help:"Pane label to show (repeatable, at most 3)"`
	Lang    string   `default:"en" help:"Translation language to show under each block"`
}

func (cmd *PanesCmd) Run(g *Globals) error {
	doc, _, err := loadFile(g, cmd.File)
	if err != nil {
		return err
	}
	_, a, ok := book.FindArticle(doc.Chapters, cmd.Chapter, cmd.Verse)
	if !ok {
		return fmt.Errorf("verse %s not found in chapter %s", cmd.Verse, cmd.Chapter)
	}

	reg, err := serviceBook.LoadSchema(g.Cfg)
	if err != nil {
		return err
	}
	projection := book.ProjectPanesWith(a, reg)
	panes, err := projection.Select(cmd.Pane...)
	if err != nil {
		return err
	}

	fmt.Printf("%s  (choices: %s)\n", a.Title, strings.Join(projection.Choices(), ", "))
	for _, p := range panes {
		fmt.Printf("\n== %s ==\n", p.Label)
		for _, b := range p.Blocks {
			fmt.Printf("[%s] %s\n", b.Type, b.Text)
			if tr, ok := b.Translation(cmd.Lang); ok {
				fmt.Printf("    %s\n", tr)
			}
		}
	}
	return nil
}
