package book

import (
	"fmt"
	"log/slog"

	"granth/internal/config"
	"granth/internal/domain/repositories"
	bookrepo "granth/internal/domain/repositories/book"
	bookSvc "granth/internal/domain/services/book"
	"granth/internal/schema"
	"granth/internal/service/book/migration"
)

// Services holds all book services
type Services struct {
	Documents bookSvc.DocumentService
	Chapters  bookSvc.ChapterService
	Articles  bookSvc.ArticleService
	Reader    bookSvc.ReaderService

	Migrator *migration.Migrator
	Schema   *schema.Registry
}

// LoadSchema reads the block kind schema from cfg.BlockSchemaPath, or the embedded one
func LoadSchema(cfg *config.Config) (*schema.Registry, error) {
	if cfg.BlockSchemaPath != "" {
		return schema.NewRegistryFromFile(cfg.BlockSchemaPath)
	}
	return schema.NewRegistry()
}

// NewMigrator builds the document migrator from the migration settings of cfg
func NewMigrator(reg *schema.Registry, cfg *config.Config) *migration.Migrator {
	return migration.NewMigrator(reg, migration.Config{
		SourceLanguage:  cfg.SourceLanguage,
		DefaultAuthor:   cfg.DefaultAuthor,
		CreatedAtWindow: cfg.CreatedAtWindow,
	})
}

// SetupServices initializes all book services with proper dependency injection
func SetupServices(
	repo bookrepo.DocumentRepository,
	txManager repositories.TransactionManager,
	cfg *config.Config,
	logger *slog.Logger,
) (*Services, error) {
	reg, err := LoadSchema(cfg)
	if err != nil {
		return nil, fmt.Errorf("load block schema: %w", err)
	}
	migrator := NewMigrator(reg, cfg)

	logger.Info("block schema loaded",
		"primary_kind", reg.PrimarySourceKind(),
		"default_language", reg.DefaultLanguage(),
	)

	return &Services{
		Documents: NewDocumentService(repo, migrator, txManager, logger),
		Chapters:  NewChapterService(repo, migrator, txManager, logger),
		Articles:  NewArticleService(repo, migrator, txManager, logger),
		Reader:    NewReaderService(repo, migrator, reg, logger),
		Migrator:  migrator,
		Schema:    reg,
	}, nil
}
