package main

import (
	"paper_catalog_go_backend/cmd/api/config"
	"paper_catalog_go_backend/internal/database"
	"paper_catalog_go_backend/internal/logger"
	"paper_catalog_go_backend/internal/openalex"
	"paper_catalog_go_backend/internal/services"

	"gorm.io/gorm"
)

// app holds the process-wide dependencies shared by every command.
type app struct {
	cfg      *config.Config
	db       *gorm.DB
	sessions database.SessionProvider
	openalex *openalex.Client
	papers   services.PaperServiceDB
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	sessions := database.NewSessionProvider(db)

	opts := []openalex.ClientOption{
		openalex.WithBaseURL(cfg.OpenAlex.BaseURL),
		openalex.WithTimeout(cfg.OpenAlex.Timeout),
		openalex.WithRateLimit(cfg.OpenAlex.RateLimit),
	}
	if cfg.OpenAlex.Mailto != "" {
		opts = append(opts, openalex.WithMailto(cfg.OpenAlex.Mailto))
	}

	return &app{
		cfg:      cfg,
		db:       db,
		sessions: sessions,
		openalex: openalex.NewClient(opts...),
		papers:   services.NewPaperServiceDB(sessions),
	}, nil
}

func (a *app) Close() error {
	return database.Close(a.db)
}
