package services

import (
	"context"

	"paper_catalog_go_backend/internal/models"
	"paper_catalog_go_backend/internal/openalex"
)

// WorkFetcher resolves a single OpenAlex work.
type WorkFetcher interface {
	FetchByID(ctx context.Context, externalID string) (*openalex.Work, error)
}

// WorkSearcher runs keyword searches against OpenAlex.
type WorkSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]openalex.Work, error)
	SearchMostCited(ctx context.Context, query string, limit int) ([]openalex.Work, error)
}

// PaperImporter copies an OpenAlex work into the catalog.
type PaperImporter interface {
	ImportByExternalID(ctx context.Context, externalID, notes string) (*models.Paper, error)
}
