package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"paper_catalog_go_backend/internal/models"
	"paper_catalog_go_backend/internal/openalex"

	"github.com/rs/zerolog"
)

// ImportService copies single OpenAlex works into the catalog.
type ImportService struct {
	fetcher WorkFetcher
	papers  PaperServiceDB
}

func NewImportService(fetcher WorkFetcher, papers PaperServiceDB) *ImportService {
	return &ImportService{
		fetcher: fetcher,
		papers:  papers,
	}
}

// ImportByExternalID fetches one work and stores it as a new paper with the
// caller's notes. Re-importing the same work creates another row. Nothing is
// written when the fetch fails.
func (s *ImportService) ImportByExternalID(ctx context.Context, externalID, notes string) (*models.Paper, error) {
	log := zerolog.Ctx(ctx).With().Str("openalexID", externalID).Logger()

	work, err := s.fetcher.FetchByID(ctx, externalID)
	if err != nil {
		if errors.Is(err, openalex.ErrWorkNotFound) {
			log.Info().Msg("OpenAlex work not found")
			return nil, &ImportNotFoundError{ExternalID: externalID}
		}
		log.Error().Err(err).Msg("OpenAlex lookup failed")
		return nil, &ImportUpstreamError{ExternalID: externalID, Err: err}
	}

	req, err := paperFromWork(work, notes)
	if err != nil {
		return nil, &ImportUpstreamError{ExternalID: externalID, Err: err}
	}

	paper, err := s.papers.CreatePaper(ctx, req)
	if err != nil {
		return nil, err
	}

	log.Info().Uint("paperID", paper.ID).Msg("Imported paper from OpenAlex")
	return paper, nil
}

func paperFromWork(work *openalex.Work, notes string) (*models.PaperCreate, error) {
	if work.Title == nil || strings.TrimSpace(*work.Title) == "" {
		return nil, fmt.Errorf("OpenAlex work %s has no title", work.OpenAlexID)
	}

	authors := work.Authors
	return &models.PaperCreate{
		Title:    *work.Title,
		Authors:  &authors,
		Year:     work.Year,
		Abstract: work.Abstract,
		URL:      work.URL,
		Notes:    &notes,
	}, nil
}
