package services

import (
	"context"
	"errors"
	"fmt"

	"paper_catalog_go_backend/internal/models"

	"github.com/rs/zerolog"
)

const (
	DefaultSeedQuery = "biology"
	DefaultSeedCount = 15

	unknownTitle = "Unknown Title"
)

// ErrNothingToSeed is returned when OpenAlex yields no works for the query.
var ErrNothingToSeed = errors.New("no papers returned from OpenAlex")

type SeedResult struct {
	Skipped  bool
	Existing int64
	Inserted int
}

// SeedService fills an empty catalog with the most cited works for a query.
type SeedService struct {
	searcher WorkSearcher
	papers   PaperServiceDB
}

func NewSeedService(searcher WorkSearcher, papers PaperServiceDB) *SeedService {
	return &SeedService{
		searcher: searcher,
		papers:   papers,
	}
}

// Seed does nothing when the catalog already holds papers. Otherwise it
// inserts the works in one transaction, noting each work's citation count.
func (s *SeedService) Seed(ctx context.Context, query string, count int) (*SeedResult, error) {
	log := zerolog.Ctx(ctx)
	if query == "" {
		query = DefaultSeedQuery
	}
	if count <= 0 {
		count = DefaultSeedCount
	}

	existing, err := s.papers.CountPapers(ctx)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		log.Info().Int64("existing", existing).Msg("Catalog already contains papers, skipping seed")
		return &SeedResult{Skipped: true, Existing: existing}, nil
	}

	works, err := s.searcher.SearchMostCited(ctx, query, count)
	if err != nil {
		return nil, fmt.Errorf("fetching seed papers: %w", err)
	}
	if len(works) == 0 {
		return nil, ErrNothingToSeed
	}

	reqs := make([]models.PaperCreate, 0, len(works))
	for _, work := range works {
		title := unknownTitle
		if work.Title != nil && *work.Title != "" {
			title = *work.Title
		}
		authors := work.Authors
		notes := fmt.Sprintf("Cited by: %d papers", work.CitedByCount)
		reqs = append(reqs, models.PaperCreate{
			Title:    title,
			Authors:  &authors,
			Year:     work.Year,
			Abstract: work.Abstract,
			URL:      work.URL,
			Notes:    &notes,
		})
	}

	papers, err := s.papers.CreatePapers(ctx, reqs)
	if err != nil {
		return nil, err
	}

	log.Info().Str("query", query).Int("inserted", len(papers)).Msg("Seeded catalog from OpenAlex")
	return &SeedResult{Inserted: len(papers)}, nil
}
