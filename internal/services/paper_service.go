package services

import (
	"context"
	"errors"

	"paper_catalog_go_backend/internal/database"
	"paper_catalog_go_backend/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	DefaultListSkip  = 0
	DefaultListLimit = 100
)

// PaperServiceDB is the catalog store.
type PaperServiceDB interface {
	ListPapers(ctx context.Context, skip, limit int) ([]models.Paper, error)
	GetPaper(ctx context.Context, id uint) (*models.Paper, error)
	CreatePaper(ctx context.Context, req *models.PaperCreate) (*models.Paper, error)
	CreatePapers(ctx context.Context, reqs []models.PaperCreate) ([]models.Paper, error)
	UpdatePaper(ctx context.Context, id uint, update *models.PaperUpdate) (*models.Paper, error)
	DeletePaper(ctx context.Context, id uint) (*models.Paper, error)
	CountPapers(ctx context.Context) (int64, error)
}

type DefaultPaperService struct {
	sessions database.SessionProvider
}

func NewPaperServiceDB(sessions database.SessionProvider) PaperServiceDB {
	return &DefaultPaperService{sessions: sessions}
}

// ListPapers returns up to limit papers in id order, starting after skip.
func (s *DefaultPaperService) ListPapers(ctx context.Context, skip, limit int) ([]models.Paper, error) {
	papers := []models.Paper{}
	err := s.sessions.WithSession(ctx, func(tx *gorm.DB) error {
		return tx.Order("id").Offset(skip).Limit(limit).Find(&papers).Error
	})
	if err != nil {
		return nil, storeError("list", err)
	}
	if papers == nil {
		papers = []models.Paper{}
	}
	return papers, nil
}

// GetPaper retrieves a paper by its ID
func (s *DefaultPaperService) GetPaper(ctx context.Context, id uint) (*models.Paper, error) {
	var paper models.Paper
	err := s.sessions.WithSession(ctx, func(tx *gorm.DB) error {
		return findPaper(tx, id, &paper)
	})
	if err != nil {
		return nil, storeError("get", err)
	}
	return &paper, nil
}

// CreatePaper inserts a new paper; the store assigns its ID.
func (s *DefaultPaperService) CreatePaper(ctx context.Context, req *models.PaperCreate) (*models.Paper, error) {
	paper := req.ToPaper()
	err := s.sessions.WithSession(ctx, func(tx *gorm.DB) error {
		return tx.Create(paper).Error
	})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("title", req.Title).Msg("Failed to create paper")
		return nil, storeError("create", err)
	}

	zerolog.Ctx(ctx).Info().Uint("paperID", paper.ID).Msg("Paper created")
	return paper, nil
}

// CreatePapers inserts all papers in one transaction.
func (s *DefaultPaperService) CreatePapers(ctx context.Context, reqs []models.PaperCreate) ([]models.Paper, error) {
	papers := make([]models.Paper, len(reqs))
	for i := range reqs {
		papers[i] = *reqs[i].ToPaper()
	}
	if len(papers) == 0 {
		return papers, nil
	}

	err := s.sessions.WithSession(ctx, func(tx *gorm.DB) error {
		return tx.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&papers).Error
		})
	})
	if err != nil {
		return nil, storeError("create", err)
	}
	return papers, nil
}

// UpdatePaper writes only the fields present in update. It never creates a row.
func (s *DefaultPaperService) UpdatePaper(ctx context.Context, id uint, update *models.PaperUpdate) (*models.Paper, error) {
	var paper models.Paper
	err := s.sessions.WithSession(ctx, func(tx *gorm.DB) error {
		return tx.Transaction(func(tx *gorm.DB) error {
			if err := findPaper(tx, id, &paper); err != nil {
				return err
			}

			if update.IsEmpty() {
				return nil
			}
			if err := tx.Model(&models.Paper{}).Where("id = ?", id).Updates(update.Columns()).Error; err != nil {
				return err
			}

			paper = models.Paper{}
			return findPaper(tx, id, &paper)
		})
	})
	if err != nil {
		return nil, storeError("update", err)
	}

	zerolog.Ctx(ctx).Info().Uint("paperID", id).Msg("Paper updated")
	return &paper, nil
}

// DeletePaper removes a paper and returns its state before deletion.
func (s *DefaultPaperService) DeletePaper(ctx context.Context, id uint) (*models.Paper, error) {
	var paper models.Paper
	err := s.sessions.WithSession(ctx, func(tx *gorm.DB) error {
		return tx.Transaction(func(tx *gorm.DB) error {
			if err := findPaper(tx, id, &paper); err != nil {
				return err
			}
			return tx.Delete(&models.Paper{}, id).Error
		})
	})
	if err != nil {
		return nil, storeError("delete", err)
	}

	zerolog.Ctx(ctx).Info().Uint("paperID", id).Msg("Paper deleted")
	return &paper, nil
}

func (s *DefaultPaperService) CountPapers(ctx context.Context) (int64, error) {
	var count int64
	err := s.sessions.WithSession(ctx, func(tx *gorm.DB) error {
		return tx.Model(&models.Paper{}).Count(&count).Error
	})
	if err != nil {
		return 0, storeError("count", err)
	}
	return count, nil
}

func findPaper(tx *gorm.DB, id uint, paper *models.Paper) error {
	err := tx.First(paper, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPaperNotFound
	}
	return err
}
