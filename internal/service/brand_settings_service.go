package service

import (
	"context"
	"time"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/pkg/logger"
)

// BrandSettingsService reads and writes the singleton brand settings.
type BrandSettingsService struct {
	brandRepo domain.BrandSettingsRepository
	logger    logger.Logger
}

func NewBrandSettingsService(brandRepo domain.BrandSettingsRepository, log logger.Logger) *BrandSettingsService {
	return &BrandSettingsService{brandRepo: brandRepo, logger: log}
}

func (s *BrandSettingsService) Get(ctx context.Context) (*domain.BrandSettings, error) {
	return s.brandRepo.Get(ctx)
}

func (s *BrandSettingsService) Update(ctx context.Context, settings *domain.BrandSettings) error {
	if settings.DefaultTemplateID == "" {
		settings.DefaultTemplateID = domain.TemplateSimple
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	settings.UpdatedAt = time.Now().Unix()
	return s.brandRepo.Save(ctx, settings)
}
