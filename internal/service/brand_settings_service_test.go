package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/internal/domain/mocks"
	"github.com/postwind/postwind/pkg/logger"
)

func TestBrandSettingsUpdateDefaultsTemplate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	brandRepo := mocks.NewMockBrandSettingsRepository(ctrl)
	s := NewBrandSettingsService(brandRepo, logger.NewTestLogger(t))

	brandRepo.EXPECT().Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, settings *domain.BrandSettings) error {
			assert.Equal(t, domain.TemplateSimple, settings.DefaultTemplateID)
			assert.NotZero(t, settings.UpdatedAt)
			return nil
		})

	settings := &domain.BrandSettings{PrimaryColor: "#112233", SecondaryColor: "#ffffff"}
	require.NoError(t, s.Update(context.Background(), settings))
}

func TestBrandSettingsUpdateRejectsBadColor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := NewBrandSettingsService(mocks.NewMockBrandSettingsRepository(ctrl), logger.NewTestLogger(t))

	settings := &domain.BrandSettings{PrimaryColor: "blue", SecondaryColor: "#ffffff"}
	assert.Error(t, s.Update(context.Background(), settings))
}

func TestBrandSettingsUpdateRejectsUnknownTemplate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := NewBrandSettingsService(mocks.NewMockBrandSettingsRepository(ctrl), logger.NewTestLogger(t))

	settings := &domain.BrandSettings{PrimaryColor: "#112233", SecondaryColor: "#ffffff", DefaultTemplateID: "fancy"}
	assert.Error(t, s.Update(context.Background(), settings))
}
