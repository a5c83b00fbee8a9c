package repository

import (
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-booking/internal/domain/coverage"
)

type CoverageGormRepository struct {
	queries
}

func NewCoverageGormRepository(db *gorm.DB) *CoverageGormRepository {
	return &CoverageGormRepository{queries{db: db}}
}

var _ coverage.Repository = (*CoverageGormRepository)(nil)
