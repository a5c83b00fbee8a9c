package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-booking/internal/domain/catalog"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

type CatalogGormRepository struct {
	queries
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{queries{db: db}}
}

func (r *CatalogGormRepository) ListActiveServices(
	ctx context.Context,
	ownerID uint,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, models.ServiceStatusActive).
		Order("name ASC, id ASC").
		Find(&services).Error; err != nil {
		return nil, translate(err)
	}
	return services, nil
}

func (r *CatalogGormRepository) GetService(
	ctx context.Context,
	ownerID uint,
	serviceID uint,
) (*models.Service, error) {

	var s models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", serviceID, ownerID).
		First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *CatalogGormRepository) ListOptions(
	ctx context.Context,
	serviceID uint,
) ([]models.ServiceOption, error) {
	return r.ListOptionsByServiceIDs(ctx, []uint{serviceID})
}

func (r *CatalogGormRepository) ArchiveService(
	ctx context.Context,
	ownerID uint,
	serviceID uint,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s models.Service
		if err := tx.
			Where("id = ? AND owner_id = ?", serviceID, ownerID).
			First(&s).Error; err != nil {
			return err
		}

		if err := tx.
			Where("service_id = ?", s.ID).
			Delete(&models.ServiceOption{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&s).
			Update("status", models.ServiceStatusArchived).Error; err != nil {
			return err
		}

		return tx.Delete(&s).Error
	})

	return translate(err)
}

var _ catalog.Repository = (*CatalogGormRepository)(nil)
