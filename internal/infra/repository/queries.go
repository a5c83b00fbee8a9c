package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-booking/internal/models"
)

// queries holds the lookups shared by every repository. It runs against
// either the pool or an open transaction.
type queries struct {
	db *gorm.DB
}

// --------------------------------------------------
// Owner / coverage
// --------------------------------------------------

func (q queries) GetActiveOwner(
	ctx context.Context,
	ownerID uint,
) (*models.Owner, error) {

	var owner models.Owner
	if err := q.db.WithContext(ctx).
		Where("id = ? AND active = ?", ownerID, true).
		First(&owner).Error; err != nil {
		return nil, translate(err)
	}
	return &owner, nil
}

func (q queries) HasActiveArea(
	ctx context.Context,
	ownerID uint,
	zips []string,
) (bool, error) {

	if len(zips) == 0 {
		return false, nil
	}

	var count int64
	if err := q.db.WithContext(ctx).
		Model(&models.Area{}).
		Where("owner_id = ? AND active = ? AND zip_code IN ?", ownerID, true, zips).
		Count(&count).Error; err != nil {
		return false, translate(err)
	}

	return count > 0, nil
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (q queries) ListServicesByIDs(
	ctx context.Context,
	ownerID uint,
	ids []uint,
) ([]models.Service, error) {

	var services []models.Service
	if len(ids) == 0 {
		return services, nil
	}

	if err := q.db.WithContext(ctx).
		Where("owner_id = ? AND id IN ?", ownerID, ids).
		Order("id ASC").
		Find(&services).Error; err != nil {
		return nil, translate(err)
	}
	return services, nil
}

func (q queries) ListOptionsByServiceIDs(
	ctx context.Context,
	serviceIDs []uint,
) ([]models.ServiceOption, error) {

	var options []models.ServiceOption
	if len(serviceIDs) == 0 {
		return options, nil
	}

	if err := q.db.WithContext(ctx).
		Where("service_id IN ?", serviceIDs).
		Order("display_order ASC, id ASC").
		Find(&options).Error; err != nil {
		return nil, translate(err)
	}
	return options, nil
}

// --------------------------------------------------
// Discount
// --------------------------------------------------

func (q queries) FindDiscountByCode(
	ctx context.Context,
	ownerID uint,
	code string,
) (*models.Discount, error) {

	var d models.Discount
	if err := q.db.WithContext(ctx).
		Where("owner_id = ? AND code = ?", ownerID, code).
		First(&d).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}
