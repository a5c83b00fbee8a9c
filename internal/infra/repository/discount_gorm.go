package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-booking/internal/domain/discount"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

type DiscountGormRepository struct {
	queries
}

func NewDiscountGormRepository(db *gorm.DB) *DiscountGormRepository {
	return &DiscountGormRepository{queries{db: db}}
}

func (r *DiscountGormRepository) FindByCode(
	ctx context.Context,
	ownerID uint,
	code string,
) (*models.Discount, error) {
	return r.FindDiscountByCode(ctx, ownerID, code)
}

func (r *DiscountGormRepository) DeactivateExpired(
	ctx context.Context,
	today time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Discount{}).
		Where(
			"active = ? AND expiry_date IS NOT NULL AND expiry_date < ?",
			true, today.Format(time.DateOnly),
		).
		Updates(map[string]any{
			"active":     false,
			"updated_at": time.Now(),
		})

	if res.Error != nil {
		return 0, translate(res.Error)
	}
	return res.RowsAffected, nil
}

var _ discount.Repository = (*DiscountGormRepository)(nil)
