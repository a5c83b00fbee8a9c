package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/service-booking/internal/domain"
	domainCatalog "github.com/BruksfildServices01/service-booking/internal/domain/catalog"
	"github.com/BruksfildServices01/service-booking/internal/domain/coverage"
)

type ServiceView struct {
	ID              uint            `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
}

type ListServices struct {
	repo domainCatalog.Repository
}

func NewListServices(repo domainCatalog.Repository) *ListServices {
	return &ListServices{repo: repo}
}

// Execute lists the bookable services of an active owner.
func (uc *ListServices) Execute(ctx context.Context, ownerID uint) ([]ServiceView, error) {
	if _, err := uc.repo.GetActiveOwner(ctx, ownerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, coverage.ErrUnknownOwner
		}
		return nil, err
	}

	services, err := uc.repo.ListActiveServices(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]ServiceView, 0, len(services))
	for _, s := range services {
		out = append(out, ServiceView{
			ID:              s.ID,
			Name:            s.Name,
			Description:     s.Description,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
		})
	}
	return out, nil
}
