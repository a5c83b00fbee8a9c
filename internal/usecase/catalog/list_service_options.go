package catalog

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/service-booking/internal/domain"
	domainCatalog "github.com/BruksfildServices01/service-booking/internal/domain/catalog"
	"github.com/BruksfildServices01/service-booking/internal/domain/pricing"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

// OptionView is one option of a service as served to booking clients: the
// stored row plus the control descriptor derived from its type.
type OptionView struct {
	models.ServiceOption
	Control pricing.Control `json:"control"`
}

type ListServiceOptions struct {
	repo domainCatalog.Repository
}

func NewListServiceOptions(repo domainCatalog.Repository) *ListServiceOptions {
	return &ListServiceOptions{repo: repo}
}

func (uc *ListServiceOptions) Execute(
	ctx context.Context,
	ownerID uint,
	serviceID uint,
) ([]OptionView, error) {

	svc, err := uc.repo.GetService(ctx, ownerID, serviceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domainCatalog.ErrServiceNotFound
		}
		return nil, err
	}
	if svc.Status != models.ServiceStatusActive {
		return nil, domainCatalog.ErrServiceNotFound
	}

	options, err := uc.repo.ListOptions(ctx, svc.ID)
	if err != nil {
		return nil, err
	}
	pricing.SortOptions(options)

	out := make([]OptionView, 0, len(options))
	for _, o := range options {
		out = append(out, OptionView{
			ServiceOption: o,
			Control:       pricing.SpecFor(o).Control(),
		})
	}
	return out, nil
}
