package catalog

import (
	"context"

	"github.com/BruksfildServices01/service-booking/internal/httperr"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

const CodeServiceNotFound = "service_not_found"

var ErrServiceNotFound = httperr.ErrBusiness(CodeServiceNotFound)

type Repository interface {
	GetActiveOwner(ctx context.Context, ownerID uint) (*models.Owner, error)

	// ListActiveServices returns the owner's bookable services.
	ListActiveServices(ctx context.Context, ownerID uint) ([]models.Service, error)

	GetService(ctx context.Context, ownerID uint, serviceID uint) (*models.Service, error)

	ListOptions(ctx context.Context, serviceID uint) ([]models.ServiceOption, error)

	// ArchiveService soft deletes the service and removes its options.
	// Booking rows that reference it are left untouched.
	ArchiveService(ctx context.Context, ownerID uint, serviceID uint) error
}
