package catalog

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/service-booking/internal/audit"
	"github.com/BruksfildServices01/service-booking/internal/domain"
	domainCatalog "github.com/BruksfildServices01/service-booking/internal/domain/catalog"
)

type Auditor interface {
	Dispatch(ev audit.Event)
}

// ArchiveService retires a service. Existing bookings keep their snapshot
// rows; the service simply stops being bookable.
type ArchiveService struct {
	repo  domainCatalog.Repository
	audit Auditor
	log   *logrus.Logger
}

func NewArchiveService(repo domainCatalog.Repository, audit Auditor, log *logrus.Logger) *ArchiveService {
	return &ArchiveService{repo: repo, audit: audit, log: log}
}

func (uc *ArchiveService) Execute(
	ctx context.Context,
	ownerID uint,
	userID uint,
	serviceID uint,
) error {

	if err := uc.repo.ArchiveService(ctx, ownerID, serviceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domainCatalog.ErrServiceNotFound
		}
		return err
	}

	uc.log.WithFields(logrus.Fields{
		"owner_id":   ownerID,
		"service_id": serviceID,
	}).Info("service archived")

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			OwnerID:  ownerID,
			UserID:   &userID,
			Action:   "service_archived",
			Entity:   "service",
			EntityID: &serviceID,
		})
	}
	return nil
}
