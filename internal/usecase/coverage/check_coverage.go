package coverage

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/service-booking/internal/domain"
	domainCoverage "github.com/BruksfildServices01/service-booking/internal/domain/coverage"
)

type CheckCoverageResult struct {
	ZipCode string `json:"zip_code"`
	Covered bool   `json:"covered"`
	Message string `json:"message"`
}

type CheckCoverage struct {
	repo domainCoverage.Repository
}

func NewCheckCoverage(repo domainCoverage.Repository) *CheckCoverage {
	return &CheckCoverage{repo: repo}
}

// Execute answers whether the owner services zip. A malformed zip is an
// error (invalid_zip), never a "not covered" result.
func (uc *CheckCoverage) Execute(
	ctx context.Context,
	ownerID uint,
	zip string,
) (*CheckCoverageResult, error) {

	zip = domainCoverage.Normalize(zip)
	if err := domainCoverage.ValidateZIP(zip); err != nil {
		return nil, err
	}

	owner, err := uc.repo.GetActiveOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domainCoverage.ErrUnknownOwner
		}
		return nil, err
	}

	covered, err := uc.repo.HasActiveArea(ctx, owner.ID, domainCoverage.Candidates(zip))
	if err != nil {
		return nil, err
	}

	res := &CheckCoverageResult{ZipCode: zip, Covered: covered}
	if covered {
		res.Message = "Great news, we service your area."
	} else {
		res.Message = "Sorry, we do not service this area yet."
	}
	return res, nil
}
