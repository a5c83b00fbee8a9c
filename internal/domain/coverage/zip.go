package coverage

import (
	"context"
	"regexp"
	"strings"

	"github.com/BruksfildServices01/service-booking/internal/httperr"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

const (
	CodeInvalidZip   = "invalid_zip"
	CodeNotCovered   = "zip_not_covered"
	CodeUnknownOwner = "owner_not_found"
)

var (
	ErrInvalidZip   = httperr.ErrBusiness(CodeInvalidZip)
	ErrNotCovered   = httperr.ErrBusiness(CodeNotCovered)
	ErrUnknownOwner = httperr.ErrBusiness(CodeUnknownOwner)
)

var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// Repository answers coverage lookups.
type Repository interface {
	GetActiveOwner(ctx context.Context, ownerID uint) (*models.Owner, error)

	// HasActiveArea reports whether the owner has an active area for any of
	// the given zip codes.
	HasActiveArea(ctx context.Context, ownerID uint, zips []string) (bool, error)
}

func Normalize(zip string) string {
	return strings.TrimSpace(zip)
}

// ValidateZIP accepts US 5 digit and ZIP+4 codes.
func ValidateZIP(zip string) error {
	if !zipPattern.MatchString(Normalize(zip)) {
		return ErrInvalidZip
	}
	return nil
}

// Candidates lists the area keys a zip code can match: the code itself and,
// for ZIP+4, its 5 digit prefix.
func Candidates(zip string) []string {
	zip = Normalize(zip)
	if len(zip) == 10 {
		return []string{zip, zip[:5]}
	}
	return []string{zip}
}
