package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	domainBooking "github.com/BruksfildServices01/service-booking/internal/domain/booking"
	"github.com/BruksfildServices01/service-booking/internal/domain/coverage"
	"github.com/BruksfildServices01/service-booking/internal/dto"
	"github.com/BruksfildServices01/service-booking/internal/guard"
	"github.com/BruksfildServices01/service-booking/internal/httpresp"
	infraRepo "github.com/BruksfildServices01/service-booking/internal/infra/repository"
	"github.com/BruksfildServices01/service-booking/internal/models"
	"github.com/BruksfildServices01/service-booking/internal/usecase/booking"
	"github.com/BruksfildServices01/service-booking/internal/usecase/catalog"
	ucCoverage "github.com/BruksfildServices01/service-booking/internal/usecase/coverage"
	ucDiscount "github.com/BruksfildServices01/service-booking/internal/usecase/discount"
)

const headerIdempotencyKey = "Idempotency-Key"

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type ownerFinder interface {
	FindActiveOwner(ctx context.Context, slug string) (*models.Owner, error)
}

type coverageChecker interface {
	Execute(ctx context.Context, ownerID uint, zip string) (*ucCoverage.CheckCoverageResult, error)
}

type discountPreviewer interface {
	Execute(ctx context.Context, in ucDiscount.ApplyDiscountInput) (*ucDiscount.ApplyDiscountResult, error)
}

type bookingCreator interface {
	Execute(ctx context.Context, in booking.CreateBookingInput) (*booking.CreateBookingResult, error)
}

// PublicHandler serves the customer facing booking endpoints of one owner,
// addressed by slug.
type PublicHandler struct {
	owners ownerFinder
	log    *logrus.Logger

	listServices   *catalog.ListServices
	listOptions    *catalog.ListServiceOptions
	checkCoverage  coverageChecker
	applyDiscount  discountPreviewer
	previewPricing *booking.PreviewPricing
	createBooking  bookingCreator
}

func NewPublicHandler(
	db *gorm.DB,
	log *logrus.Logger,
	submitGuard guard.Guard,
	audit booking.Auditor,
	notifier booking.Notifier,
	referencePrefix string,
) *PublicHandler {
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	catalogRepo := infraRepo.NewCatalogGormRepository(db)

	return &PublicHandler{
		owners: gormOwners{db: db},
		log:    log,

		listServices:   catalog.NewListServices(catalogRepo),
		listOptions:    catalog.NewListServiceOptions(catalogRepo),
		checkCoverage:  ucCoverage.NewCheckCoverage(infraRepo.NewCoverageGormRepository(db)),
		applyDiscount:  ucDiscount.NewApplyDiscount(infraRepo.NewDiscountGormRepository(db)),
		previewPricing: booking.NewPreviewPricing(bookingRepo),
		createBooking: booking.NewCreateBooking(
			bookingRepo,
			submitGuard,
			audit,
			notifier,
			log,
			referencePrefix,
		),
	}
}

type gormOwners struct {
	db *gorm.DB
}

func (g gormOwners) FindActiveOwner(ctx context.Context, slug string) (*models.Owner, error) {
	var owner models.Owner
	if err := g.db.WithContext(ctx).
		Where("slug = ? AND active = ?", slug, true).
		First(&owner).Error; err != nil {
		return nil, err
	}
	return &owner, nil
}

// resolveOwner writes the error response itself and returns nil when the
// slug does not name an active owner.
func (h *PublicHandler) resolveOwner(c *gin.Context) *models.Owner {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))

	owner, err := h.owners.FindActiveOwner(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(c, h.log, coverage.ErrUnknownOwner)
			return nil
		}
		writeError(c, h.log, err)
		return nil
	}
	return owner
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	owner := h.resolveOwner(c)
	if owner == nil {
		return
	}

	services, err := h.listServices.Execute(c.Request.Context(), owner.ID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, services)
}

func (h *PublicHandler) ListOptions(c *gin.Context) {
	owner := h.resolveOwner(c)
	if owner == nil {
		return
	}

	serviceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}

	options, err := h.listOptions.Execute(c.Request.Context(), owner.ID, uint(serviceID))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, options)
}

////////////////////////////////////////////////////////
// COVERAGE
////////////////////////////////////////////////////////

func (h *PublicHandler) CheckCoverage(c *gin.Context) {
	owner := h.resolveOwner(c)
	if owner == nil {
		return
	}

	var req dto.CoverageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.log, coverage.ErrInvalidZip)
		return
	}

	res, err := h.checkCoverage.Execute(c.Request.Context(), owner.ID, req.ZipCode)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.CoverageResponse{
		ZipCode: res.ZipCode,
		Covered: res.Covered,
		Message: res.Message,
	})
}

////////////////////////////////////////////////////////
// PRICING
////////////////////////////////////////////////////////

func (h *PublicHandler) PreviewDiscount(c *gin.Context) {
	owner := h.resolveOwner(c)
	if owner == nil {
		return
	}

	var req dto.DiscountPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.applyDiscount.Execute(c.Request.Context(), ucDiscount.ApplyDiscountInput{
		OwnerID:  owner.ID,
		Code:     req.Code,
		Subtotal: req.Subtotal,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.DiscountPreviewResponse{
		Code:           res.Code,
		Type:           res.Type,
		DiscountAmount: res.DiscountAmount,
		Total:          res.Total,
	})
}

func (h *PublicHandler) PreviewPricing(c *gin.Context) {
	owner := h.resolveOwner(c)
	if owner == nil {
		return
	}

	var req dto.PricingPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.previewPricing.Execute(c.Request.Context(), booking.PreviewPricingInput{
		OwnerID:      owner.ID,
		ServiceIDs:   req.ServiceIDs,
		OptionValues: req.OptionValues,
		DiscountCode: req.DiscountCode,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, res)
}

////////////////////////////////////////////////////////
// BOOKING SUBMIT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	owner := h.resolveOwner(c)
	if owner == nil {
		return
	}

	var req dto.BookingSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	key := strings.TrimSpace(c.GetHeader(headerIdempotencyKey))
	if key == "" {
		key = strings.TrimSpace(req.IdempotencyKey)
	}

	res, err := h.createBooking.Execute(c.Request.Context(), booking.CreateBookingInput{
		Submission:     submissionFrom(owner.ID, req),
		IdempotencyKey: key,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}

	c.JSON(status, dto.BookingSubmitResponse{
		BookingID:       res.Booking.ID,
		ReferenceNumber: res.Booking.Reference,
	})
}

func submissionFrom(ownerID uint, req dto.BookingSubmitRequest) domainBooking.Submission {
	return domainBooking.Submission{
		OwnerID:         ownerID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		ZipCode:         req.ZipCode,
		ServiceDate:     req.ServiceDate,
		ServiceTime:     req.ServiceTime,
		ServiceIDs:      req.ServiceIDs,
		OptionValues:    req.OptionValues,
		DiscountCode:    req.DiscountCode,
		ClaimedTotal:    req.ClaimedTotal,
		Notes:           req.Notes,
	}
}
