package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-booking/internal/domain/discount"
	"github.com/BruksfildServices01/service-booking/internal/httperr"
	"github.com/BruksfildServices01/service-booking/internal/httpresp"
	infraRepo "github.com/BruksfildServices01/service-booking/internal/infra/repository"
	"github.com/BruksfildServices01/service-booking/internal/middleware"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

type DiscountHandler struct {
	db *gorm.DB
}

func NewDiscountHandler(db *gorm.DB) *DiscountHandler {
	return &DiscountHandler{db: db}
}

// --------- Requests ---------

type CreateDiscountRequest struct {
	Code       string          `json:"code" binding:"required"`
	Type       string          `json:"type" binding:"required"`
	Amount     decimal.Decimal `json:"amount"`
	UsageLimit int             `json:"usage_limit" binding:"omitempty,min=0"`
	ExpiryDate string          `json:"expiry_date"` // YYYY-MM-DD, inclusive
	Active     *bool           `json:"active"`
}

type UpdateDiscountRequest struct {
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	UsageLimit *int             `json:"usage_limit,omitempty"`
	ExpiryDate *string          `json:"expiry_date,omitempty"`
	Active     *bool            `json:"active,omitempty"`
}

var hundred = decimal.NewFromInt(100)

func validDiscountAmount(kind string, amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	if discount.Type(kind) == discount.TypePercentage {
		return amount.LessThanOrEqual(hundred)
	}
	return true
}

// parseExpiry turns "" into no expiry.
func parseExpiry(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// --------- Handlers ---------

func (h *DiscountHandler) List(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	q := h.db.Where("owner_id = ?", ownerID)

	switch strings.TrimSpace(c.Query("active")) {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	var discounts []models.Discount
	if err := q.Order("code ASC").Find(&discounts).Error; err != nil {
		httperr.Internal(c, "failed_to_list_discounts", "Could not list discount codes.")
		return
	}

	httpresp.List(c, discounts)
}

func (h *DiscountHandler) Create(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	var req CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	code := discount.NormalizeCode(req.Code)
	kind := strings.ToLower(strings.TrimSpace(req.Type))

	if !discount.IsValidType(kind) {
		httperr.BadRequest(c, "invalid_discount_type", "Type must be percentage or fixed.")
		return
	}
	if !validDiscountAmount(kind, req.Amount) {
		httperr.BadRequest(c, "invalid_amount", "Invalid discount amount.")
		return
	}

	expiry, err := parseExpiry(req.ExpiryDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_expiry_date", "Expiry date must be YYYY-MM-DD.")
		return
	}

	d := models.Discount{
		OwnerID:    ownerID,
		Code:       code,
		Type:       kind,
		Amount:     req.Amount.Round(2),
		UsageLimit: req.UsageLimit,
		ExpiryDate: expiry,
		Active:     true,
	}
	if req.Active != nil {
		d.Active = *req.Active
	}

	if err := h.db.Create(&d).Error; err != nil {
		if infraRepo.IsConflict(err) {
			httperr.Conflict(c, "discount_code_exists", "This discount code already exists.")
			return
		}
		httperr.Internal(c, "failed_to_create_discount", "Could not create the discount code.")
		return
	}

	httpresp.Created(c, d)
}

// Update never touches usage_count; it only moves through bookings.
func (h *DiscountHandler) Update(c *gin.Context) {
	d, ok := h.find(c)
	if !ok {
		return
	}

	var req UpdateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updates := map[string]any{}

	if req.Amount != nil {
		if !validDiscountAmount(d.Type, *req.Amount) {
			httperr.BadRequest(c, "invalid_amount", "Invalid discount amount.")
			return
		}
		updates["amount"] = req.Amount.Round(2)
	}
	if req.UsageLimit != nil {
		if *req.UsageLimit < 0 {
			httperr.BadRequest(c, "invalid_usage_limit", "Usage limit cannot be negative.")
			return
		}
		updates["usage_limit"] = *req.UsageLimit
	}
	if req.ExpiryDate != nil {
		expiry, err := parseExpiry(*req.ExpiryDate)
		if err != nil {
			httperr.BadRequest(c, "invalid_expiry_date", "Expiry date must be YYYY-MM-DD.")
			return
		}
		updates["expiry_date"] = expiry
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := h.db.Model(d).Updates(updates).Error; err != nil {
			httperr.Internal(c, "failed_to_update_discount", "Could not save the discount code.")
			return
		}
	}

	if err := h.db.First(d, d.ID).Error; err != nil {
		httperr.Internal(c, "failed_to_get_discount", "Could not load the discount code.")
		return
	}

	httpresp.OK(c, d)
}

func (h *DiscountHandler) Delete(c *gin.Context) {
	d, ok := h.find(c)
	if !ok {
		return
	}

	if err := h.db.Delete(d).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_discount", "Could not delete the discount code.")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *DiscountHandler) find(c *gin.Context) (*models.Discount, bool) {
	var d models.Discount
	if err := h.db.
		Where("id = ? AND owner_id = ?", c.Param("id"), middleware.OwnerID(c)).
		First(&d).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "discount_not_found", "Discount code not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_discount", "Could not load the discount code.")
		return nil, false
	}
	return &d, true
}
