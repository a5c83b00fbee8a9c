package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-booking/internal/domain/pricing"
	"github.com/BruksfildServices01/service-booking/internal/httperr"
	"github.com/BruksfildServices01/service-booking/internal/httpresp"
	"github.com/BruksfildServices01/service-booking/internal/middleware"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

// ServiceOptionHandler manages the options of one of the owner's services.
type ServiceOptionHandler struct {
	db *gorm.DB
}

func NewServiceOptionHandler(db *gorm.DB) *ServiceOptionHandler {
	return &ServiceOptionHandler{db: db}
}

// --------- Requests ---------

type ServiceOptionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Type        string `json:"type" binding:"required"`
	IsRequired  bool   `json:"is_required"`

	PriceImpact decimal.Decimal `json:"price_impact"`
	PriceType   string          `json:"price_type"`

	Choices      []models.OptionChoice `json:"choices"`
	DefaultValue string                `json:"default_value"`

	MinValue decimal.NullDecimal `json:"min_value"`
	MaxValue decimal.NullDecimal `json:"max_value"`
	Step     decimal.NullDecimal `json:"step"`
	Unit     string              `json:"unit"`

	DisplayOrder int `json:"display_order"`
}

// apply copies the request onto opt and checks that the result is a
// consistent option definition. It returns the rejection code, if any.
func (r ServiceOptionRequest) apply(opt *models.ServiceOption) string {
	kind := strings.ToLower(strings.TrimSpace(r.Type))
	if !pricing.IsValidOptionType(kind) {
		return "invalid_option_type"
	}

	priceType := strings.ToLower(strings.TrimSpace(r.PriceType))
	if priceType == "" {
		priceType = string(pricing.PriceNone)
	}
	if !pricing.IsValidPriceType(priceType) {
		return "invalid_price_type"
	}

	isChoice := kind == string(pricing.TypeSelect) || kind == string(pricing.TypeRadio)
	if isChoice && len(r.Choices) == 0 {
		return "choices_required"
	}
	if priceType == string(pricing.PriceChoice) && !isChoice {
		return "invalid_price_type"
	}
	if r.MinValue.Valid && r.MaxValue.Valid && r.MinValue.Decimal.GreaterThan(r.MaxValue.Decimal) {
		return "invalid_range"
	}
	if r.Step.Valid && !r.Step.Decimal.IsPositive() {
		return "invalid_range"
	}

	opt.Name = strings.TrimSpace(r.Name)
	opt.Description = r.Description
	opt.Type = kind
	opt.IsRequired = r.IsRequired
	opt.PriceImpact = r.PriceImpact.Round(2)
	opt.PriceType = priceType
	opt.Choices = datatypes.NewJSONSlice(r.Choices)
	opt.DefaultValue = r.DefaultValue
	opt.MinValue = r.MinValue
	opt.MaxValue = r.MaxValue
	opt.Step = r.Step
	opt.Unit = r.Unit
	opt.DisplayOrder = r.DisplayOrder

	if opt.DefaultValue != "" {
		if err := pricing.SpecFor(*opt).Validate(opt.DefaultValue); err != nil {
			return "invalid_default_value"
		}
	}
	return ""
}

// --------- Handlers ---------

func (h *ServiceOptionHandler) List(c *gin.Context) {
	service, ok := findOwnedService(c, h.db, middleware.OwnerID(c), c.Param("id"))
	if !ok {
		return
	}

	var options []models.ServiceOption
	if err := h.db.
		Where("service_id = ?", service.ID).
		Order("display_order ASC, id ASC").
		Find(&options).Error; err != nil {

		httperr.Internal(c, "failed_to_list_options", "Could not list options.")
		return
	}

	httpresp.List(c, options)
}

func (h *ServiceOptionHandler) Create(c *gin.Context) {
	service, ok := findOwnedService(c, h.db, middleware.OwnerID(c), c.Param("id"))
	if !ok {
		return
	}

	var req ServiceOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	opt := models.ServiceOption{ServiceID: service.ID}
	if code := req.apply(&opt); code != "" {
		httperr.BadRequest(c, code, "Invalid option definition.")
		return
	}

	if err := h.db.Create(&opt).Error; err != nil {
		httperr.Internal(c, "failed_to_create_option", "Could not create the option.")
		return
	}

	httpresp.Created(c, opt)
}

func (h *ServiceOptionHandler) Update(c *gin.Context) {
	service, ok := findOwnedService(c, h.db, middleware.OwnerID(c), c.Param("id"))
	if !ok {
		return
	}

	opt, ok := h.find(c, service.ID)
	if !ok {
		return
	}

	var req ServiceOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if code := req.apply(opt); code != "" {
		httperr.BadRequest(c, code, "Invalid option definition.")
		return
	}

	if err := h.db.Save(opt).Error; err != nil {
		httperr.Internal(c, "failed_to_update_option", "Could not save the option.")
		return
	}

	httpresp.OK(c, opt)
}

// Delete removes the option definition. Booking rows keep their own copy of
// the name, value and price.
func (h *ServiceOptionHandler) Delete(c *gin.Context) {
	service, ok := findOwnedService(c, h.db, middleware.OwnerID(c), c.Param("id"))
	if !ok {
		return
	}

	opt, ok := h.find(c, service.ID)
	if !ok {
		return
	}

	if err := h.db.Delete(opt).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_option", "Could not delete the option.")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ServiceOptionHandler) find(c *gin.Context, serviceID uint) (*models.ServiceOption, bool) {
	var opt models.ServiceOption
	if err := h.db.
		Where("id = ? AND service_id = ?", c.Param("optionId"), serviceID).
		First(&opt).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "option_not_found", "Option not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_option", "Could not load the option.")
		return nil, false
	}
	return &opt, true
}
