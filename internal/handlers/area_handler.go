package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-booking/internal/domain/coverage"
	"github.com/BruksfildServices01/service-booking/internal/httperr"
	"github.com/BruksfildServices01/service-booking/internal/httpresp"
	infraRepo "github.com/BruksfildServices01/service-booking/internal/infra/repository"
	"github.com/BruksfildServices01/service-booking/internal/middleware"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

// AreaHandler manages the zip codes an owner services.
type AreaHandler struct {
	db *gorm.DB
}

func NewAreaHandler(db *gorm.DB) *AreaHandler {
	return &AreaHandler{db: db}
}

type CreateAreaRequest struct {
	ZipCode string `json:"zip_code" binding:"required"`
	Label   string `json:"label"`
	Active  *bool  `json:"active"`
}

type UpdateAreaRequest struct {
	Label  *string `json:"label,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

func (h *AreaHandler) List(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	q := h.db.Where("owner_id = ?", ownerID)

	switch strings.TrimSpace(c.Query("active")) {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	var areas []models.Area
	if err := q.Order("zip_code ASC").Find(&areas).Error; err != nil {
		httperr.Internal(c, "failed_to_list_areas", "Could not list areas.")
		return
	}

	httpresp.List(c, areas)
}

func (h *AreaHandler) Create(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	var req CreateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	zip := coverage.Normalize(req.ZipCode)
	if err := coverage.ValidateZIP(zip); err != nil {
		writeError(c, nil, err)
		return
	}

	area := models.Area{
		OwnerID: ownerID,
		ZipCode: zip,
		Label:   strings.TrimSpace(req.Label),
		Active:  true,
	}
	if req.Active != nil {
		area.Active = *req.Active
	}

	if err := h.db.Create(&area).Error; err != nil {
		if infraRepo.IsConflict(err) {
			httperr.Conflict(c, "area_already_exists", "This ZIP code is already in your service area.")
			return
		}
		httperr.Internal(c, "failed_to_create_area", "Could not create the area.")
		return
	}

	httpresp.Created(c, area)
}

func (h *AreaHandler) Update(c *gin.Context) {
	area, ok := h.find(c)
	if !ok {
		return
	}

	var req UpdateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Label != nil {
		area.Label = strings.TrimSpace(*req.Label)
	}
	if req.Active != nil {
		area.Active = *req.Active
	}

	if err := h.db.Save(area).Error; err != nil {
		httperr.Internal(c, "failed_to_update_area", "Could not save the area.")
		return
	}

	httpresp.OK(c, area)
}

func (h *AreaHandler) Delete(c *gin.Context) {
	area, ok := h.find(c)
	if !ok {
		return
	}

	if err := h.db.Delete(area).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_area", "Could not delete the area.")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AreaHandler) find(c *gin.Context) (*models.Area, bool) {
	var area models.Area
	if err := h.db.
		Where("id = ? AND owner_id = ?", c.Param("id"), middleware.OwnerID(c)).
		First(&area).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "area_not_found", "Area not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_area", "Could not load the area.")
		return nil, false
	}
	return &area, true
}
