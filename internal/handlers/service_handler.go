package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-booking/internal/httperr"
	"github.com/BruksfildServices01/service-booking/internal/httpresp"
	infraRepo "github.com/BruksfildServices01/service-booking/internal/infra/repository"
	"github.com/BruksfildServices01/service-booking/internal/middleware"
	"github.com/BruksfildServices01/service-booking/internal/models"
	"github.com/BruksfildServices01/service-booking/internal/usecase/catalog"
)

type ServiceHandler struct {
	db      *gorm.DB
	log     *logrus.Logger
	archive *catalog.ArchiveService
}

func NewServiceHandler(db *gorm.DB, log *logrus.Logger, audit catalog.Auditor) *ServiceHandler {
	return &ServiceHandler{
		db:      db,
		log:     log,
		archive: catalog.NewArchiveService(infraRepo.NewCatalogGormRepository(db), audit, log),
	}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name            string          `json:"name" binding:"required"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes" binding:"omitempty,min=0"`
	Status          string          `json:"status"`
}

type UpdateServiceRequest struct {
	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	DurationMinutes *int             `json:"duration_minutes,omitempty"`
	Status          *string          `json:"status,omitempty"`
}

// Archiving goes through DELETE, never through a status update.
func isEditableStatus(s string) bool {
	switch s {
	case models.ServiceStatusActive, models.ServiceStatusInactive, models.ServiceStatusDraft:
		return true
	}
	return false
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	status := strings.ToLower(strings.TrimSpace(c.Query("status")))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Where("owner_id = ?", ownerID)

	if status != "" {
		q = q.Where("status = ?", status)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	status := req.Status
	if status == "" {
		status = models.ServiceStatusActive
	}
	if !isEditableStatus(status) {
		httperr.BadRequest(c, "invalid_status", "Invalid service status.")
		return
	}
	if req.Price.IsNegative() {
		httperr.BadRequest(c, "invalid_price", "Price cannot be negative.")
		return
	}

	service := models.Service{
		OwnerID:         ownerID,
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Price:           req.Price.Round(2),
		DurationMinutes: req.DurationMinutes,
		Status:          status,
	}

	if err := h.db.Create(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Could not create the service.")
		return
	}

	httpresp.Created(c, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	service, ok := findOwnedService(c, h.db, ownerID, c.Param("id"))
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			httperr.BadRequest(c, "invalid_price", "Price cannot be negative.")
			return
		}
		service.Price = req.Price.Round(2)
	}
	if req.DurationMinutes != nil {
		service.DurationMinutes = *req.DurationMinutes
	}
	if req.Status != nil {
		if !isEditableStatus(*req.Status) {
			httperr.BadRequest(c, "invalid_status", "Invalid service status.")
			return
		}
		service.Status = *req.Status
	}

	if err := h.db.Omit("Options").Save(service).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Could not save the service.")
		return
	}

	httpresp.OK(c, service)
}

func (h *ServiceHandler) Archive(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	serviceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}

	if err := h.archive.Execute(
		c.Request.Context(),
		ownerID,
		middleware.UserID(c),
		uint(serviceID),
	); err != nil {
		writeError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// findOwnedService loads one of the owner's services or writes a 404.
func findOwnedService(c *gin.Context, db *gorm.DB, ownerID uint, id string) (*models.Service, bool) {
	var service models.Service
	if err := db.
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&service).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Service not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_service", "Could not load the service.")
		return nil, false
	}
	return &service, true
}
