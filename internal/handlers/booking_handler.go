package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-booking/internal/httpresp"
	infraRepo "github.com/BruksfildServices01/service-booking/internal/infra/repository"
	"github.com/BruksfildServices01/service-booking/internal/middleware"
	"github.com/BruksfildServices01/service-booking/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

// BookingHandler is the owner's view of received bookings.
type BookingHandler struct {
	log *logrus.Logger

	list         *booking.ListBookings
	get          *booking.GetBooking
	changeStatus *booking.ChangeBookingStatus
}

func NewBookingHandler(
	db *gorm.DB,
	log *logrus.Logger,
	audit booking.Auditor,
	notifier booking.Notifier,
) *BookingHandler {
	repo := infraRepo.NewBookingGormRepository(db)

	return &BookingHandler{
		log:          log,
		list:         booking.NewListBookings(repo),
		get:          booking.NewGetBooking(repo),
		changeStatus: booking.NewChangeBookingStatus(repo, audit, notifier, log),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// LIST
// ======================================================

func (h *BookingHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	res, err := h.list.Execute(c.Request.Context(), booking.ListBookingsInput{
		OwnerID: middleware.OwnerID(c),
		Status:  c.Query("status"),
		From:    c.Query("from"),
		To:      c.Query("to"),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, res)
}

// ======================================================
// DETAIL
// ======================================================

func (h *BookingHandler) Get(c *gin.Context) {
	bookingID, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.get.Execute(c.Request.Context(), middleware.OwnerID(c), bookingID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// STATUS
// ======================================================

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	bookingID, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	b, err := h.changeStatus.Execute(c.Request.Context(), booking.ChangeStatusInput{
		OwnerID:   middleware.OwnerID(c),
		UserID:    middleware.UserID(c),
		BookingID: bookingID,
		Status:    req.Status,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, b)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, err)
		return 0, false
	}
	return uint(id), true
}
