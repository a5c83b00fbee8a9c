package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-booking/internal/config"
	"github.com/BruksfildServices01/service-booking/internal/guard"
	"github.com/BruksfildServices01/service-booking/internal/handlers"
	"github.com/BruksfildServices01/service-booking/internal/middleware"
	"github.com/BruksfildServices01/service-booking/internal/usecase/booking"
)

// Deps are the process wide collaborators built in main.
type Deps struct {
	Log      *logrus.Logger
	Guard    guard.Guard
	Audit    booking.Auditor
	Notifier booking.Notifier
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps Deps) {

	// ======================================================
	// 🌍 GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	serviceHandler := handlers.NewServiceHandler(db, deps.Log, deps.Audit)
	optionHandler := handlers.NewServiceOptionHandler(db)
	areaHandler := handlers.NewAreaHandler(db)
	discountHandler := handlers.NewDiscountHandler(db)
	bookingHandler := handlers.NewBookingHandler(db, deps.Log, deps.Audit, deps.Notifier)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(
		db,
		deps.Log,
		deps.Guard,
		deps.Audit,
		deps.Notifier,
		cfg.ReferencePrefix,
	)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 PUBLIC BOOKING API
		// ------------------------------
		publicAPI := api.Group("/public/:slug")
		{
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/services/:id/options", publicHandler.ListOptions)
			publicAPI.POST("/coverage", publicHandler.CheckCoverage)
			publicAPI.POST("/discounts/preview", publicHandler.PreviewDiscount)
			publicAPI.POST("/pricing/preview", publicHandler.PreviewPricing)
			publicAPI.POST("/bookings", publicHandler.CreateBooking)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 OWNER API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me/owner", meHandler.UpdateOwner)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)
			secured.DELETE("/me/services/:id", serviceHandler.Archive)

			secured.GET("/me/services/:id/options", optionHandler.List)
			secured.POST("/me/services/:id/options", optionHandler.Create)
			secured.PUT("/me/services/:id/options/:optionId", optionHandler.Update)
			secured.DELETE("/me/services/:id/options/:optionId", optionHandler.Delete)

			secured.GET("/me/areas", areaHandler.List)
			secured.POST("/me/areas", areaHandler.Create)
			secured.PATCH("/me/areas/:id", areaHandler.Update)
			secured.DELETE("/me/areas/:id", areaHandler.Delete)

			secured.GET("/me/discounts", discountHandler.List)
			secured.POST("/me/discounts", discountHandler.Create)
			secured.PATCH("/me/discounts/:id", discountHandler.Update)
			secured.DELETE("/me/discounts/:id", discountHandler.Delete)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.GET("/me/bookings", bookingHandler.List)
			secured.GET("/me/bookings/:id", bookingHandler.Get)
			secured.PATCH("/me/bookings/:id/status", bookingHandler.UpdateStatus)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
