package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/service-booking/internal/audit"
	"github.com/BruksfildServices01/service-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/service-booking/internal/db"
	"github.com/BruksfildServices01/service-booking/internal/guard"
	infraRepo "github.com/BruksfildServices01/service-booking/internal/infra/repository"
	"github.com/BruksfildServices01/service-booking/internal/jobs"
	"github.com/BruksfildServices01/service-booking/internal/notify"
	"github.com/BruksfildServices01/service-booking/internal/routes"
)

func main() {

	cfg := config.Load()
	log := newLogger(cfg)

	db := dbpkg.NewDB(cfg, log)

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	submitGuard := newGuard(cfg, log)

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)
	notifier := newNotifier(cfg, log)

	scheduler := jobs.NewScheduler(log)
	if cfg.CronEnabled {
		mustAdd(log, scheduler, jobs.DiscountExpirySchedule,
			jobs.NewExpireDiscounts(infraRepo.NewDiscountGormRepository(db), log))
		mustAdd(log, scheduler, jobs.ReminderSchedule,
			jobs.NewSendReminders(infraRepo.NewBookingGormRepository(db), notifier, log))
		scheduler.Start()
	}

	// ======================================================
	// 🌐 HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, routes.Deps{
		Log:      log,
		Guard:    submitGuard,
		Audit:    auditDispatcher,
		Notifier: notifier,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Addr()).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	// ======================================================
	// 🛑 SHUTDOWN
	// ======================================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	if cfg.CronEnabled {
		scheduler.Stop(ctx)
	}

	// Requests are drained; flush what they queued.
	auditDispatcher.Close()
	notifier.Close()
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// newGuard uses redis when configured so that every API instance shares
// the submission locks.
func newGuard(cfg *config.Config, log *logrus.Logger) guard.Guard {
	if cfg.RedisURL == "" {
		log.Info("submit guard: in memory")
		return guard.NewMemoryGuard(cfg.SubmitGuardTTL)
	}

	client, err := guard.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Fatal("invalid REDIS_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Fatal("failed to reach redis")
	}

	log.Info("submit guard: redis")
	return guard.NewRedisGuard(client, cfg.SubmitGuardTTL)
}

func newNotifier(cfg *config.Config, log *logrus.Logger) *notify.Dispatcher {
	var email notify.EmailSender
	if cfg.EmailEnabled() {
		sender, err := notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		if err != nil {
			log.WithError(err).Fatal("invalid SMTP settings")
		}
		email = sender
	} else {
		log.Info("email notifications disabled")
	}

	var sms notify.SMSSender
	if cfg.SMSEnabled() {
		sms = notify.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)
	} else {
		log.Info("sms notifications disabled")
	}

	return notify.NewDispatcher(email, sms, log)
}

func mustAdd(log *logrus.Logger, s *jobs.Scheduler, spec string, job jobs.Job) {
	if err := s.Add(spec, job); err != nil {
		log.WithError(err).WithField("job", job.Name()).Fatal("invalid job schedule")
	}
}
