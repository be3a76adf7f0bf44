package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/lock"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucAccount "github.com/BruksfildServices01/barber-booking/internal/usecase/account"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	ucCalendar "github.com/BruksfildServices01/barber-booking/internal/usecase/calendar"
	ucCatalog "github.com/BruksfildServices01/barber-booking/internal/usecase/catalog"
	ucExport "github.com/BruksfildServices01/barber-booking/internal/usecase/export"
	ucLedger "github.com/BruksfildServices01/barber-booking/internal/usecase/ledger"
	ucReview "github.com/BruksfildServices01/barber-booking/internal/usecase/review"
	ucSlots "github.com/BruksfildServices01/barber-booking/internal/usecase/slots"
)

// Infra carries the process-wide singletons built from configuration.
type Infra struct {
	Audit  *audit.Dispatcher
	Locker lock.Locker
	// Store is nil when ledger export is not configured.
	Store ucExport.ObjectStore
	Now   func() time.Time
}

// Services is the wired use-case layer.
type Services struct {
	Accounts *ucAccount.Accounts
	Calendar *ucCalendar.Calendar
	Catalog  *ucCatalog.Catalog
	Ledger   *ucLedger.Ledger
	Manager  *ucAppointment.Manager
	Reviews  *ucReview.Reviews
	Exporter *ucExport.Exporter
}

func NewServices(db *gorm.DB, cfg *config.Config, infra Infra) *Services {
	loc := timezone.Location(cfg.Timezone)

	// ======================================================
	// REPOSITORIES
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	serviceRepo := infraRepo.NewServiceGormRepository(db)
	calendarRepo := infraRepo.NewCalendarGormRepository(db)

	// ======================================================
	// USE CASES
	// ======================================================
	cal := ucCalendar.New(calendarRepo, infra.Audit, loc)
	generator := ucSlots.NewGenerator(serviceRepo, cal, cfg.SlotStepMinutes)
	ledger := ucLedger.New(appointmentRepo, serviceRepo, cal, generator, infra.Locker)

	return &Services{
		Accounts: ucAccount.New(
			infraRepo.NewUserGormRepository(db),
			auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL),
			infra.Audit,
		),
		Calendar: cal,
		Catalog:  ucCatalog.New(serviceRepo, ledger, infra.Audit),
		Ledger:   ledger,
		Manager: ucAppointment.NewManager(ledger, serviceRepo, cal, infra.Audit, ucAppointment.Options{
			Location:    loc,
			MinAdvance:  time.Duration(cfg.MinAdvanceMinutes) * time.Minute,
			PhoneRegion: cfg.PhoneRegion,
			Now:         infra.Now,
		}),
		Reviews:  ucReview.New(infraRepo.NewReviewGormRepository(db), infra.Audit),
		Exporter: ucExport.New(ledger, infra.Store, infra.Audit),
	}
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, s *Services) {

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(s.Accounts)
	serviceHandler := handlers.NewServiceHandler(s.Catalog)
	appointmentHandler := handlers.NewAppointmentHandler(s.Manager, s.Ledger, s.Exporter)
	calendarHandler := handlers.NewCalendarHandler(s.Calendar)
	reviewHandler := handlers.NewReviewHandler(s.Reviews)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	requireAdmin := middleware.AuthMiddleware(s.Accounts)

	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/me", requireAdmin, authHandler.Me)
		api.PUT("/auth/change-password", requireAdmin, authHandler.ChangePassword)

		// ------------------------------
		// SERVICES
		// ------------------------------
		services := api.Group("/services")
		{
			services.GET("", serviceHandler.List)
			services.GET("/:id", serviceHandler.Get)
			services.POST("", requireAdmin, serviceHandler.Create)
			services.PUT("/:id", requireAdmin, serviceHandler.Update)
			services.DELETE("/:id", requireAdmin, serviceHandler.Delete)
		}

		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		appointments := api.Group("/appointments")
		{
			appointments.GET("/available-slots", appointmentHandler.AvailableSlots)
			appointments.POST("", appointmentHandler.Create)

			appointments.GET("/business-hours", calendarHandler.GetHours)
			appointments.PUT("/business-hours", requireAdmin, calendarHandler.SetHours)
			appointments.POST("/business-hours", requireAdmin, calendarHandler.SetHours)

			appointments.GET("/blocked-dates", calendarHandler.ListBlocked)
			appointments.POST("/blocked-dates", requireAdmin, calendarHandler.Block)
			appointments.DELETE("/blocked-dates/:id", requireAdmin, calendarHandler.Unblock)

			appointments.GET("/admin/stats", requireAdmin, appointmentHandler.Stats)
			appointments.POST("/admin/export", requireAdmin, appointmentHandler.Export)

			appointments.GET("", requireAdmin, appointmentHandler.List)
			appointments.GET("/:id", requireAdmin, appointmentHandler.Get)
			appointments.PUT("/:id", requireAdmin, appointmentHandler.Update)
			appointments.PATCH("/:id/status", requireAdmin, appointmentHandler.UpdateStatus)
			appointments.DELETE("/:id", requireAdmin, appointmentHandler.Delete)
		}

		// ------------------------------
		// REVIEWS
		// ------------------------------
		reviews := api.Group("/reviews")
		{
			reviews.GET("", reviewHandler.ListApproved)
			reviews.POST("", reviewHandler.Submit)
			reviews.GET("/admin", requireAdmin, reviewHandler.ListAll)
			reviews.POST("/admin/:id/approve", requireAdmin, reviewHandler.Approve)
			reviews.DELETE("/admin/:id", requireAdmin, reviewHandler.Delete)
		}

		api.GET("/admin/audit-logs", requireAdmin, auditLogsHandler.List)
	}
}
