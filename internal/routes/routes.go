package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/meetsched/meeting-scheduler/internal/audit"
	"github.com/meetsched/meeting-scheduler/internal/config"
	"github.com/meetsched/meeting-scheduler/internal/handlers"
	"github.com/meetsched/meeting-scheduler/internal/infra/calendar"
	infraRepo "github.com/meetsched/meeting-scheduler/internal/infra/repository"
	"github.com/meetsched/meeting-scheduler/internal/middleware"
	"github.com/meetsched/meeting-scheduler/internal/notify"
	ucBooking "github.com/meetsched/meeting-scheduler/internal/usecase/booking"
)

// Background holds the long-running workers wired together with the
// routes. main starts them with its root context.
type Background struct {
	Reminders *notify.ReminderScheduler
	Sweeper   *ucBooking.ExpireRequests
}

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
	log *zap.Logger,
) *Background {

	// ======================================================
	// MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	sender := notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	notifyDispatcher := notify.NewDispatcher(sender, log)
	reminders := notify.NewReminderScheduler(
		rdb,
		notifyDispatcher,
		log,
		time.Duration(cfg.ReminderLeadMinutes)*time.Minute,
	)
	sideEffects := ucBooking.NewSideEffects(notifyDispatcher, reminders, cfg.BaseURL)

	oauthConfig := calendar.OAuthConfig(cfg)
	busyProvider := calendar.NewGoogleBusyProvider(db, oauthConfig)

	// ======================================================
	// USE CASES
	// ======================================================
	getAvailabilityUC := ucBooking.NewGetAvailability(bookingRepo, busyProvider, log)

	createBookingUC := ucBooking.NewCreateBooking(bookingRepo, auditDispatcher, sideEffects, log)
	cancelBookingUC := ucBooking.NewCancelBooking(bookingRepo, auditDispatcher, sideEffects)
	completeBookingUC := ucBooking.NewCompleteBooking(bookingRepo, auditDispatcher)
	listByDateUC := ucBooking.NewListBookingsByDate(bookingRepo)
	listByMonthUC := ucBooking.NewListBookingsByMonth(bookingRepo)

	submitRequestUC := ucBooking.NewSubmitRequest(bookingRepo, auditDispatcher, sideEffects, log)
	confirmRequestUC := ucBooking.NewConfirmRequest(bookingRepo, auditDispatcher, sideEffects, log)
	approveRequestUC := ucBooking.NewApproveRequest(bookingRepo, auditDispatcher, sideEffects, log)
	rejectRequestUC := ucBooking.NewRejectRequest(bookingRepo, auditDispatcher, sideEffects, log)

	expireRequestsUC := ucBooking.NewExpireRequests(bookingRepo, log)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	rulesHandler := handlers.NewAvailabilityRulesHandler(db)
	eventTypeHandler := handlers.NewEventTypeHandler(db)

	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		listByDateUC,
		listByMonthUC,
		cancelBookingUC,
		completeBookingUC,
	)

	requestHandler := handlers.NewRequestHandler(bookingRepo, approveRequestUC, rejectRequestUC)

	publicHandler := handlers.NewPublicHandler(
		db,
		getAvailabilityUC,
		submitRequestUC,
		confirmRequestUC,
	)

	calendarHandler := handlers.NewCalendarHandler(db, rdb, oauthConfig)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC API
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/hosts/:slug", publicHandler.GetProfile)
			publicAPI.GET("/hosts/:slug/availability", publicHandler.GetAvailability)
			publicAPI.POST("/hosts/:slug/requests", publicHandler.SubmitRequest)
			publicAPI.POST("/requests/confirm/:token", publicHandler.ConfirmRequest)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me/settings", meHandler.UpdateSettings)

			secured.GET("/me/availability-rules", rulesHandler.List)
			secured.PUT("/me/availability-rules", rulesHandler.Replace)

			secured.GET("/me/event-types", eventTypeHandler.List)
			secured.POST("/me/event-types", eventTypeHandler.Create)
			secured.PATCH("/me/event-types/:id", eventTypeHandler.Update)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.POST("/me/bookings", bookingHandler.Create)
			secured.GET("/me/bookings", bookingHandler.ListByDate)
			secured.GET("/me/bookings/month", bookingHandler.ListByMonth)
			secured.PATCH("/me/bookings/:id/cancel", bookingHandler.Cancel)
			secured.PATCH("/me/bookings/:id/complete", bookingHandler.Complete)

			// ------------------------------
			// BOOKING REQUESTS
			// ------------------------------
			secured.GET("/me/requests", requestHandler.ListAwaitingApproval)
			secured.POST("/me/requests/:token/approve", requestHandler.Approve)
			secured.POST("/me/requests/:token/reject", requestHandler.Reject)

			// ------------------------------
			// INTEGRATIONS
			// ------------------------------
			secured.GET("/me/calendar/connect", calendarHandler.Connect)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}

		// The OAuth provider redirects here; the state token carries the
		// host identity, so no auth middleware.
		api.GET("/calendar/callback", calendarHandler.Callback)
	}

	return &Background{
		Reminders: reminders,
		Sweeper:   expireRequestsUC,
	}
}
