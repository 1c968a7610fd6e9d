package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/school-api/internal/application/alert"
	"github.com/school-api/internal/application/auth"
	"github.com/school-api/internal/application/broadcast"
	"github.com/school-api/internal/application/circular"
	"github.com/school-api/internal/application/device"
	"github.com/school-api/internal/application/notification"
	"github.com/school-api/internal/application/page"
	"github.com/school-api/internal/application/readstate"
	"github.com/school-api/internal/application/upload"
	"github.com/school-api/internal/application/user"
	"github.com/school-api/internal/config"
	"github.com/school-api/internal/pkg/logger"
	"github.com/school-api/internal/pkg/metrics"
	"github.com/school-api/internal/transport/http/handler"
	appmiddleware "github.com/school-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds the
// lifetime of background work such as rate limiter cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	if cfg.TrustedProxy {
		// Only safe when every request arrives through a proxy that overwrites these headers.
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.RequestID)
	r.Use(logger.Middleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10, on the public OTP endpoints.
	otpRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(5), 10)

	broadcastSvc := broadcast.NewService(deps.Feed, deps.Devices, deps.Push)
	circularSvc := circular.NewService(deps.Circulars, broadcastSvc, deps.Transactor)
	readStateSvc := readstate.NewService(deps.ReadStates)
	notifSvc := notification.NewService(deps.Feed)
	deviceSvc := device.NewService(deps.Devices)
	userSvc := user.NewService(deps.Users)
	uploadSvc := upload.NewService(deps.S3Store, cfg.UploadURLExpiry)
	pageSvc := page.NewService(deps.Pages)
	alertSvc := alert.NewService(deps.Alerts, broadcastSvc, deps.Transactor)
	authSvc := auth.NewService(auth.ServiceDeps{
		VerificationRepo: deps.VerificationRepo,
		UserRepo:         deps.Users,
		SMSSender:        deps.SMSSender,
		JWTProvider:      deps.JWTProvider,
		OTPExpiry:        cfg.OTPExpiry,
		ResendCooldown:   cfg.OTPResendCooldown,
		MaxAttempts:      cfg.OTPMaxAttempts,
	})

	healthH := handler.NewHealthHandler(deps.DB)
	circularH := handler.NewCircularHandler(circularSvc, readStateSvc)
	notifH := handler.NewNotificationHandler(notifSvc)
	deviceH := handler.NewDeviceHandler(deviceSvc)
	userH := handler.NewUserHandler(userSvc)
	uploadH := handler.NewUploadHandler(uploadSvc)
	pageH := handler.NewPageHandler(pageSvc)
	alertH := handler.NewAlertHandler(alertSvc)
	authH := handler.NewAuthHandler(authSvc)

	if cfg.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Check)
		r.With(otpRL.Limit).Post("/auth/otp/request", authH.RequestOTP)
		r.With(otpRL.Limit).Post("/auth/otp/verify", authH.VerifyOTP)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.JWTProvider))

			r.Get("/me", userH.Me)
			r.Post("/devices", deviceH.Register)
			r.Get("/devices", deviceH.List)
			r.Delete("/devices/{deviceId}", deviceH.Delete)

			// Tenant-scoped routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireSchool)

				r.Post("/circulars", circularH.Create)
				r.Get("/circulars", circularH.List)
				r.Get("/circulars/unseen-counts", circularH.UnseenCounts)
				r.Post("/circulars/categories/{category}/seen", circularH.MarkSeen)
				r.Get("/circulars/categories/{category}/unseen-count", circularH.UnseenCount)
				r.Get("/circulars/{id}", circularH.Get)
				r.Put("/circulars/{id}", circularH.Update)
				r.Delete("/circulars/{id}", circularH.Delete)

				r.Get("/notifications", notifH.List)
				r.Post("/notifications/read", notifH.MarkRead)
				r.Get("/notifications/unread-count", notifH.UnreadCount)

				r.Post("/uploads/presign", uploadH.Presign)

				r.Get("/pages", pageH.List)
				r.Get("/pages/{slug}", pageH.Get)
				r.Put("/pages/{slug}", pageH.Put)
				r.Delete("/pages/{slug}", pageH.Delete)

				r.Post("/alerts", alertH.Raise)
				r.Get("/alerts", alertH.List)
				r.Post("/alerts/{id}/resolve", alertH.Resolve)
			})
		})
	})

	return r
}
