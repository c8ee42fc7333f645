package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"resto-backend/internal/config"
	"resto-backend/internal/handlers"
	"resto-backend/internal/httpx"
	"resto-backend/internal/repository"
	"resto-backend/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, log *zap.Logger, cfg config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(log))
	r.Use(recoverer(log))
	r.Use(chimw.Timeout(cfg.RequestTimeout))

	if cfg.Env == "development" || len(cfg.CorsAllowedOrigins) > 0 {
		options := cors.Options{
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
			AllowCredentials: true,
			MaxAge:           300,
		}
		if cfg.Env == "development" {
			options.AllowOriginFunc = func(_ *http.Request, origin string) bool { return true }
		} else {
			options.AllowedOrigins = cfg.CorsAllowedOrigins
		}
		r.Use(cors.Handler(options))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	repo := repository.NewOrders(db)
	orderSvc := services.NewOrderService(db)

	mh := handlers.NewMenuHandler(db, log)
	th := handlers.NewTableHandler(db, log)
	oh := handlers.NewOrderHandler(orderSvc, repo, log)
	dh := handlers.NewDashboardHandler(db, repo, log)
	rh := handlers.NewReportHandler(repo, log)

	r.Route("/menus", func(r chi.Router) {
		r.Get("/", mh.List)
		r.Post("/", mh.Create)
		r.Get("/{id}", mh.Get)
		r.Put("/{id}", mh.Update)
		r.Delete("/{id}", mh.Delete)
	})

	r.Route("/tables", func(r chi.Router) {
		r.Get("/", th.List)
		r.Post("/", th.Create)
		r.Get("/{id}", th.Get)
		r.Put("/{id}", th.Update)
		r.Delete("/{id}", th.Delete)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", oh.List)
		r.Post("/", oh.Create)
		r.Get("/{id}", oh.Get)
		r.Put("/{id}", oh.Update)
		r.Delete("/{id}", oh.Delete)
	})

	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/stats", dh.Stats)
		r.Get("/today-stats", dh.TodayStats)
	})

	r.Route("/reports", func(r chi.Router) {
		r.Get("/", rh.Get)
		r.Get("/years", rh.Years)
		r.Get("/months", rh.Months)
		r.Get("/weeks", rh.Weeks)
		r.Get("/custom", rh.Custom)
		r.Get("/{period}", rh.Get)
	})

	return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

func recoverer(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path))
					httpx.Error(w, http.StatusInternalServerError, "internal_error", "Server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
