// Пакет server — HTTP-сервер front-end с graceful shutdown.
// Без TLS — TLS termination на ingress.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	apihandlers "github.com/bigkaa/donation-front/internal/api/handlers"
	"github.com/bigkaa/donation-front/internal/api/middleware"
	"github.com/bigkaa/donation-front/internal/config"
	uihandlers "github.com/bigkaa/donation-front/internal/ui/handlers"
	"github.com/bigkaa/donation-front/internal/ui/i18n"
	"github.com/bigkaa/donation-front/internal/ui/static"
)

// Handlers — обработчики маршрутов сервера.
type Handlers struct {
	Health     *apihandlers.HealthHandler
	Donation   *uihandlers.DonationHandler
	Recent     *uihandlers.RecentHandler
	NearExpiry *uihandlers.NearExpiryHandler
}

// Server — HTTP-сервер front-end.
type Server struct {
	httpServer *http.Server
	router     http.Handler
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
func New(cfg *config.Config, logger *slog.Logger, h Handlers) *Server {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(chimw.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))
	router.Use(chimw.Recoverer)

	// Служебные endpoints
	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Get("/metrics", h.Health.GetMetrics)

	// Статические файлы (CSS)
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.FileSystem())))

	// Страницы и HTMX-фрагменты
	router.Group(func(r chi.Router) {
		r.Use(i18n.Middleware(cfg.Locale))

		r.Get("/", h.Donation.HandlePage)
		r.Post("/donations", h.Donation.HandleSubmit)

		r.Get("/recent", h.Recent.HandlePage)
		r.Get("/partials/recent-list", h.Recent.HandleListPartial)

		r.Get("/near-expiry", h.NearExpiry.HandlePage)
		r.Get("/partials/near-expiry-list", h.NearExpiry.HandleListPartial)
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		router:     router,
		logger:     logger,
		cfg:        cfg,
	}
}

// Handler возвращает корневой http.Handler (используется в тестах).
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
