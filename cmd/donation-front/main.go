// Точка входа donation-front — веб-интерфейс учёта пожертвований.
// Загружает конфигурацию, инициализирует переводы и клиент backend,
// собирает сервисы и UI handlers, запускает мониторинг backend (topologymetrics)
// и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	// Встроенная база часовых поясов для DF_TIMEZONE в минимальных образах
	_ "time/tzdata"

	"github.com/bigkaa/donation-front/internal/api/handlers"
	"github.com/bigkaa/donation-front/internal/backend"
	"github.com/bigkaa/donation-front/internal/config"
	"github.com/bigkaa/donation-front/internal/server"
	"github.com/bigkaa/donation-front/internal/service"
	uihandlers "github.com/bigkaa/donation-front/internal/ui/handlers"
	"github.com/bigkaa/donation-front/internal/ui/i18n"
	"github.com/bigkaa/donation-front/internal/ui/pages"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения (и DF_ENV_FILE)
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("donation-front запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("locale", cfg.Locale),
		slog.String("timezone", cfg.Location.String()),
	)

	if cfg.DephealthEnabled && os.Getenv("DF_DEPHEALTH_GROUP") == "" {
		logger.Warn("DF_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Переводы интерфейса
	if _, err := i18n.Init(logger); err != nil {
		logger.Error("Ошибка загрузки переводов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Клиент backend
	client, err := backend.New(backend.Options{
		BaseURL:    cfg.BackendURL,
		Timeout:    cfg.BackendTimeout,
		CACertPath: cfg.BackendCACertPath,
	}, logger)
	if err != nil {
		logger.Error("Ошибка создания клиента backend", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Клиент backend создан",
		slog.String("endpoint", client.Endpoint()),
		slog.String("timeout", cfg.BackendTimeout.String()),
	)

	// 5. Сервисный слой
	donationSvc := service.NewDonationService(client, cfg.Location, nil, logger)
	listingSvc := service.NewListingService(client, service.ListingOptions{
		Location:     cfg.Location,
		DateLayout:   i18n.DateLayout(cfg.Locale),
		DefaultLimit: cfg.RecentDefaultLimit,
		DefaultDays:  cfg.NearExpiryDefaultDays,
	}, logger)

	// 6. topologymetrics — мониторинг backend (опционально)
	ctx := context.Background()
	var dephealthSvc *service.DephealthService
	var readiness handlers.ReadinessChecker
	if cfg.DephealthEnabled {
		svc, dephealthErr := service.NewDephealthService(
			"donation-front",
			cfg.DephealthGroup,
			cfg.BackendURL,
			cfg.DephealthCheckInterval,
			logger,
		)
		if dephealthErr != nil {
			logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
				slog.String("error", dephealthErr.Error()),
			)
		} else if startErr := svc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			dephealthSvc = svc
			readiness = svc
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	} else {
		logger.Info("topologymetrics отключён (DF_DEPHEALTH_ENABLED=false)")
	}

	// 7. HTTP handlers
	site := pages.Site{HTMXScriptURL: cfg.HTMXScriptURL}
	h := server.Handlers{
		Health:     handlers.NewHealthHandler(readiness),
		Donation:   uihandlers.NewDonationHandler(donationSvc, site, cfg.MaxUploadBytes, logger),
		Recent:     uihandlers.NewRecentHandler(listingSvc, site, logger),
		NearExpiry: uihandlers.NewNearExpiryHandler(listingSvc, site, logger),
	}

	// 8. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, h)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 9. Остановка фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("donation-front остановлен")
}
