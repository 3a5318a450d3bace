// dephealth.go — интеграция с topologymetrics SDK для мониторинга зависимостей.
//
// Front-end мониторит одну зависимость:
//   - backend учёта пожертвований — HTTP checker к адресу endpoint (critical)
//
// Метрики доступны на /metrics вместе с остальными Prometheus-метриками:
//   - app_dependency_health — состояние зависимости (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds — задержка проверки
//   - app_dependency_status — категория статуса
//   - app_dependency_status_detail — детальный статус
package service

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // HTTP checker для backend
	"github.com/prometheus/client_golang/prometheus"
)

// backendDepName — имя зависимости в метриках и в ответе /health/ready.
const backendDepName = "donation-backend"

// DephealthService — сервис мониторинга зависимостей через topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService создаёт сервис мониторинга зависимостей.
// Метрики регистрируются в глобальном Prometheus registry.
//
// Параметры:
//   - serviceID — имя вершины графа текущего приложения (e.g. "donation-front")
//   - group — имя группы в метриках (DF_DEPHEALTH_GROUP)
//   - backendURL — адрес endpoint backend (DF_BACKEND_URL)
//   - checkInterval — интервал проверки (DF_DEPHEALTH_CHECK_INTERVAL)
func NewDephealthService(
	serviceID string,
	group string,
	backendURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, backendURL, checkInterval, logger)
}

// NewDephealthServiceWithRegisterer создаёт сервис с указанным Prometheus registerer.
// Используется в тестах для изоляции метрик.
func NewDephealthServiceWithRegisterer(
	serviceID string,
	group string,
	backendURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, backendURL, checkInterval, logger,
		dephealth.WithRegisterer(registerer))
}

// newDephealthService — внутренний конструктор.
func newDephealthService(
	serviceID string,
	group string,
	backendURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	extraOpts ...dephealth.Option,
) (*DephealthService, error) {
	opts := []dephealth.Option{
		dephealth.WithLogger(logger),
		// Backend — HTTP checker к пути самого endpoint: отдельного /health у backend нет
		dephealth.HTTP(backendDepName,
			dephealth.FromURL(backendURL),
			dephealth.WithHTTPHealthPath(backendHealthPath(backendURL)),
			dephealth.CheckInterval(checkInterval),
			dephealth.Critical(true),
		),
	}
	opts = append(opts, extraOpts...)

	dh, err := dephealth.New(serviceID, group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// backendHealthPath возвращает путь проверки: path endpoint вместе с query.
func backendHealthPath(backendURL string) string {
	parsed, err := url.Parse(backendURL)
	if err != nil || parsed.Path == "" {
		return "/"
	}
	if parsed.RawQuery != "" {
		return parsed.Path + "?" + parsed.RawQuery
	}
	return parsed.Path
}

// Start запускает периодическую проверку зависимостей.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг зависимостей запущен (backend)")
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг зависимостей.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг зависимостей остановлен")
}

// Health возвращает текущее состояние зависимостей.
// Ключ — имя зависимости, значение — true если ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}

// CheckReady реализует ReadinessChecker для /health/ready.
// Backend недоступен — "degraded": страницы продолжают работать и показывают ошибку загрузки.
func (ds *DephealthService) CheckReady() (string, string) {
	return readinessFromHealth(ds.Health())
}

// readinessFromHealth вычисляет статус готовности по результатам проверок.
func readinessFromHealth(health map[string]bool) (string, string) {
	if len(health) == 0 {
		return "degraded", "проверки ещё не выполнены"
	}
	for name, ok := range health {
		if !ok {
			return "degraded", name + " недоступен"
		}
	}
	return "ok", ""
}
