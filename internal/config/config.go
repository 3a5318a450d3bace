// Пакет config — загрузка и валидация конфигурации front-end
// из переменных окружения (префикс DF_) и необязательного .env файла.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/bigkaa/donation-front/internal/backend"
	"github.com/bigkaa/donation-front/internal/ui/i18n"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации front-end.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- Backend ---

	// Адрес endpoint backend учёта пожертвований (http/https)
	BackendURL string
	// Таймаут запросов к backend; 0 — без таймаута
	BackendTimeout time.Duration
	// Путь к CA-сертификату для TLS-соединений с backend (опционально)
	BackendCACertPath string

	// --- Страницы ---

	// Язык страниц: zh-TW или en
	Locale string
	// Часовой пояс для «сегодня» и отображения дат
	Location *time.Location
	// Количество записей recent по умолчанию
	RecentDefaultLimit int
	// Окно near-expiry по умолчанию, в днях
	NearExpiryDefaultDays int
	// Максимальный размер тела POST /donations (вместе с фото)
	MaxUploadBytes int64
	// Адрес скрипта HTMX; пустая строка — без JavaScript
	HTMXScriptURL string

	// --- Мониторинг зависимостей ---

	// Включить мониторинг backend через topologymetrics
	DephealthEnabled bool
	// Имя группы в метриках dephealth
	DephealthGroup string
	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// defaultHTMXScriptURL — HTMX 2.x с CDN.
const defaultHTMXScriptURL = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
// Перед чтением переменных загружается .env (DF_ENV_FILE), если файл существует;
// уже заданные переменные окружения не перезаписываются.
func Load() (*Config, error) {
	envFile := getEnvDefault("DF_ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("DF_ENV_FILE: ошибка загрузки %s: %w", envFile, err)
	}

	cfg := &Config{}
	var err error

	// --- Сервер ---

	// DF_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("DF_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("DF_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("DF_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// DF_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("DF_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("DF_LOG_LEVEL: %w", err)
	}

	// DF_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("DF_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("DF_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- Backend ---

	// DF_BACKEND_URL — обязательный
	cfg.BackendURL, err = getEnvRequired("DF_BACKEND_URL")
	if err != nil {
		return nil, err
	}
	if _, err := backend.ParseEndpoint(cfg.BackendURL); err != nil {
		return nil, fmt.Errorf("DF_BACKEND_URL: %w", err)
	}

	// DF_BACKEND_TIMEOUT — таймаут запросов к backend (по умолчанию 0 — без таймаута)
	cfg.BackendTimeout, err = getEnvDuration("DF_BACKEND_TIMEOUT", 0)
	if err != nil {
		return nil, fmt.Errorf("DF_BACKEND_TIMEOUT: %w", err)
	}
	if cfg.BackendTimeout < 0 {
		return nil, fmt.Errorf("DF_BACKEND_TIMEOUT: отрицательное значение %s", cfg.BackendTimeout)
	}

	// DF_BACKEND_CA_CERT_PATH — путь к CA-сертификату backend (опционально)
	cfg.BackendCACertPath = getEnvDefault("DF_BACKEND_CA_CERT_PATH", "")

	// --- Страницы ---

	// DF_LOCALE — язык страниц (по умолчанию zh-TW)
	cfg.Locale, err = i18n.MatchLocale(getEnvDefault("DF_LOCALE", i18n.DefaultLang))
	if err != nil {
		return nil, fmt.Errorf("DF_LOCALE: %w", err)
	}

	// DF_TIMEZONE — часовой пояс (по умолчанию Local)
	tz := getEnvDefault("DF_TIMEZONE", "Local")
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("DF_TIMEZONE: неизвестный часовой пояс %q: %w", tz, err)
	}

	// DF_RECENT_DEFAULT_LIMIT — записей recent по умолчанию (20)
	cfg.RecentDefaultLimit, err = getEnvInt("DF_RECENT_DEFAULT_LIMIT", 20)
	if err != nil {
		return nil, fmt.Errorf("DF_RECENT_DEFAULT_LIMIT: %w", err)
	}
	if cfg.RecentDefaultLimit < 1 {
		return nil, fmt.Errorf("DF_RECENT_DEFAULT_LIMIT: значение %d должно быть положительным", cfg.RecentDefaultLimit)
	}

	// DF_NEAR_EXPIRY_DEFAULT_DAYS — окно near-expiry по умолчанию (7)
	cfg.NearExpiryDefaultDays, err = getEnvInt("DF_NEAR_EXPIRY_DEFAULT_DAYS", 7)
	if err != nil {
		return nil, fmt.Errorf("DF_NEAR_EXPIRY_DEFAULT_DAYS: %w", err)
	}
	if cfg.NearExpiryDefaultDays < 1 {
		return nil, fmt.Errorf("DF_NEAR_EXPIRY_DEFAULT_DAYS: значение %d должно быть положительным", cfg.NearExpiryDefaultDays)
	}

	// DF_MAX_UPLOAD_BYTES — ограничение тела формы (10 MiB)
	maxUpload, err := getEnvInt("DF_MAX_UPLOAD_BYTES", 10<<20)
	if err != nil {
		return nil, fmt.Errorf("DF_MAX_UPLOAD_BYTES: %w", err)
	}
	if maxUpload < 1 {
		return nil, fmt.Errorf("DF_MAX_UPLOAD_BYTES: значение %d должно быть положительным", maxUpload)
	}
	cfg.MaxUploadBytes = int64(maxUpload)

	// DF_HTMX_SCRIPT_URL — адрес HTMX; явная пустая строка отключает скрипт
	if val, ok := os.LookupEnv("DF_HTMX_SCRIPT_URL"); ok {
		cfg.HTMXScriptURL = strings.TrimSpace(val)
	} else {
		cfg.HTMXScriptURL = defaultHTMXScriptURL
	}

	// --- Мониторинг зависимостей ---

	// DF_DEPHEALTH_ENABLED — мониторинг backend (по умолчанию true)
	cfg.DephealthEnabled, err = getEnvBool("DF_DEPHEALTH_ENABLED", true)
	if err != nil {
		return nil, fmt.Errorf("DF_DEPHEALTH_ENABLED: %w", err)
	}

	// DF_DEPHEALTH_GROUP — группа в метриках (по умолчанию donation)
	cfg.DephealthGroup = getEnvDefault("DF_DEPHEALTH_GROUP", "donation")

	// DF_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 30s)
	cfg.DephealthCheckInterval, err = getEnvDuration("DF_DEPHEALTH_CHECK_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DF_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	// DF_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("DF_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DF_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// getEnvBool возвращает логическое значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное логическое значение: %q", val)
	}
	return b, nil
}
