// Пакет i18n — каталог сообщений страниц.
// Предоставляет функции T(ctx, key) и Tf(ctx, key, args...) для получения
// переведённых строк из контекста HTTP-запроса.
// Поддерживаемые языки: 繁體中文 (zh-TW, по умолчанию), English (en).
// Язык фиксирован для развёртывания (DF_LOCALE) и помещается в контекст middleware.
package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/text/language"
)

// Поддерживаемые языки
const (
	// LangZhTW — традиционный китайский (Тайвань).
	LangZhTW = "zh-TW"
	// LangEN — английский.
	LangEN = "en"
	// DefaultLang — язык по умолчанию.
	DefaultLang = LangZhTW
)

var (
	// SupportedLocales — коды каталогов в порядке SupportedLanguages.
	SupportedLocales = []string{LangZhTW, LangEN}

	// SupportedLanguages — теги языков для сопоставления DF_LOCALE.
	SupportedLanguages = []language.Tag{
		language.MustParse("zh-TW"),
		language.English,
	}

	// matcher — языковой matcher для значения DF_LOCALE.
	matcher = language.NewMatcher(SupportedLanguages)
)

// contextKey — тип ключа для контекста (избегаем коллизий).
type contextKey string

const (
	// contextKeyLang — текущий язык в контексте запроса.
	contextKeyLang contextKey = "i18n_lang"
)

// Bundle — хранилище переводов для всех языков.
// Загружается один раз при старте приложения.
type Bundle struct {
	mu       sync.RWMutex
	catalogs map[string]map[string]string // lang → key → translation
	logger   *slog.Logger
}

// NewBundle создаёт пустой Bundle.
func NewBundle(logger *slog.Logger) *Bundle {
	return &Bundle{
		catalogs: make(map[string]map[string]string),
		logger:   logger,
	}
}

// LoadMessages загружает JSON-каталог переводов для указанного языка.
// JSON формат: {"key": "translation", ...} (плоский).
func (b *Bundle) LoadMessages(lang string, data []byte) error {
	var messages map[string]string
	if err := json.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("i18n: ошибка парсинга каталога %s: %w", lang, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalogs[lang] = messages

	if b.logger != nil {
		b.logger.Debug("i18n каталог загружен",
			slog.String("lang", lang),
			slog.Int("keys", len(messages)),
		)
	}
	return nil
}

// Translate возвращает перевод по ключу для указанного языка.
// Если ключ не найден — возвращает ключ как есть (для отладки).
func (b *Bundle) Translate(lang, key string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if catalog, ok := b.catalogs[lang]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}

	// Fallback на язык по умолчанию
	if lang != DefaultLang {
		if catalog, ok := b.catalogs[DefaultLang]; ok {
			if msg, ok := catalog[key]; ok {
				return msg
			}
		}
	}

	return key
}

// Translatef возвращает перевод по ключу с подстановкой аргументов (fmt.Sprintf).
func (b *Bundle) Translatef(lang, key string, args ...any) string {
	template := b.Translate(lang, key)
	if len(args) == 0 {
		return template
	}
	return formatFunc(template, args...)
}

// --- Глобальный Bundle (singleton) ---

var (
	globalBundle *Bundle
	globalErr    error
	globalOnce   sync.Once
)

// Init инициализирует глобальный Bundle и загружает встроенные каталоги.
// Повторные вызовы возвращают тот же Bundle.
func Init(logger *slog.Logger) (*Bundle, error) {
	globalOnce.Do(func() {
		b := NewBundle(logger)
		if err := LoadFromEmbedFS(b, logger); err != nil {
			globalErr = err
			return
		}
		globalBundle = b
	})
	return globalBundle, globalErr
}

// GetBundle возвращает глобальный Bundle (nil если не инициализирован).
func GetBundle() *Bundle {
	return globalBundle
}

// --- Функции для использования в компонентах страниц ---

// WithLang помещает язык в контекст.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, contextKeyLang, lang)
}

// LangFromContext извлекает язык из контекста. Default: DefaultLang.
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(contextKeyLang).(string); ok && lang != "" {
		return lang
	}
	return DefaultLang
}

// T возвращает перевод по ключу, используя язык из контекста.
func T(ctx context.Context, key string) string {
	if globalBundle == nil {
		return key
	}
	return globalBundle.Translate(LangFromContext(ctx), key)
}

// Tf возвращает перевод по ключу с аргументами (fmt.Sprintf).
func Tf(ctx context.Context, key string, args ...any) string {
	if globalBundle == nil {
		if len(args) == 0 {
			return key
		}
		return formatFunc(key, args...)
	}
	return globalBundle.Translatef(LangFromContext(ctx), key, args...)
}

// DateLayout возвращает формат отображения даты для языка.
func DateLayout(lang string) string {
	if globalBundle == nil {
		return "2006/1/2"
	}
	return globalBundle.Translate(lang, "date.layout")
}

// formatFunc — ссылка на fmt.Sprintf через переменную: формат-строки загружаются
// из JSON-каталогов, go vet printf-проверка к ним неприменима.
//
//nolint:govet // обход go vet printf-анализатора
var formatFunc = fmt.Sprintf

// MatchLocale сопоставляет значение DF_LOCALE с поддерживаемым каталогом.
// Возвращает ошибку для некорректного или неподдерживаемого тега.
func MatchLocale(value string) (string, error) {
	tag, err := language.Parse(value)
	if err != nil {
		return "", fmt.Errorf("i18n: некорректный тег языка %q: %w", value, err)
	}

	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return "", fmt.Errorf("i18n: язык %q не поддерживается (допустимо: zh-TW, en)", value)
	}
	return SupportedLocales[index], nil
}
