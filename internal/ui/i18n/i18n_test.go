package i18n

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestMatchLocale(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"zh-TW", LangZhTW, false},
		{"en", LangEN, false},
		{"en-US", LangEN, false},
		{"ja", "", true},
		{"!!", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := MatchLocale(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MatchLocale(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("MatchLocale(%q) = %q, ожидалось %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBundle_TranslateFallback(t *testing.T) {
	b := NewBundle(nil)
	if err := b.LoadMessages(LangZhTW, []byte(`{"a": "甲", "b": "乙"}`)); err != nil {
		t.Fatal(err)
	}
	if err := b.LoadMessages(LangEN, []byte(`{"a": "A"}`)); err != nil {
		t.Fatal(err)
	}

	if got := b.Translate(LangEN, "a"); got != "A" {
		t.Errorf("Translate(en, a) = %q", got)
	}
	if got := b.Translate(LangEN, "b"); got != "乙" {
		t.Errorf("ожидался fallback на zh-TW, получено %q", got)
	}
	if got := b.Translate(LangEN, "missing"); got != "missing" {
		t.Errorf("отсутствующий ключ должен возвращаться как есть, получено %q", got)
	}
}

func TestBundle_LoadMessages_InvalidJSON(t *testing.T) {
	b := NewBundle(nil)
	if err := b.LoadMessages(LangEN, []byte(`{"a":`)); err == nil {
		t.Fatal("ожидалась ошибка парсинга")
	}
}

// TestCatalogs_SameKeys проверяет, что каталоги содержат одинаковый набор ключей.
func TestCatalogs_SameKeys(t *testing.T) {
	catalogs := make(map[string]map[string]string)
	for _, lang := range SupportedLocales {
		data, err := LocaleFS.ReadFile("locales/" + lang + ".json")
		if err != nil {
			t.Fatalf("чтение каталога %s: %v", lang, err)
		}
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("разбор каталога %s: %v", lang, err)
		}
		catalogs[lang] = m
	}

	for key := range catalogs[LangZhTW] {
		if _, ok := catalogs[LangEN][key]; !ok {
			t.Errorf("ключ %q отсутствует в en", key)
		}
	}
	for key := range catalogs[LangEN] {
		if _, ok := catalogs[LangZhTW][key]; !ok {
			t.Errorf("ключ %q отсутствует в zh-TW", key)
		}
	}
}

func TestTf_GlobalBundle(t *testing.T) {
	if _, err := Init(testLogger()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	zh := WithLang(context.Background(), LangZhTW)
	if got := Tf(zh, "near_expiry.remaining", 4); got != "（還有 4 天）" {
		t.Errorf("zh-TW remaining = %q", got)
	}
	if got := Tf(zh, "status.upload_failed", "unknown"); got != "照片上傳失敗：unknown" {
		t.Errorf("zh-TW upload_failed = %q", got)
	}

	en := WithLang(context.Background(), LangEN)
	if got := Tf(en, "near_expiry.overdue", 5); got != "(overdue by 5 days)" {
		t.Errorf("en overdue = %q", got)
	}
	if got := DateLayout(LangEN); got != "1/2/2006" {
		t.Errorf("DateLayout(en) = %q", got)
	}
}

func TestMiddleware_SetsLang(t *testing.T) {
	var got string
	h := Middleware(LangEN)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LangFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "zh-TW")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got != LangEN {
		t.Errorf("язык = %q, ожидался фиксированный %q", got, LangEN)
	}
}

func TestLangFromContext_Default(t *testing.T) {
	if got := LangFromContext(context.Background()); got != DefaultLang {
		t.Errorf("LangFromContext() = %q", got)
	}
}
