package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihandlers "github.com/bigkaa/donation-front/internal/api/handlers"
	"github.com/bigkaa/donation-front/internal/backend"
	"github.com/bigkaa/donation-front/internal/config"
	"github.com/bigkaa/donation-front/internal/service"
	uihandlers "github.com/bigkaa/donation-front/internal/ui/handlers"
	"github.com/bigkaa/donation-front/internal/ui/i18n"
	"github.com/bigkaa/donation-front/internal/ui/pages"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeBackend — mock backend учёта пожертвований.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("action") {
		case backend.ActionRecent:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": []map[string]any{
					{"itemName": "白米", "quantity": 3, "unit": "包", "donationDate": "2025-01-04"},
				},
			})
		case backend.ActionNearExpiry:
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": []any{}})
		default:
			if err := r.ParseForm(); err == nil && r.PostForm.Get("action") == backend.ActionAdd {
				_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
				return
			}
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// setupServer собирает сервер так же, как main, поверх mock backend.
func setupServer(t *testing.T, locale string) *Server {
	t.Helper()
	logger := testLogger()

	_, err := i18n.Init(logger)
	require.NoError(t, err)

	be := fakeBackend(t)
	cfg := &config.Config{
		Port:                  0,
		BackendURL:            be.URL,
		Locale:                locale,
		Location:              time.UTC,
		RecentDefaultLimit:    20,
		NearExpiryDefaultDays: 7,
		MaxUploadBytes:        1 << 20,
		ShutdownTimeout:       time.Second,
	}

	client, err := backend.New(backend.Options{BaseURL: cfg.BackendURL}, logger)
	require.NoError(t, err)

	site := pages.Site{}
	donationSvc := service.NewDonationService(client, cfg.Location, nil, logger)
	listingSvc := service.NewListingService(client, service.ListingOptions{
		Location:     cfg.Location,
		DateLayout:   i18n.DateLayout(cfg.Locale),
		DefaultLimit: cfg.RecentDefaultLimit,
		DefaultDays:  cfg.NearExpiryDefaultDays,
	}, logger)

	return New(cfg, logger, Handlers{
		Health:     apihandlers.NewHealthHandler(nil),
		Donation:   uihandlers.NewDonationHandler(donationSvc, site, cfg.MaxUploadBytes, logger),
		Recent:     uihandlers.NewRecentHandler(listingSvc, site, logger),
		NearExpiry: uihandlers.NewNearExpiryHandler(listingSvc, site, logger),
	})
}

func TestServer_Routes(t *testing.T) {
	srv := httptest.NewServer(setupServer(t, i18n.LangZhTW).Handler())
	t.Cleanup(srv.Close)

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/", http.StatusOK, `id="donation-form"`},
		{"/recent", http.StatusOK, "白米"},
		{"/partials/recent-list?limit=10", http.StatusOK, `id="recent-list"`},
		{"/near-expiry", http.StatusOK, "未來 7 天內沒有即期品。"},
		{"/partials/near-expiry-list?days=14", http.StatusOK, "未來 14 天內沒有即期品。"},
		{"/static/css/app.css", http.StatusOK, ".card"},
		{"/health/live", http.StatusOK, `"status":"ok"`},
		{"/health/ready", http.StatusOK, "мониторинг отключён"},
		{"/metrics", http.StatusOK, "df_http_requests_total"},
		{"/unknown", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			body := new(strings.Builder)
			_, _ = io.Copy(body, resp.Body)

			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.Contains(t, body.String(), tt.wantBody)
			assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		})
	}
}

func TestServer_SubmitDonation(t *testing.T) {
	srv := httptest.NewServer(setupServer(t, i18n.LangEN).Handler())
	t.Cleanup(srv.Close)

	form := url.Values{"itemName": {"Rice"}, "quantity": {"3"}, "unit": {"bag"}}
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/donations", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := new(strings.Builder)
	_, _ = io.Copy(body, resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body.String(), "Saved ✔")
	assert.Contains(t, body.String(), `hx-swap-oob="true"`)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := httptest.NewServer(setupServer(t, i18n.LangZhTW).Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/donations")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
