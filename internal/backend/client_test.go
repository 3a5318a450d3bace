package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/bigkaa/donation-front/internal/domain/model"
)

// testLogger создаёт logger для тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// setupMockBackend создаёт mock HTTP-сервер backend.
func setupMockBackend(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := New(Options{BaseURL: baseURL}, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// TestNew_InvalidURL проверяет валидацию адреса backend.
func TestNew_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "   ", "ftp://host/exec", "://bad", "http://"} {
		if _, err := New(Options{BaseURL: raw}, testLogger()); err == nil {
			t.Errorf("ожидалась ошибка для адреса %q", raw)
		}
	}
}

// TestParseEndpoint проверяет разбор корректного адреса backend.
func TestParseEndpoint(t *testing.T) {
	u, err := ParseEndpoint("https://script.example.com/macros/s/abc/exec")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if u.Host != "script.example.com" || u.Path != "/macros/s/abc/exec" {
		t.Errorf("ParseEndpoint = %s", u)
	}
}

// TestNew_MissingCACert проверяет ошибку при отсутствующем CA-сертификате.
func TestNew_MissingCACert(t *testing.T) {
	_, err := New(Options{
		BaseURL:    "https://backend.example/exec",
		CACertPath: "/nonexistent/ca.pem",
	}, testLogger())
	if err == nil {
		t.Fatal("ожидалась ошибка загрузки CA-сертификата")
	}
}

// TestClient_SubmitDonation проверяет action=add (form-encoded POST).
func TestClient_SubmitDonation(t *testing.T) {
	server := setupMockBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		if r.PostForm.Get("action") != ActionAdd {
			t.Errorf("action = %q", r.PostForm.Get("action"))
		}
		if r.PostForm.Get("itemName") != "白米" || r.PostForm.Get("photoUrl") != "https://img/1.jpg" {
			t.Errorf("поля формы: %v", r.PostForm)
		}
		writeJSON(w, map[string]any{"success": true})
	})

	client := newTestClient(t, server.URL)
	res, err := client.SubmitDonation(context.Background(), model.Donation{
		ItemName:     "白米",
		Quantity:     "3",
		Unit:         "包",
		DonationDate: "2025-01-05",
		PhotoURL:     "https://img/1.jpg",
	})
	if err != nil {
		t.Fatalf("Ошибка SubmitDonation: %v", err)
	}
	if !res.Success {
		t.Error("ожидался success=true")
	}
}

// TestClient_SubmitDonation_BusinessError проверяет, что success=false не является ошибкой.
func TestClient_SubmitDonation_BusinessError(t *testing.T) {
	server := setupMockBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"success": false, "message": "工作表不存在"})
	})

	client := newTestClient(t, server.URL)
	res, err := client.SubmitDonation(context.Background(), model.Donation{ItemName: "x", Quantity: "1", Unit: "個"})
	if err != nil {
		t.Fatalf("бизнес-ошибка не должна быть ошибкой транспорта: %v", err)
	}
	if res.Success || res.Message != "工作表不存在" {
		t.Errorf("результат = %+v", res)
	}
}

// TestClient_UploadPhoto проверяет multipart-запрос action=uploadPhoto.
func TestClient_UploadPhoto(t *testing.T) {
	server := setupMockBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if r.FormValue("action") != ActionUploadPhoto {
			t.Errorf("action = %q", r.FormValue("action"))
		}
		if r.FormValue("itemName") != "罐頭" {
			t.Errorf("itemName = %q", r.FormValue("itemName"))
		}
		file, header, err := r.FormFile("photo")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		if string(content) != "jpeg-bytes" || header.Filename != "can.jpg" {
			t.Errorf("файл: %q %q", header.Filename, content)
		}
		if ct := header.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("Content-Type части = %q", ct)
		}
		writeJSON(w, map[string]any{"success": true, "url": "https://drive/can.jpg"})
	})

	client := newTestClient(t, server.URL)
	res, err := client.UploadPhoto(context.Background(), model.Photo{
		Filename:    "can.jpg",
		ContentType: "image/jpeg",
		Content:     strings.NewReader("jpeg-bytes"),
	}, "罐頭")
	if err != nil {
		t.Fatalf("Ошибка UploadPhoto: %v", err)
	}
	if !res.Success || res.URL != "https://drive/can.jpg" {
		t.Errorf("результат = %+v", res)
	}
}

// TestClient_UploadPhoto_EmptyContent проверяет отказ при отсутствии содержимого файла.
func TestClient_UploadPhoto_EmptyContent(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1/exec")
	if _, err := client.UploadPhoto(context.Background(), model.Photo{Filename: "a.jpg"}, "x"); err == nil {
		t.Fatal("ожидалась ошибка для пустого файла")
	}
}

// TestClient_FetchRecent проверяет GET action=recent и значение limit по умолчанию.
func TestClient_FetchRecent(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit string
	}{
		{"явный лимит", 50, "50"},
		{"ноль заменяется на значение по умолчанию", 0, "20"},
		{"отрицательный заменяется на значение по умолчанию", -3, "20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := setupMockBackend(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					w.WriteHeader(http.StatusMethodNotAllowed)
					return
				}
				q := r.URL.Query()
				if q.Get("action") != ActionRecent || q.Get("limit") != tt.wantLimit {
					t.Errorf("query = %v", q)
				}
				writeJSON(w, map[string]any{
					"success": true,
					"data": []map[string]any{
						{"itemName": "白米", "quantity": 3, "unit": "包"},
					},
				})
			})

			client := newTestClient(t, server.URL)
			res, err := client.FetchRecent(context.Background(), tt.limit)
			if err != nil {
				t.Fatalf("Ошибка FetchRecent: %v", err)
			}
			if len(res.Data) != 1 || res.Data[0].Quantity != "3" {
				t.Errorf("данные = %+v", res.Data)
			}
		})
	}
}

// TestClient_FetchNearExpiry проверяет GET action=nearexpiry и сохранение query базового адреса.
func TestClient_FetchNearExpiry(t *testing.T) {
	server := setupMockBackend(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("action") != ActionNearExpiry || q.Get("days") != "7" {
			t.Errorf("query = %v", q)
		}
		if q.Get("key") != "abc" {
			t.Errorf("параметры базового адреса потеряны: %v", q)
		}
		writeJSON(w, map[string]any{"success": true, "data": []any{}})
	})

	client := newTestClient(t, server.URL+"/exec?key=abc")
	res, err := client.FetchNearExpiry(context.Background(), 0)
	if err != nil {
		t.Fatalf("Ошибка FetchNearExpiry: %v", err)
	}
	if !res.Success || len(res.Data) != 0 {
		t.Errorf("результат = %+v", res)
	}
}

// TestClient_TransportErrors проверяет классификацию ошибок транспорта.
func TestClient_TransportErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "статус 500",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "internal", http.StatusInternalServerError)
			},
			wantErr: ErrBadStatus,
		},
		{
			name: "HTML вместо JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				w.Write([]byte("<html>login</html>"))
			},
			wantErr: ErrMalformedResponse,
		},
		{
			name: "объект в текстовом поле",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success": false, "message": {"x": 1}}`))
			},
			wantErr: ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := setupMockBackend(t, tt.handler)
			client := newTestClient(t, server.URL)

			_, err := client.FetchRecent(context.Background(), 10)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ожидалась %v, получено %v", tt.wantErr, err)
			}
		})
	}
}

// TestClient_Unavailable проверяет ErrUnavailable при недоступном backend.
func TestClient_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := newTestClient(t, url)
	_, err := client.SubmitDonation(context.Background(), model.Donation{ItemName: "x"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("ожидалась ErrUnavailable, получено %v", err)
	}
}

// TestClient_ContextCanceled проверяет, что отменённый контекст даёт ErrUnavailable.
func TestClient_ContextCanceled(t *testing.T) {
	server := setupMockBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"success": true})
	})
	client := newTestClient(t, server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchNearExpiry(ctx, 3)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("ожидалась ErrUnavailable, получено %v", err)
	}
}
