// dephealth_test.go — unit-тесты мониторинга backend.
package service

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestBackendHealthPath проверяет вычисление пути проверки backend.
func TestBackendHealthPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "путь endpoint",
			input:    "https://script.example.com/macros/s/abc/exec",
			expected: "/macros/s/abc/exec",
		},
		{
			name:     "путь с query",
			input:    "http://backend:8080/api?key=1",
			expected: "/api?key=1",
		},
		{
			name:     "без пути",
			input:    "http://backend:8080",
			expected: "/",
		},
		{
			name:     "некорректный URL",
			input:    "://bad",
			expected: "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := backendHealthPath(tt.input); got != tt.expected {
				t.Errorf("backendHealthPath(%q) = %q, ожидалось %q", tt.input, got, tt.expected)
			}
		})
	}
}

// TestReadinessFromHealth проверяет статус готовности по результатам проверок.
func TestReadinessFromHealth(t *testing.T) {
	tests := []struct {
		name   string
		health map[string]bool
		want   string
	}{
		{"проверок нет", nil, "degraded"},
		{"backend доступен", map[string]bool{backendDepName: true}, "ok"},
		{"backend недоступен", map[string]bool{backendDepName: false}, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := readinessFromHealth(tt.health)
			if status != tt.want {
				t.Errorf("status = %q, ожидалось %q (%s)", status, tt.want, msg)
			}
			if status != "ok" && msg == "" {
				t.Error("для не-ok статуса ожидалось сообщение")
			}
		})
	}
}

// TestNewDephealthService_IsolatedRegistry проверяет создание сервиса с отдельным registry.
func TestNewDephealthService_IsolatedRegistry(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ds, err := NewDephealthServiceWithRegisterer(
		"donation-front", "donation",
		"http://127.0.0.1:18080/exec",
		time.Minute,
		logger,
		prometheus.NewRegistry(),
	)
	if err != nil {
		t.Fatalf("NewDephealthServiceWithRegisterer: %v", err)
	}
	if ds == nil {
		t.Fatal("ожидался созданный сервис")
	}
}
