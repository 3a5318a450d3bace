// Пакет handlers — HTTP-обработчики страниц front-end.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
)

// isHTMX — запрос отправлен HTMX (частичное обновление страницы).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// render выводит компонент как HTML со статусом 200.
// Ошибка рендеринга логируется и возвращается как 500.
func render(w http.ResponseWriter, r *http.Request, logger *slog.Logger, what string, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := c.Render(r.Context(), w); err != nil {
		logger.Error("Ошибка рендеринга "+what,
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path),
		)
		http.Error(w, "Ошибка рендеринга страницы", http.StatusInternalServerError)
	}
}

// queryInt возвращает положительное целое из query-параметра или 0.
func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
