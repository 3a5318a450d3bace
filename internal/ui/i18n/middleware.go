// middleware.go — HTTP middleware, помещающее язык развёртывания в контекст запроса.
// Язык фиксирован (DF_LOCALE) и не зависит от заголовков браузера.
package i18n

import (
	"net/http"
)

// Middleware создаёт HTTP middleware, помещающее язык lang в контекст.
func Middleware(lang string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLang(r.Context(), lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
