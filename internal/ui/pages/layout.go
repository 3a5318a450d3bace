// Пакет pages — страницы front-end: общий layout, регистрация пожертвования,
// последние пожертвования и товары с истекающим сроком.
package pages

import (
	"context"

	"github.com/bigkaa/donation-front/internal/ui/i18n"
)

// Site — общие параметры страниц.
type Site struct {
	// HTMXScriptURL — адрес скрипта HTMX; пустая строка — страницы без JavaScript
	HTMXScriptURL string
}

// Разделы навигации.
const (
	NavEntry      = "entry"
	NavRecent     = "recent"
	NavNearExpiry = "near-expiry"
)

type navItem struct {
	key   string
	href  string
	label string
}

var navItems = []navItem{
	{NavEntry, "/", "nav.entry"},
	{NavRecent, "/recent", "nav.recent"},
	{NavNearExpiry, "/near-expiry", "nav.near_expiry"},
}

func pageTitle(ctx context.Context, titleKey string) string {
	return i18n.T(ctx, titleKey) + " · " + i18n.T(ctx, "app.title")
}
