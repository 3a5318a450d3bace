package pages

import (
	"slices"

	"github.com/bigkaa/donation-front/internal/service"
	"github.com/bigkaa/donation-front/internal/ui/pages/partials"
)

// Варианты выбора в селекторах списков.
var (
	LimitOptions = []int{10, 20, 50, 100}
	DaysOptions  = []int{3, 7, 14, 30}
)

// ListPageData — данные страницы списка.
type ListPageData struct {
	Site Site
	View service.ListView
}

// listControls — параметры формы управления списком.
type listControls struct {
	action    string // адрес полной страницы (без JavaScript)
	partial   string // адрес HTMX-фрагмента
	target    string // id области списка
	selectID  string
	param     string
	labelKey  string
	optionKey string
	options   []int
	current   int
}

func recentControls(view service.ListView) listControls {
	return listControls{
		action:    "/recent",
		partial:   "/partials/recent-list",
		target:    partials.RecentListID,
		selectID:  "limit-select",
		param:     "limit",
		labelKey:  "recent.limit_label",
		optionKey: "recent.limit_option",
		options:   LimitOptions,
		current:   view.Limit,
	}
}

func nearExpiryControls(view service.ListView) listControls {
	return listControls{
		action:    "/near-expiry",
		partial:   "/partials/near-expiry-list",
		target:    partials.NearExpiryListID,
		selectID:  "days-select",
		param:     "days",
		labelKey:  "near_expiry.days_label",
		optionKey: "near_expiry.days_option",
		options:   DaysOptions,
		current:   view.Days,
	}
}

// withCurrent возвращает варианты выбора, дополненные текущим значением.
func withCurrent(options []int, current int) []int {
	if current <= 0 || slices.Contains(options, current) {
		return options
	}
	out := append(slices.Clone(options), current)
	slices.Sort(out)
	return out
}
