package partials

import (
	"context"

	"github.com/bigkaa/donation-front/internal/service"
	"github.com/bigkaa/donation-front/internal/ui/i18n"
)

// Идентификаторы областей списков.
const (
	RecentListID     = "recent-list"
	NearExpiryListID = "near-expiry-list"
)

// failed сообщает, что список не загружен.
func failed(view service.ListView) bool {
	return view.Status == service.ListRejected || view.Status == service.ListUnavailable
}

func itemName(ctx context.Context, card service.RecordCard) string {
	if card.ItemName == "" {
		return i18n.T(ctx, "card.no_item_name")
	}
	return card.ItemName
}

func quantityText(card service.RecordCard) string {
	return "× " + card.Quantity + " " + card.Unit
}

func orPlaceholder(ctx context.Context, value string) string {
	if value == "" {
		return i18n.T(ctx, "card.not_filled")
	}
	return value
}

func orDash(ctx context.Context, value string) string {
	if value == "" {
		return i18n.T(ctx, "card.no_expiry")
	}
	return value
}
