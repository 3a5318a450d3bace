package partials

import (
	"context"

	"github.com/bigkaa/donation-front/internal/domain/model"
	"github.com/bigkaa/donation-front/internal/ui/i18n"
)

// DonationFormData — данные формы регистрации пожертвования.
type DonationFormData struct {
	// Values — значения полей (пустые — новая форма)
	Values model.Donation
	// Today — значение по умолчанию для даты пожертвования
	Today string
	// OOB — форма отправляется как out-of-band swap в HTMX-ответе
	OOB bool
}

// formField — описание поля ввода формы.
type formField struct {
	id       string
	label    string
	kind     string
	value    string
	required bool
}

// donationFields возвращает поля формы в порядке вывода.
func donationFields(ctx context.Context, data DonationFormData) []formField {
	v := data.Values
	donationDate := v.DonationDate
	if donationDate == "" {
		donationDate = data.Today
	}

	return []formField{
		{id: "itemName", label: i18n.T(ctx, "form.item_name"), kind: "text", value: v.ItemName, required: true},
		{id: "quantity", label: i18n.T(ctx, "form.quantity"), kind: "number", value: v.Quantity, required: true},
		{id: "unit", label: i18n.T(ctx, "form.unit"), kind: "text", value: v.Unit, required: true},
		{id: "donationDate", label: i18n.T(ctx, "form.donation_date"), kind: "date", value: donationDate},
		{id: "expiryDate", label: i18n.T(ctx, "form.expiry_date"), kind: "date", value: v.ExpiryDate},
		{id: "location", label: i18n.T(ctx, "form.location"), kind: "text", value: v.Location},
		{id: "handler", label: i18n.T(ctx, "form.handler"), kind: "text", value: v.Handler},
	}
}
