package pages

import "github.com/bigkaa/donation-front/internal/ui/pages/partials"

// DonationPageData — данные страницы регистрации пожертвования.
type DonationPageData struct {
	Site    Site
	Form    partials.DonationFormData
	Message partials.MessageData
}
