// Пакет model — модель данных записи о пожертвовании.
// Идентификатор и хранение записи принадлежат backend; front-end только
// формирует запрос на создание и отображает результаты чтения.
package model

import (
	"io"
	"net/url"
)

// Donation — поля формы регистрации пожертвования (payload для action=add).
// Имена полей формы совпадают с именами полей backend.
type Donation struct {
	// ItemName — наименование
	ItemName string `form:"itemName" validate:"required"`
	// Quantity — количество (неотрицательное число, строкой из формы)
	Quantity string `form:"quantity" validate:"required"`
	// Unit — единица измерения
	Unit string `form:"unit" validate:"required"`
	// DonationDate — дата пожертвования, YYYY-MM-DD
	DonationDate string `form:"donationDate"`
	// ExpiryDate — срок годности (опционально)
	ExpiryDate string `form:"expiryDate"`
	// Location — место хранения (опционально)
	Location string `form:"location"`
	// Handler — принявший сотрудник (опционально)
	Handler string `form:"handler"`
	// PhotoURL — ссылка на фото, выдаётся backend после uploadPhoto
	PhotoURL string `form:"photoUrl"`
}

// Values возвращает поля в виде url.Values для form-encoded запроса.
// photoUrl передаётся только если фото было загружено.
func (d Donation) Values() url.Values {
	v := url.Values{}
	v.Set("itemName", d.ItemName)
	v.Set("quantity", d.Quantity)
	v.Set("unit", d.Unit)
	v.Set("donationDate", d.DonationDate)
	v.Set("expiryDate", d.ExpiryDate)
	v.Set("location", d.Location)
	v.Set("handler", d.Handler)
	if d.PhotoURL != "" {
		v.Set("photoUrl", d.PhotoURL)
	}
	return v
}

// Photo — файл фотографии для action=uploadPhoto.
type Photo struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// RecordView — запись в ответах recent / nearexpiry.
// Все поля опциональны: отсутствие отображается плейсхолдером.
type RecordView struct {
	ItemName     Text `json:"itemName"`
	Quantity     Text `json:"quantity"`
	Unit         Text `json:"unit"`
	DonationDate Text `json:"donationDate"`
	ExpiryDate   Text `json:"expiryDate"`
	Location     Text `json:"location"`
	Handler      Text `json:"handler"`
	PhotoURL     Text `json:"photoUrl"`
}

// SubmitResult — ответ backend на action=add.
type SubmitResult struct {
	Success bool `json:"success"`
	Message Text `json:"message"`
}

// UploadResult — ответ backend на action=uploadPhoto.
type UploadResult struct {
	Success bool `json:"success"`
	URL     Text `json:"url"`
	Message Text `json:"message"`
}

// ListResult — ответ backend на action=recent и action=nearexpiry.
type ListResult struct {
	Success bool         `json:"success"`
	Data    []RecordView `json:"data"`
	Message Text         `json:"message"`
}
