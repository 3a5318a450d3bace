// donation.go — регистрация пожертвования: проверка полей, загрузка фото, создание записи.
package service

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/bigkaa/donation-front/internal/domain/model"
	"github.com/bigkaa/donation-front/internal/format"
)

// DonationBackend — операции backend, нужные для регистрации пожертвования.
type DonationBackend interface {
	UploadPhoto(ctx context.Context, photo model.Photo, itemName string) (*model.UploadResult, error)
	SubmitDonation(ctx context.Context, donation model.Donation) (*model.SubmitResult, error)
}

// SubmitStatus — исход регистрации.
type SubmitStatus int

const (
	// SubmitOK — запись создана.
	SubmitOK SubmitStatus = iota
	// SubmitInvalid — не заполнены обязательные поля, backend не вызывался.
	SubmitInvalid
	// SubmitUploadFailed — загрузка фото не удалась, запись не создавалась.
	SubmitUploadFailed
	// SubmitRejected — backend вернул success=false.
	SubmitRejected
	// SubmitUnavailable — ошибка транспорта при создании записи.
	SubmitUnavailable
)

// SubmitOutcome — результат Submit.
type SubmitOutcome struct {
	Status SubmitStatus
	// Message — текст ошибки от backend или транспорта
	Message string
	// Missing — имена незаполненных обязательных полей (SubmitInvalid)
	Missing []string
	// Donation — отправленные (или подготовленные к отправке) значения
	Donation model.Donation
}

// DonationService — логика страницы регистрации пожертвования.
type DonationService struct {
	backend  DonationBackend
	validate *validator.Validate
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewDonationService создаёт сервис регистрации.
// now == nil — используется time.Now; loc == nil — time.Local.
func NewDonationService(backend DonationBackend, loc *time.Location, now func() time.Time, logger *slog.Logger) *DonationService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &DonationService{
		backend:  backend,
		validate: v,
		location: loc,
		now:      now,
		logger:   logger.With(slog.String("component", "donation_service")),
	}
}

// Today возвращает сегодняшнюю дату (YYYY-MM-DD) в настроенной зоне.
func (s *DonationService) Today() string {
	return format.Today(s.now(), s.location)
}

// Submit регистрирует пожертвование.
// Пустая дата пожертвования заменяется на сегодняшнюю. Если передано фото,
// сначала выполняется загрузка; при её неудаче запись не создаётся.
func (s *DonationService) Submit(ctx context.Context, donation model.Donation, photo *model.Photo) SubmitOutcome {
	donation = trimDonation(donation)
	if donation.DonationDate == "" {
		donation.DonationDate = s.Today()
	}
	donation.PhotoURL = ""

	out := SubmitOutcome{Donation: donation}

	if missing := s.missingFields(donation); len(missing) > 0 {
		out.Status = SubmitInvalid
		out.Missing = missing
		return out
	}

	if photo != nil {
		res, err := s.backend.UploadPhoto(ctx, *photo, donation.ItemName)
		switch {
		case err != nil:
			s.logger.Warn("Ошибка загрузки фото",
				slog.String("item", donation.ItemName),
				slog.String("error", err.Error()),
			)
			out.Status = SubmitUploadFailed
			out.Message = err.Error()
			return out
		case !res.Success || res.URL == "":
			out.Status = SubmitUploadFailed
			out.Message = res.Message.String()
			if out.Message == "" {
				out.Message = "unknown"
			}
			return out
		}
		donation.PhotoURL = res.URL.String()
		out.Donation = donation
	}

	res, err := s.backend.SubmitDonation(ctx, donation)
	if err != nil {
		s.logger.Warn("Ошибка создания записи",
			slog.String("item", donation.ItemName),
			slog.String("error", err.Error()),
		)
		out.Status = SubmitUnavailable
		out.Message = err.Error()
		return out
	}
	if !res.Success {
		out.Status = SubmitRejected
		out.Message = res.Message.String()
		if out.Message == "" {
			out.Message = "unknown"
		}
		return out
	}

	s.logger.Info("Пожертвование зарегистрировано",
		slog.String("item", donation.ItemName),
		slog.Bool("photo", donation.PhotoURL != ""),
	)
	out.Status = SubmitOK
	return out
}

// missingFields возвращает имена незаполненных обязательных полей в порядке формы.
func (s *DonationService) missingFields(donation model.Donation) []string {
	err := s.validate.Struct(donation)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		s.logger.Error("Ошибка валидации формы", slog.String("error", err.Error()))
		return nil
	}

	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return missing
}

func trimDonation(d model.Donation) model.Donation {
	d.ItemName = strings.TrimSpace(d.ItemName)
	d.Quantity = strings.TrimSpace(d.Quantity)
	d.Unit = strings.TrimSpace(d.Unit)
	d.DonationDate = strings.TrimSpace(d.DonationDate)
	d.ExpiryDate = strings.TrimSpace(d.ExpiryDate)
	d.Location = strings.TrimSpace(d.Location)
	d.Handler = strings.TrimSpace(d.Handler)
	return d
}
