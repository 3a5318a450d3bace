// listing.go — списки записей: последние пожертвования и товары с истекающим сроком.
package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/bigkaa/donation-front/internal/domain/model"
	"github.com/bigkaa/donation-front/internal/format"
)

// ListingBackend — операции чтения backend.
type ListingBackend interface {
	FetchRecent(ctx context.Context, limit int) (*model.ListResult, error)
	FetchNearExpiry(ctx context.Context, days int) (*model.ListResult, error)
}

// ListStatus — исход загрузки списка.
type ListStatus int

const (
	// ListOK — есть записи.
	ListOK ListStatus = iota
	// ListEmpty — backend вернул пустой список.
	ListEmpty
	// ListRejected — backend вернул success=false.
	ListRejected
	// ListUnavailable — ошибка транспорта.
	ListUnavailable
)

// RecordCard — запись, подготовленная к отображению.
// Пустые строковые поля отображаются плейсхолдерами на уровне шаблона.
type RecordCard struct {
	ItemName     string
	Quantity     string
	Unit         string
	DonationDate string
	ExpiryDate   string
	Location     string
	Handler      string
	PhotoURL     string

	// HasExpiry — срок годности распознан, RemainingDays заполнено
	HasExpiry bool
	// RemainingDays — дней до истечения срока (отрицательное — просрочено)
	RemainingDays int
}

// ListView — модель представления списка.
type ListView struct {
	Status  ListStatus
	Cards   []RecordCard
	Message string
	// Limit — запрошенное количество записей (recent)
	Limit int
	// Days — окно в днях (near-expiry)
	Days int
}

// ListingOptions — параметры отображения списков.
type ListingOptions struct {
	// Location — зона для «сегодня» и отображения дат
	Location *time.Location
	// DateLayout — формат отображения даты (зависит от локали)
	DateLayout string
	// Now — источник текущего времени (nil — time.Now)
	Now func() time.Time
	// DefaultLimit / DefaultDays — значения при отсутствии параметра запроса
	DefaultLimit int
	DefaultDays  int
}

// ListingService — логика страниц списков.
type ListingService struct {
	backend ListingBackend
	opts    ListingOptions
	logger  *slog.Logger
}

// NewListingService создаёт сервис списков.
func NewListingService(backend ListingBackend, opts ListingOptions, logger *slog.Logger) *ListingService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.DateLayout == "" {
		opts.DateLayout = format.DateLayout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 20
	}
	if opts.DefaultDays <= 0 {
		opts.DefaultDays = 7
	}
	return &ListingService{
		backend: backend,
		opts:    opts,
		logger:  logger.With(slog.String("component", "listing_service")),
	}
}

// DefaultLimit возвращает количество записей по умолчанию.
func (s *ListingService) DefaultLimit() int {
	return s.opts.DefaultLimit
}

// DefaultDays возвращает окно near-expiry по умолчанию.
func (s *ListingService) DefaultDays() int {
	return s.opts.DefaultDays
}

// Recent загружает последние записи в порядке backend.
func (s *ListingService) Recent(ctx context.Context, limit int) ListView {
	if limit <= 0 {
		limit = s.opts.DefaultLimit
	}
	view := ListView{Limit: limit}

	res, err := s.backend.FetchRecent(ctx, limit)
	if !s.accept(&view, res, err, "recent") {
		return view
	}

	view.Cards = make([]RecordCard, 0, len(res.Data))
	for _, rec := range res.Data {
		view.Cards = append(view.Cards, s.card(rec, false))
	}
	return view
}

// NearExpiry загружает записи с истекающим сроком годности.
// Записи сортируются по возрастанию срока; записи без распознаваемого срока
// идут последними в порядке backend.
func (s *ListingService) NearExpiry(ctx context.Context, days int) ListView {
	if days <= 0 {
		days = s.opts.DefaultDays
	}
	view := ListView{Days: days}

	res, err := s.backend.FetchNearExpiry(ctx, days)
	if !s.accept(&view, res, err, "nearexpiry") {
		return view
	}

	type keyed struct {
		card   RecordCard
		expiry time.Time
		ok     bool
	}
	items := make([]keyed, 0, len(res.Data))
	for _, rec := range res.Data {
		expiry, ok := format.ParseDate(rec.ExpiryDate.String(), s.opts.Location)
		items = append(items, keyed{card: s.card(rec, true), expiry: expiry, ok: ok})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ok != b.ok {
			return a.ok
		}
		if !a.ok {
			return false
		}
		return a.expiry.Before(b.expiry)
	})

	view.Cards = make([]RecordCard, 0, len(items))
	for _, it := range items {
		view.Cards = append(view.Cards, it.card)
	}
	return view
}

// accept заполняет статус view по ответу backend. Возвращает true, если есть записи.
func (s *ListingService) accept(view *ListView, res *model.ListResult, err error, action string) bool {
	switch {
	case err != nil:
		s.logger.Warn("Ошибка загрузки списка",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
		view.Status = ListUnavailable
		view.Message = err.Error()
		return false
	case !res.Success:
		view.Status = ListRejected
		view.Message = res.Message.String()
		if view.Message == "" {
			view.Message = "unknown"
		}
		return false
	case len(res.Data) == 0:
		view.Status = ListEmpty
		return false
	}
	view.Status = ListOK
	return true
}

// card преобразует запись backend в карточку. withRemaining — вычислять остаток дней.
func (s *ListingService) card(rec model.RecordView, withRemaining bool) RecordCard {
	loc := s.opts.Location
	layout := s.opts.DateLayout

	c := RecordCard{
		ItemName:     rec.ItemName.String(),
		Quantity:     rec.Quantity.String(),
		Unit:         rec.Unit.String(),
		DonationDate: format.FormatDate(rec.DonationDate.String(), layout, loc),
		ExpiryDate:   format.FormatDate(rec.ExpiryDate.String(), layout, loc),
		Location:     rec.Location.String(),
		Handler:      rec.Handler.String(),
		PhotoURL:     rec.PhotoURL.String(),
	}
	if c.Quantity == "" {
		c.Quantity = "0"
	}

	if withRemaining {
		if expiry, ok := format.ParseDate(rec.ExpiryDate.String(), loc); ok {
			c.HasExpiry = true
			c.RemainingDays = format.DaysBetween(s.opts.Now().In(loc), expiry)
		}
	}
	return c
}
