package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/bigkaa/donation-front/internal/domain/model"
	"github.com/bigkaa/donation-front/internal/service"
	"github.com/bigkaa/donation-front/internal/ui/i18n"
	"github.com/bigkaa/donation-front/internal/ui/pages"
	"github.com/bigkaa/donation-front/internal/ui/pages/partials"
)

// multipartMemory — часть multipart-формы, хранимая в памяти (остальное — во временных файлах).
const multipartMemory = 1 << 20

// formPrefixBytes — начало тела запроса, по которому восстанавливаются текстовые поля,
// если форма целиком не разобрана (например, фото превысило DF_MAX_UPLOAD_BYTES).
const formPrefixBytes = 64 << 10

// fieldLabels — ключи каталога для имён обязательных полей.
var fieldLabels = map[string]string{
	"itemName": "form.item_name",
	"quantity": "form.quantity",
	"unit":     "form.unit",
}

// DonationHandler — обработчик страницы регистрации пожертвования.
type DonationHandler struct {
	service        *service.DonationService
	site           pages.Site
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewDonationHandler создаёт новый DonationHandler.
func NewDonationHandler(svc *service.DonationService, site pages.Site, maxUploadBytes int64, logger *slog.Logger) *DonationHandler {
	return &DonationHandler{
		service:        svc,
		site:           site,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "ui.donation")),
	}
}

// HandlePage обрабатывает GET / — пустая форма с сегодняшней датой.
func (h *DonationHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.logger, "страницы регистрации", pages.DonationPage(pages.DonationPageData{
		Site: h.site,
		Form: partials.DonationFormData{Today: h.service.Today()},
	}))
}

// HandleSubmit обрабатывает POST /donations.
// HTMX-запрос получает фрагмент #message (и при успехе новую форму out-of-band),
// обычный запрос — полную страницу. Ответ всегда 200: ошибки показываются в #message.
func (h *DonationHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	prefix := &prefixBuffer{limit: formPrefixBytes}
	r.Body = teeBody{Reader: io.TeeReader(r.Body, prefix), Closer: r.Body}

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}
	if err != nil {
		h.logger.Warn("Ошибка разбора формы", slog.String("error", err.Error()))

		text := i18n.Tf(ctx, "status.submit_error", err.Error())
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			text = i18n.Tf(ctx, "status.upload_failed", err.Error())
		}
		h.respond(w, r, service.SubmitOutcome{Donation: bindDonation(recoverFields(r, prefix.Bytes()))}, partials.MessageData{
			Kind: partials.MessageError,
			Text: text,
		})
		return
	}

	photo, closePhoto, err := photoFromRequest(r)
	if err != nil {
		h.respond(w, r, service.SubmitOutcome{Donation: bindDonation(r.Form)}, partials.MessageData{
			Kind: partials.MessageError,
			Text: i18n.Tf(ctx, "status.upload_failed", err.Error()),
		})
		return
	}
	defer closePhoto()

	outcome := h.service.Submit(ctx, bindDonation(r.Form), photo)
	h.respond(w, r, outcome, outcomeMessage(ctx, outcome))
}

// respond выводит результат отправки формы.
func (h *DonationHandler) respond(w http.ResponseWriter, r *http.Request, outcome service.SubmitOutcome, msg partials.MessageData) {
	ok := outcome.Status == service.SubmitOK && msg.Kind == partials.MessageSuccess

	form := partials.DonationFormData{Today: h.service.Today()}
	if !ok {
		form.Values = outcome.Donation
	}

	if isHTMX(r) {
		var b strings.Builder
		if err := partials.Message(msg).Render(r.Context(), &b); err != nil {
			h.logger.Error("Ошибка рендеринга сообщения", slog.String("error", err.Error()))
			http.Error(w, "Ошибка рендеринга страницы", http.StatusInternalServerError)
			return
		}
		if ok {
			form.OOB = true
			if err := partials.DonationForm(form).Render(r.Context(), &b); err != nil {
				h.logger.Error("Ошибка рендеринга формы", slog.String("error", err.Error()))
				http.Error(w, "Ошибка рендеринга страницы", http.StatusInternalServerError)
				return
			}
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(b.String()))
		return
	}

	render(w, r, h.logger, "страницы регистрации", pages.DonationPage(pages.DonationPageData{
		Site:    h.site,
		Form:    form,
		Message: msg,
	}))
}

// outcomeMessage формирует текст #message по результату регистрации.
func outcomeMessage(ctx context.Context, outcome service.SubmitOutcome) partials.MessageData {
	switch outcome.Status {
	case service.SubmitOK:
		return partials.MessageData{Kind: partials.MessageSuccess, Text: i18n.T(ctx, "status.saved")}
	case service.SubmitInvalid:
		labels := make([]string, 0, len(outcome.Missing))
		for _, field := range outcome.Missing {
			if key, ok := fieldLabels[field]; ok {
				labels = append(labels, i18n.T(ctx, key))
			} else {
				labels = append(labels, field)
			}
		}
		return partials.MessageData{
			Kind: partials.MessageError,
			Text: i18n.Tf(ctx, "status.missing_fields", strings.Join(labels, i18n.T(ctx, "status.field_separator"))),
		}
	case service.SubmitUploadFailed:
		return partials.MessageData{Kind: partials.MessageError, Text: i18n.Tf(ctx, "status.upload_failed", outcome.Message)}
	case service.SubmitRejected:
		return partials.MessageData{Kind: partials.MessageError, Text: i18n.Tf(ctx, "status.submit_error", outcome.Message)}
	default:
		return partials.MessageData{Kind: partials.MessageError, Text: i18n.Tf(ctx, "status.connection_failed", outcome.Message)}
	}
}

// bindDonation читает поля формы.
func bindDonation(form url.Values) model.Donation {
	return model.Donation{
		ItemName:     form.Get("itemName"),
		Quantity:     form.Get("quantity"),
		Unit:         form.Get("unit"),
		DonationDate: form.Get("donationDate"),
		ExpiryDate:   form.Get("expiryDate"),
		Location:     form.Get("location"),
		Handler:      form.Get("handler"),
	}
}

// recoverFields возвращает поля формы, которые удалось прочитать до ошибки разбора.
// Для multipart берутся текстовые части, целиком попавшие в prefix:
// браузер отправляет их раньше файла.
func recoverFields(r *http.Request, prefix []byte) url.Values {
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" || params["boundary"] == "" {
		return r.Form
	}

	values := url.Values{}
	mr := multipart.NewReader(bytes.NewReader(prefix), params["boundary"])
	for {
		part, err := mr.NextPart()
		if err != nil {
			return values
		}
		if part.FormName() == "" || part.FileName() != "" {
			continue
		}
		value, err := io.ReadAll(part)
		if err != nil {
			return values
		}
		values.Add(part.FormName(), string(value))
	}
}

// prefixBuffer сохраняет первые limit байт записанных данных.
type prefixBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (p *prefixBuffer) Write(b []byte) (int, error) {
	if room := p.limit - p.buf.Len(); room > 0 {
		if len(b) > room {
			p.buf.Write(b[:room])
		} else {
			p.buf.Write(b)
		}
	}
	return len(b), nil
}

func (p *prefixBuffer) Bytes() []byte {
	return p.buf.Bytes()
}

type teeBody struct {
	io.Reader
	io.Closer
}

// photoFromRequest возвращает приложенное фото или nil, если файл не выбран.
func photoFromRequest(r *http.Request) (*model.Photo, func(), error) {
	noop := func() {}
	if r.MultipartForm == nil {
		return nil, noop, nil
	}

	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}
	if header.Size == 0 {
		_ = file.Close()
		return nil, noop, nil
	}

	return &model.Photo{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}, closeFile(file), nil
}

func closeFile(f multipart.File) func() {
	return func() { _ = f.Close() }
}
