// Пакет backend — HTTP-клиент внешнего сервиса учёта пожертвований.
// Все запросы идут на один endpoint; операция задаётся параметром action:
// add (form-encoded POST), uploadPhoto (multipart POST), recent и nearexpiry (GET).
// Поддерживает TLS с кастомным CA (DF_BACKEND_CA_CERT_PATH).
package backend

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bigkaa/donation-front/internal/domain/model"
)

// Значения action в запросах к backend.
const (
	ActionAdd         = "add"
	ActionUploadPhoto = "uploadPhoto"
	ActionRecent      = "recent"
	ActionNearExpiry  = "nearexpiry"
)

// Значения по умолчанию для запросов чтения.
const (
	DefaultRecentLimit    = 20
	DefaultNearExpiryDays = 7
)

// maxResponseBytes — ограничение размера тела ответа backend.
const maxResponseBytes = 8 << 20

// Ошибки транспортного уровня. Бизнес-ошибки (success=false) ошибкой не являются.
var (
	// ErrUnavailable — backend недоступен (сеть, DNS, отмена контекста).
	ErrUnavailable = errors.New("backend недоступен")
	// ErrBadStatus — backend вернул не-2xx статус.
	ErrBadStatus = errors.New("backend вернул неожиданный статус")
	// ErrMalformedResponse — тело ответа не является ожидаемым JSON.
	ErrMalformedResponse = errors.New("некорректный ответ backend")
)

// Options — параметры клиента.
type Options struct {
	// BaseURL — адрес endpoint backend (обязательный, http/https)
	BaseURL string
	// Timeout — таймаут запроса; 0 — без таймаута
	Timeout time.Duration
	// CACertPath — путь к CA-сертификату (пустая строка — системный пул)
	CACertPath string
	// HTTPClient — готовый клиент (тесты); если задан, Timeout и CACertPath игнорируются
	HTTPClient *http.Client
}

// Client — HTTP-клиент backend.
type Client struct {
	endpoint   *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// New создаёт клиент backend.
func New(opts Options, logger *slog.Logger) (*Client, error) {
	endpoint, err := ParseEndpoint(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}

		if opts.CACertPath != "" {
			tlsConfig, err := buildTLSConfig(opts.CACertPath)
			if err != nil {
				return nil, fmt.Errorf("загрузка CA-сертификата backend: %w", err)
			}
			httpClient.Transport = &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				TLSClientConfig: tlsConfig,
			}
			logger.Info("CA-сертификат backend добавлен в пул доверия",
				slog.String("ca_cert", opts.CACertPath),
			)
		}
	}

	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "backend_client")),
	}, nil
}

// Endpoint возвращает адрес backend.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// ParseEndpoint проверяет и разбирает адрес backend: абсолютный http/https URL с хостом.
func ParseEndpoint(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("адрес backend не задан")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("некорректный адрес backend %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("адрес backend %q: схема должна быть http или https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("адрес backend %q: не указан хост", raw)
	}
	return u, nil
}

// buildTLSConfig создаёт TLS-конфигурацию с кастомным CA.
func buildTLSConfig(caCertPath string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("чтение CA-сертификата: %w", err)
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("CA-сертификат %s не содержит PEM-блоков", caCertPath)
	}

	return &tls.Config{
		RootCAs:    caCertPool,
		MinVersion: tls.VersionTLS12,
	}, nil
}

// SubmitDonation создаёт запись о пожертвовании.
// POST form-encoded: action=add + все поля записи.
func (c *Client) SubmitDonation(ctx context.Context, donation model.Donation) (*model.SubmitResult, error) {
	form := donation.Values()
	form.Set("action", ActionAdd)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("создание запроса %s: %w", ActionAdd, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")

	var result model.SubmitResult
	if err := c.do(req, ActionAdd, &result); err != nil {
		return nil, err
	}
	c.observeResult(ActionAdd, result.Success, result.Message)
	return &result, nil
}

// UploadPhoto загружает фотографию пожертвования.
// POST multipart: action=uploadPhoto, photo (файл), itemName (backend использует в имени файла).
func (c *Client) UploadPhoto(ctx context.Context, photo model.Photo, itemName string) (*model.UploadResult, error) {
	body, contentType, err := buildPhotoBody(photo, itemName)
	if err != nil {
		return nil, fmt.Errorf("формирование multipart-запроса %s: %w", ActionUploadPhoto, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), body)
	if err != nil {
		return nil, fmt.Errorf("создание запроса %s: %w", ActionUploadPhoto, err)
	}
	req.Header.Set("Content-Type", contentType)

	var result model.UploadResult
	if err := c.do(req, ActionUploadPhoto, &result); err != nil {
		return nil, err
	}
	c.observeResult(ActionUploadPhoto, result.Success && result.URL != "", result.Message)
	return &result, nil
}

// FetchRecent запрашивает последние записи.
// GET ?action=recent&limit=N; limit <= 0 заменяется на DefaultRecentLimit.
func (c *Client) FetchRecent(ctx context.Context, limit int) (*model.ListResult, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return c.fetchList(ctx, ActionRecent, "limit", limit)
}

// FetchNearExpiry запрашивает записи, срок годности которых истекает в ближайшие days дней.
// GET ?action=nearexpiry&days=N; days <= 0 заменяется на DefaultNearExpiryDays.
func (c *Client) FetchNearExpiry(ctx context.Context, days int) (*model.ListResult, error) {
	if days <= 0 {
		days = DefaultNearExpiryDays
	}
	return c.fetchList(ctx, ActionNearExpiry, "days", days)
}

// fetchList выполняет GET-запрос списка записей.
func (c *Client) fetchList(ctx context.Context, action, param string, value int) (*model.ListResult, error) {
	u := *c.endpoint
	q := u.Query()
	q.Set("action", action)
	q.Set(param, strconv.Itoa(value))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("создание запроса %s: %w", action, err)
	}

	var result model.ListResult
	if err := c.do(req, action, &result); err != nil {
		return nil, err
	}
	c.observeResult(action, result.Success, result.Message)
	return &result, nil
}

// do отправляет запрос и декодирует JSON-ответ в out.
// Все сбои транспорта, статуса и разбора возвращаются как ошибки с ErrUnavailable,
// ErrBadStatus или ErrMalformedResponse.
func (c *Client) do(req *http.Request, action string, out any) error {
	start := time.Now()
	defer func() {
		backendRequestDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		backendRequestsTotal.WithLabelValues(action, outcomeUnavailable).Inc()
		c.logger.Warn("Backend недоступен",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: запрос %s: %w", ErrUnavailable, action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		backendRequestsTotal.WithLabelValues(action, outcomeUnavailable).Inc()
		return fmt.Errorf("%w: чтение ответа %s: %w", ErrUnavailable, action, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		backendRequestsTotal.WithLabelValues(action, outcomeBadStatus).Inc()
		c.logger.Warn("Backend вернул неожиданный статус",
			slog.String("action", action),
			slog.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%w: %s: %d %s", ErrBadStatus, action, resp.StatusCode, snippet(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		backendRequestsTotal.WithLabelValues(action, outcomeMalformed).Inc()
		c.logger.Warn("Некорректный ответ backend",
			slog.String("action", action),
			slog.String("content_type", resp.Header.Get("Content-Type")),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %s: %w", ErrMalformedResponse, action, err)
	}

	return nil
}

// observeResult учитывает бизнес-результат успешно декодированного ответа.
func (c *Client) observeResult(action string, success bool, message model.Text) {
	if success {
		backendRequestsTotal.WithLabelValues(action, outcomeSuccess).Inc()
		c.logger.Debug("Запрос к backend выполнен", slog.String("action", action))
		return
	}
	backendRequestsTotal.WithLabelValues(action, outcomeRejected).Inc()
	c.logger.Info("Backend отклонил запрос",
		slog.String("action", action),
		slog.String("message", message.String()),
	)
}

// buildPhotoBody собирает multipart-тело запроса uploadPhoto.
func buildPhotoBody(photo model.Photo, itemName string) (io.Reader, string, error) {
	if photo.Content == nil {
		return nil, "", errors.New("пустой файл фотографии")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("action", ActionUploadPhoto); err != nil {
		return nil, "", err
	}

	filename := photo.Filename
	if filename == "" {
		filename = "photo"
	}
	contentType := photo.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename="%s"`, escapeQuotes(filename)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, photo.Content); err != nil {
		return nil, "", fmt.Errorf("чтение файла фотографии: %w", err)
	}

	if err := mw.WriteField("itemName", itemName); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return &buf, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// snippet возвращает начало тела ответа для текста ошибки.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
