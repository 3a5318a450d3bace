package handlers

import (
	"log/slog"
	"net/http"

	"github.com/bigkaa/donation-front/internal/service"
	"github.com/bigkaa/donation-front/internal/ui/pages"
	"github.com/bigkaa/donation-front/internal/ui/pages/partials"
)

// RecentHandler — обработчик страницы последних пожертвований.
type RecentHandler struct {
	service *service.ListingService
	site    pages.Site
	logger  *slog.Logger
}

// NewRecentHandler создаёт новый RecentHandler.
func NewRecentHandler(svc *service.ListingService, site pages.Site, logger *slog.Logger) *RecentHandler {
	return &RecentHandler{
		service: svc,
		site:    site,
		logger:  logger.With(slog.String("component", "ui.recent")),
	}
}

// HandlePage обрабатывает GET /recent?limit=N — полная страница со списком.
func (h *RecentHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	view := h.service.Recent(r.Context(), queryInt(r, "limit"))
	render(w, r, h.logger, "страницы recent", pages.RecentPage(pages.ListPageData{Site: h.site, View: view}))
}

// HandleListPartial обрабатывает GET /partials/recent-list?limit=N — только #recent-list.
func (h *RecentHandler) HandleListPartial(w http.ResponseWriter, r *http.Request) {
	view := h.service.Recent(r.Context(), queryInt(r, "limit"))
	render(w, r, h.logger, "списка recent", partials.RecentList(view))
}

// NearExpiryHandler — обработчик страницы товаров с истекающим сроком.
type NearExpiryHandler struct {
	service *service.ListingService
	site    pages.Site
	logger  *slog.Logger
}

// NewNearExpiryHandler создаёт новый NearExpiryHandler.
func NewNearExpiryHandler(svc *service.ListingService, site pages.Site, logger *slog.Logger) *NearExpiryHandler {
	return &NearExpiryHandler{
		service: svc,
		site:    site,
		logger:  logger.With(slog.String("component", "ui.near_expiry")),
	}
}

// HandlePage обрабатывает GET /near-expiry?days=N.
func (h *NearExpiryHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	view := h.service.NearExpiry(r.Context(), queryInt(r, "days"))
	render(w, r, h.logger, "страницы near-expiry", pages.NearExpiryPage(pages.ListPageData{Site: h.site, View: view}))
}

// HandleListPartial обрабатывает GET /partials/near-expiry-list?days=N.
func (h *NearExpiryHandler) HandleListPartial(w http.ResponseWriter, r *http.Request) {
	view := h.service.NearExpiry(r.Context(), queryInt(r, "days"))
	render(w, r, h.logger, "списка near-expiry", partials.NearExpiryList(view))
}
