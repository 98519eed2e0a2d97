package risk

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/customer-profile/internal/customers"
	"github.com/odyssey-erp/customer-profile/internal/platform/httpx"
)

// Handler serves the risk endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the risk routes on r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/customers/{id}/risk-profile", h.profile)
	r.Get("/risk-assessment/age-range", h.ageRange)
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	id, err := customers.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	profile, err := h.service.ProfileFor(r.Context(), id)
	if err != nil {
		if httpx.StatusFor(err) == http.StatusInternalServerError {
			h.logger.Error("risk profile failed", slog.Int64("customer_id", id), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}

func (h *Handler) ageRange(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("age"))
	if raw == "" {
		httpx.Error(w, http.StatusBadRequest, "Missing required parameter 'age'")
		return
	}
	age, err := strconv.Atoi(raw)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Age must be a valid integer")
		return
	}
	payload, err := AssessAge(age)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, payload)
}
