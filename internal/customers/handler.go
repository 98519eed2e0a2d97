package customers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/customer-profile/internal/observability"
	"github.com/odyssey-erp/customer-profile/internal/platform/httpx"
)

const maxBodyBytes = 1 << 20

// Handler serves the customer registry endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	metrics *observability.Metrics
}

func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, metrics: metrics}
}

// MountRoutes registers the customer routes on r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/customers/{id}", h.show)
	r.Patch("/customers/{id}", h.update)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	customer, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get customer", id, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.metrics.RecordCustomerUpdate(http.StatusBadRequest)
		httpx.RespondError(w, err)
		return
	}
	if _, err := h.service.Get(r.Context(), id); err != nil {
		h.metrics.RecordCustomerUpdate(httpx.StatusFor(err))
		h.fail(w, "get customer", id, err)
		return
	}
	req, err := decodeUpdate(w, r)
	if err == nil {
		var customer *Customer
		customer, err = h.service.Update(r.Context(), id, req)
		if err == nil {
			h.metrics.RecordCustomerUpdate(http.StatusOK)
			httpx.JSON(w, http.StatusOK, customer)
			return
		}
	}
	h.metrics.RecordCustomerUpdate(httpx.StatusFor(err))
	h.fail(w, "update customer", id, err)
}

func (h *Handler) fail(w http.ResponseWriter, op string, id int64, err error) {
	if httpx.StatusFor(err) == http.StatusInternalServerError {
		h.logger.Error(op+" failed", slog.Int64("customer_id", id), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func decodeUpdate(w http.ResponseWriter, r *http.Request) (UpdateCustomerRequest, error) {
	var req UpdateCustomerRequest
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return req, httpx.Errorf(httpx.ErrInvalidArgument, "Error reading request data")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return req, httpx.Errorf(httpx.ErrInvalidArgument, "No JSON data provided")
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, httpx.Errorf(httpx.ErrInvalidArgument, "Invalid JSON data")
	}
	return req, nil
}
