package stub

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/quickbite/ordersync/internal/order"
)

// Handler serves the order authority's REST contract.
type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Routes builds the authority's router.
func (h *Handler) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Get("/api/orders", h.listOrders)
	r.Post("/api/orders", h.createOrder)
	r.Get("/api/orders/{id}", h.getOrder)
	r.Patch("/api/orders/{id}/status", h.updateStatus)
	return r
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.repo.List())
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Customer order.Customer `json:"customer"`
		Items    []order.Item   `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "order must contain at least one item")
		return
	}

	o := h.repo.Create(req.Customer, req.Items)
	log.Info().Str("order_id", o.ID).Str("order_number", o.OrderNumber).Msg("order created")
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	o, ok := h.repo.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Status order.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.repo.UpdateStatus(id, req.Status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		if errors.Is(err, ErrInvalidTransition) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		log.Info().Msgf("Failed to update order status: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update order status")
		return
	}

	log.Info().Str("order_id", o.ID).Str("status", o.Status.String()).Msg("order status updated")
	writeJSON(w, http.StatusOK, o)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Info().Msgf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
