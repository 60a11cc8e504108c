package handlers

import (
	"delivery-scenario-service/internal/api/dto"
	"delivery-scenario-service/internal/ports"
	"net/http"
	"strings"
	"time"
)

// OrderHandler exposes read-only order retrieval endpoints.
type OrderHandler struct {
	Repo ports.OrderRepository
}

// List serves GET /orders?city=...&date=YYYY-MM-DD.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.Repo == nil {
		writeError(w, r, http.StatusServiceUnavailable, "order store is not configured")
		return
	}

	city := strings.TrimSpace(r.URL.Query().Get("city"))
	date, err := time.Parse(time.DateOnly, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	orders, err := h.Repo.ListOrders(r.Context(), city, date)
	if err != nil {
		writePlanError(w, r, "orders.List", err)
		return
	}

	res := dto.ListOrdersResponse{
		City:   city,
		Date:   date.Format(time.DateOnly),
		Orders: make([]dto.Order, 0, len(orders)),
	}
	for _, o := range orders {
		res.Orders = append(res.Orders, dto.OrderFromRecord(o))
	}

	writeJSON(w, r, http.StatusOK, res)
}
