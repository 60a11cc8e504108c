package handlers

import (
	"context"
	"delivery-scenario-service/internal/api/dto"
	"delivery-scenario-service/internal/domain"
	"delivery-scenario-service/internal/ports"
	"delivery-scenario-service/internal/services"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ScenarioPlanner runs one scenario comparison.
type ScenarioPlanner interface {
	Plan(ctx context.Context, req services.PlanRequest) (*domain.ComparisonResult, error)
}

type CompareHandler struct {
	Planner ScenarioPlanner
	// Repo loads orders when the request names a city and date instead of
	// listing them inline. It may be nil.
	Repo ports.OrderRepository
}

// Compare evaluates the candidate driver counts for one order batch and
// returns every scenario plus the recommendation.
func (h *CompareHandler) Compare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.CompareRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	orders := make([]domain.OrderRecord, 0, len(req.Orders))
	for _, o := range req.Orders {
		orders = append(orders, o.Record())
	}

	if len(orders) == 0 && strings.TrimSpace(req.Date) != "" {
		if h.Repo == nil {
			writeError(w, r, http.StatusBadRequest, "orders are required (no order store configured)")
			return
		}
		date, err := time.Parse(time.DateOnly, req.Date)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		orders, err = h.Repo.ListOrders(r.Context(), req.City, date)
		if err != nil {
			writePlanError(w, r, "compare.ListOrders", err)
			return
		}
	}

	planReq := services.PlanRequest{
		Orders:     orders,
		Candidates: req.Candidates,
		Objective:  domain.Objective(req.Objective),
		Metric:     domain.CostMetric(req.Metric),
	}
	if req.Depot != nil {
		planReq.Depot = req.Depot.Domain()
		if planReq.Depot == nil {
			writePlanError(w, r, "compare.Depot", fmt.Errorf("depot needs both lon and lat: %w", domain.ErrInvalidDepot))
			return
		}
	}
	if req.DepartAt != nil {
		planReq.DepartAt = *req.DepartAt
	}

	result, err := h.Planner.Plan(r.Context(), planReq)
	if err != nil {
		writePlanError(w, r, "compare.Plan", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewCompareResponse(result))
}
