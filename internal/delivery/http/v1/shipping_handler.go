package v1

import (
	"context"
	"net/http"

	"motoparts-backend/internal/domain"
	"motoparts-backend/pkg/utils"
)

// RateResolver is the checkout-facing side of the shipping rate usecase.
type RateResolver interface {
	EstimateForCart(ctx context.Context, destination string, lines []domain.CartLine) (float64, []domain.ShippingOption, error)
}

type ShippingHandler struct {
	rates RateResolver
}

func NewShippingHandler(rates RateResolver) *ShippingHandler {
	return &ShippingHandler{rates: rates}
}

type quoteRequest struct {
	DestinationPostalCode string            `json:"destinationPostalCode"`
	Items                 []domain.CartLine `json:"items"`
}

type optionResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Price        string              `json:"price"`
	DeliveryDays int                 `json:"deliveryDays"`
	Source       domain.OptionSource `json:"source"`
}

type quoteResponse struct {
	WeightKg float64          `json:"weightKg"`
	Options  []optionResponse `json:"options"`
}

func newQuoteResponse(weight float64, opts []domain.ShippingOption) quoteResponse {
	out := make([]optionResponse, 0, len(opts))
	for _, o := range opts {
		out = append(out, optionResponse{
			ID:           o.ID,
			Name:         o.Name,
			Price:        o.Price.StringFixed(2),
			DeliveryDays: o.DeliveryDays,
			Source:       o.Source,
		})
	}
	return quoteResponse{WeightKg: weight, Options: out}
}

// Quote prices the shipment of a cart.
// POST /api/v1/shipping/quote
func (h *ShippingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	weight, opts, err := h.rates.EstimateForCart(r.Context(), req.DestinationPostalCode, req.Items)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, newQuoteResponse(weight, opts))
}

// Estimate prices a single product page shipment.
// GET /api/v1/shipping/estimate?postalCode=01310100&weight=1.2&quantity=2
func (h *ShippingHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	line := domain.CartLine{Quantity: 1}
	if raw := q.Get("quantity"); raw != "" {
		quantity, ok := utils.ParseInt(raw)
		if !ok {
			utils.WriteError(w, http.StatusBadRequest, "quantity: must be an integer")
			return
		}
		line.Quantity = quantity
	}
	if raw := q.Get("weight"); raw != "" {
		weight, ok := utils.ParseFloat(raw)
		if !ok {
			utils.WriteError(w, http.StatusBadRequest, "weight: must be a number")
			return
		}
		line.Weight = weight
	}

	weight, opts, err := h.rates.EstimateForCart(r.Context(), q.Get("postalCode"), []domain.CartLine{line})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, newQuoteResponse(weight, opts))
}
