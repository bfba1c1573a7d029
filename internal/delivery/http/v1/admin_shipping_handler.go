package v1

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"motoparts-backend/internal/domain"
	"motoparts-backend/internal/usecase"
	"motoparts-backend/pkg/utils"
)

// RuleService is the admin rule store.
type RuleService interface {
	List(ctx context.Context) ([]domain.ShippingRule, error)
	Get(ctx context.Context, id string) (*domain.ShippingRule, error)
	Create(ctx context.Context, in domain.ShippingRuleInput) (*domain.ShippingRule, error)
	Update(ctx context.Context, id string, patch domain.ShippingRulePatch) (*domain.ShippingRule, error)
	Delete(ctx context.Context, id string) error
}

// RuleExporter renders and publishes the rule table.
type RuleExporter interface {
	Render(ctx context.Context) (*usecase.RuleExport, error)
	Publish(ctx context.Context) (string, error)
}

// AdminShippingHandler serves shipping rule management. Routes sit behind RequireAdmin.
type AdminShippingHandler struct {
	rules    RuleService
	exporter RuleExporter
}

func NewAdminShippingHandler(rules RuleService, exporter RuleExporter) *AdminShippingHandler {
	return &AdminShippingHandler{rules: rules, exporter: exporter}
}

type ruleResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	States       []string  `json:"states"`
	MinWeight    float64   `json:"minWeight"`
	MaxWeight    float64   `json:"maxWeight"`
	Price        string    `json:"price"`
	DeliveryDays int       `json:"deliveryDays"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func newRuleResponse(r *domain.ShippingRule) ruleResponse {
	return ruleResponse{
		ID:           r.ID,
		Name:         r.Name,
		States:       r.States,
		MinWeight:    r.MinWeight,
		MaxWeight:    r.MaxWeight,
		Price:        r.Price.StringFixed(2),
		DeliveryDays: r.DeliveryDays,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// ListRules GET /api/v1/admin/shipping/rules
func (h *AdminShippingHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.rules.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]ruleResponse, 0, len(rules))
	for i := range rules {
		out = append(out, newRuleResponse(&rules[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

// GetRule GET /api/v1/admin/shipping/rules/{id}
func (h *AdminShippingHandler) GetRule(w http.ResponseWriter, r *http.Request) {
	rule, err := h.rules.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, newRuleResponse(rule))
}

// CreateRule POST /api/v1/admin/shipping/rules
func (h *AdminShippingHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var in domain.ShippingRuleInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rule, err := h.rules.Create(r.Context(), in)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/admin/shipping/rules/"+rule.ID)
	utils.WriteJSON(w, http.StatusCreated, newRuleResponse(rule))
}

// UpdateRule PATCH /api/v1/admin/shipping/rules/{id}
func (h *AdminShippingHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	var patch domain.ShippingRulePatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rule, err := h.rules.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, newRuleResponse(rule))
}

// DeleteRule DELETE /api/v1/admin/shipping/rules/{id}
func (h *AdminShippingHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := h.rules.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadRules GET /api/v1/admin/shipping/rules/export
func (h *AdminShippingHandler) DownloadRules(w http.ResponseWriter, r *http.Request) {
	export, err := h.exporter.Render(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Data)
}

// PublishRules POST /api/v1/admin/shipping/rules/export
func (h *AdminShippingHandler) PublishRules(w http.ResponseWriter, r *http.Request) {
	url, err := h.exporter.Publish(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]string{"url": url})
}
