package melhorenvio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"motoparts-backend/internal/domain"
	"motoparts-backend/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

const calculatePath = "/api/v2/me/shipment/calculate"

// maxErrorBody caps how much of a failed response is kept for the error message.
const maxErrorBody = 512

// Client quotes shipments against the Melhor Envio calculate endpoint.
type Client struct {
	baseURL    string
	userAgent  string
	tokens     domain.TokenProvider
	httpClient *http.Client
}

// NewClient builds a client. Deadlines come from the caller's context; the http.Client
// timeout is only a backstop.
func NewClient(baseURL, userAgent string, tokens domain.TokenProvider, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  userAgent,
		tokens:     tokens,
		httpClient: httpClient,
	}
}

type postalRef struct {
	PostalCode string `json:"postal_code"`
}

type product struct {
	ID             string  `json:"id"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	Length         float64 `json:"length"`
	Weight         float64 `json:"weight"`
	InsuranceValue float64 `json:"insurance_value"`
	Quantity       int     `json:"quantity"`
}

type calculateRequest struct {
	From     postalRef `json:"from"`
	To       postalRef `json:"to"`
	Products []product `json:"products"`
	Services string    `json:"services,omitempty"`
}

type company struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type quoteEntry struct {
	ID                 json.Number      `json:"id"`
	Name               string           `json:"name"`
	Price              *decimal.Decimal `json:"price"`
	CustomPrice        *decimal.Decimal `json:"custom_price"`
	DeliveryTime       int              `json:"delivery_time"`
	CustomDeliveryTime int              `json:"custom_delivery_time"`
	Error              string           `json:"error"`
	Company            company          `json:"company"`
}

// Quote performs a single calculate call. Every failure wraps domain.ErrAggregatorUnavailable.
func (c *Client) Quote(ctx context.Context, req domain.QuoteRequest) ([]domain.CarrierQuote, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fault("token: %w", err)
	}

	body, err := json.Marshal(buildRequest(req))
	if err != nil {
		return nil, fault("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+calculatePath, bytes.NewReader(body))
	if err != nil {
		return nil, fault("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fault("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fault("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var entries []quoteEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fault("decode response: %w", err)
	}

	quotes, err := mapEntries(entries)
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Debug().
		Int("entries", len(entries)).
		Int("quotes", len(quotes)).
		Msg("melhorenvio quote")
	return quotes, nil
}

func buildRequest(req domain.QuoteRequest) calculateRequest {
	qty := req.Quantity
	if qty < 1 {
		qty = 1
	}
	return calculateRequest{
		From: postalRef{PostalCode: req.OriginPostalCode},
		To:   postalRef{PostalCode: req.DestinationPostalCode},
		Products: []product{{
			ID:             "cart",
			Width:          req.Package.WidthCm,
			Height:         req.Package.HeightCm,
			Length:         req.Package.LengthCm,
			Weight:         req.WeightKg,
			InsuranceValue: req.InsuranceValue.InexactFloat64(),
			Quantity:       qty,
		}},
		Services: strings.Join(req.Services, ","),
	}
}

// mapEntries skips services the aggregator reports as unavailable for the route.
// A non-error entry without a usable price or lead time makes the whole payload malformed.
func mapEntries(entries []quoteEntry) ([]domain.CarrierQuote, error) {
	quotes := make([]domain.CarrierQuote, 0, len(entries))
	for i, e := range entries {
		if e.Error != "" {
			continue
		}
		price := e.Price
		if e.CustomPrice != nil {
			price = e.CustomPrice
		}
		days := e.DeliveryTime
		if e.CustomDeliveryTime > 0 {
			days = e.CustomDeliveryTime
		}
		if price == nil || price.IsNegative() || days < 1 {
			return nil, fault("malformed quote at index %d", i)
		}
		quotes = append(quotes, domain.CarrierQuote{
			ServiceID:    serviceID(e.ID, i),
			Service:      e.Name,
			Company:      e.Company.Name,
			Price:        *price,
			DeliveryDays: days,
		})
	}
	return quotes, nil
}

func serviceID(id json.Number, idx int) string {
	if s := id.String(); s != "" {
		return s
	}
	return "idx-" + strconv.Itoa(idx)
}

func fault(format string, args ...any) error {
	return fmt.Errorf("%w: %w", domain.ErrAggregatorUnavailable, fmt.Errorf(format, args...))
}
