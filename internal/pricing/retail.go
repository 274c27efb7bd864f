package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("pricing-retail")

const retailAPIEndpoint = "https://prices.azure.com/api/retail/prices"

// RetailPrice is a single item from the Azure Retail Prices API.
type RetailPrice struct {
	CurrencyCode  string  `json:"currencyCode"`
	RetailPrice   float64 `json:"retailPrice"`
	UnitPrice     float64 `json:"unitPrice"`
	ArmRegionName string  `json:"armRegionName"`
	MeterName     string  `json:"meterName"`
	ProductName   string  `json:"productName"`
	SKUName       string  `json:"skuName"`
	ServiceName   string  `json:"serviceName"`
	UnitOfMeasure string  `json:"unitOfMeasure"`
	Type          string  `json:"type"`
}

type retailResponse struct {
	Items        []RetailPrice `json:"Items"`
	NextPageLink string        `json:"NextPageLink"`
	Count        int           `json:"Count"`
}

// RetailClient queries the public Azure Retail Prices API. The API is
// unauthenticated; only the OData filter is caller-controlled.
type RetailClient struct {
	httpClient *http.Client
	endpoint   string
}

// NewRetailClient creates a client for the Azure Retail Prices API
func NewRetailClient() *RetailClient {
	return &RetailClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   retailAPIEndpoint,
	}
}

// Query fetches retail prices matching the given OData filter, for
// example "serviceName eq 'Virtual Machines' and armRegionName eq 'eastus'".
// At most maxItems results are returned; pagination stops early once
// the limit is reached.
func (c *RetailClient) Query(ctx context.Context, filter string, maxItems int) ([]RetailPrice, error) {
	ctx, span := tracer.Start(ctx, "pricing.retail_query")
	defer span.End()
	span.SetAttributes(attribute.String("filter", filter))

	if maxItems <= 0 || maxItems > 200 {
		maxItems = 200
	}

	next := c.endpoint + "?currencyCode='USD'&$filter=" + url.QueryEscape(filter)
	var items []RetailPrice

	for next != "" && len(items) < maxItems {
		page, err := c.fetchPage(ctx, next)
		if err != nil {
			log.Printf(`{"level":"error","component":"pricing","msg":"retail price query failed","error":"%v"}`, err)
			return nil, err
		}
		items = append(items, page.Items...)
		next = page.NextPageLink
	}

	if len(items) > maxItems {
		items = items[:maxItems]
	}
	span.SetAttributes(attribute.Int("items", len(items)))
	return items, nil
}

func (c *RetailClient) fetchPage(ctx context.Context, pageURL string) (*retailResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build retail prices request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query retail prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("retail prices API returned status %d", resp.StatusCode)
	}

	var page retailResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode retail prices response: %w", err)
	}
	return &page, nil
}
