package exchangerateapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/atlasfx/fxrates/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Client talks to an exchangesrateapi.com style endpoint. All returned rates
// are denominated against the pivot currency. Every failure is wrapped in
// apperrors.ErrExternalSource so callers never see raw transport errors.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	providerName string
	logger       *slog.Logger
}

// ratesPayload mirrors the provider response body.
type ratesPayload struct {
	Rates map[string]json.Number `json:"rates"`
	Error string                 `json:"error"`
}

// NewClient creates a provider client. The timeout bounds the whole fetch
// call, including body read.
func NewClient(baseURL, apiKey, providerName string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      baseURL,
		apiKey:       apiKey,
		providerName: providerName,
		logger:       logger.With(slog.String("component", "rate_provider"), slog.String("provider", providerName)),
	}
}

// ProviderName identifies the source, recorded on every ingested record.
func (c *Client) ProviderName() string {
	return c.providerName
}

// FetchLatestRates fetches the latest pivot-denominated rates.
func (c *Client) FetchLatestRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	reqURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid provider base URL: %v", apperrors.ErrExternalSource, err)
	}
	q := reqURL.Query()
	q.Set("apiKey", c.apiKey)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %v", apperrors.ErrExternalSource, err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Info("Fetching latest rates from provider")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request to provider failed: %v", apperrors.ErrExternalSource, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read provider response: %v", apperrors.ErrExternalSource, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned status %d", apperrors.ErrExternalSource, resp.StatusCode)
	}

	var payload ratesPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode provider response: %v", apperrors.ErrExternalSource, err)
	}

	if payload.Error != "" {
		return nil, fmt.Errorf("%w: provider returned error: %s", apperrors.ErrExternalSource, payload.Error)
	}

	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("%w: provider response missing rates data", apperrors.ErrExternalSource)
	}

	rates := make(map[string]decimal.Decimal, len(payload.Rates))
	for code, raw := range payload.Rates {
		rate, err := decimal.NewFromString(raw.String())
		if err != nil {
			return nil, fmt.Errorf("%w: unparseable rate for %s: %q", apperrors.ErrExternalSource, code, raw.String())
		}
		rates[code] = rate
	}

	c.logger.Info("Fetched latest rates", slog.Int("count", len(rates)))
	return rates, nil
}
