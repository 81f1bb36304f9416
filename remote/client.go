// Package remote is the client of the portfolio backend: lots, valuation,
// watchlist and tracked sectors.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client handles HTTP requests to the portfolio backend.
type Client struct {
	BaseURL    string
	Currency   string   // currency of every amount returned by the backend
	PricePaths []string // JSON paths tried in order to read a quote price
	HTTPClient *http.Client

	log zerolog.Logger
}

// DefaultPricePaths locate the price in a quote: the backend MarketQuote, then
// a raw Yahoo quote response.
var DefaultPricePaths = []string{"$.price", "$.quoteResponse.result[0].regularMarketPrice"}

// New returns a client of the backend at baseURL.
func New(baseURL, currency string, log zerolog.Logger) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		Currency:   currency,
		PricePaths: DefaultPricePaths,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		log:        log.With().Str("component", "remote").Logger(),
	}
}

// APIError is a non 2xx response of the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("backend error (%d): %s", e.StatusCode, msg)
}

// IsNotFound returns true if the error is a 404 Not Found.
func (e *APIError) IsNotFound() bool { return e.StatusCode == http.StatusNotFound }

// errorResponse is the body of a backend error.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// checkResponse returns an APIError for error responses.
func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		return apiErr
	}
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}
	apiErr.Message = errResp.Message
	if errResp.Error != "" && apiErr.Message == "" {
		apiErr.Message = errResp.Error
	}
	return apiErr
}

// do performs a request and decodes the JSON response into target, if not nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, target any) error {
	addr := c.BaseURL + path
	if len(query) > 0 {
		addr += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, addr, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("backend")

	if err := checkResponse(resp); err != nil {
		return err
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
