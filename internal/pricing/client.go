// Package pricing fetches lowest listing prices from the upstream market API.
package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/mswatii/cs2-craftcalc/internal/metrics"
	"github.com/mswatii/cs2-craftcalc/internal/models"
)

const (
	DefaultBaseURL = "https://open.steamdt.com"
	PricePath      = "/open/cs2/v1/price/single"
	DefaultTimeout = 10 * time.Second
)

// ErrPriceUnavailable covers every way a lookup can fail to produce a price
var ErrPriceUnavailable = errors.New("price unavailable")

// Lookup returns the lowest current sell price of an item
type Lookup interface {
	LowestPrice(ctx context.Context, marketHash string) (float64, error)
}

// Client queries the single-item price endpoint
type Client struct {
	http    *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another host
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying fasthttp client
func WithHTTPClient(hc *fasthttp.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a price API client authenticated with apiKey
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		http: &fasthttp.Client{
			Name:            "cs2-craftcalc",
			MaxConnsPerHost: 16,
		},
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LowestPrice returns the minimum positive sell price across all platforms
func (c *Client) LowestPrice(ctx context.Context, marketHash string) (float64, error) {
	start := time.Now()
	price, err := c.lowestPrice(ctx, marketHash)
	if err != nil {
		metrics.ObservePriceLookup(metrics.OutcomeUnavailable, time.Since(start))
		return 0, fmt.Errorf("%w: %s: %w", ErrPriceUnavailable, marketHash, err)
	}
	metrics.ObservePriceLookup(metrics.OutcomeSuccess, time.Since(start))
	return price, nil
}

func (c *Client) lowestPrice(ctx context.Context, marketHash string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + PricePath)
	req.URI().QueryArgs().Set("marketHashName", marketHash)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return 0, fmt.Errorf("non-200 status code: %d", resp.StatusCode())
	}

	var body models.PriceResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}
	if !body.Success {
		return 0, fmt.Errorf("upstream error %d: %s", body.ErrorCode, body.ErrorMsg)
	}
	price, ok := body.LowestSellPrice()
	if !ok {
		return 0, errors.New("no listings with a sell price")
	}
	return price, nil
}
