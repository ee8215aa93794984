package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"farmiq/internal/middleware"
	"farmiq/internal/models"
	"farmiq/internal/observability"
)

// Fetcher retrieves prices from the upstream open-data API.
type Fetcher interface {
	FetchPrices(ctx context.Context, q Query) (*PriceResponse, error)
}

// Client talks to the government open-data commodity price API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ Fetcher = (*Client)(nil)

// NewClient creates a reusable upstream client with a fixed request timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// upstreamRecord mirrors the open-data record shape; price fields arrive as
// strings, sometimes with thousands separators.
type upstreamRecord struct {
	State       string `json:"state"`
	District    string `json:"district"`
	Market      string `json:"market"`
	Commodity   string `json:"commodity"`
	Variety     string `json:"variety"`
	ArrivalDate string `json:"arrival_date"`
	MinPrice    string `json:"min_price"`
	MaxPrice    string `json:"max_price"`
	ModalPrice  string `json:"modal_price"`
}

type upstreamResponse struct {
	Total   int              `json:"total"`
	Count   int              `json:"count"`
	Offset  any              `json:"offset"` // upstream sends this as string or number
	Limit   any              `json:"limit"`
	Records []upstreamRecord `json:"records"`
}

// FetchPrices performs one upstream request and normalizes the result.
// Failures are returned as *models.UpstreamError with the status this service
// should respond with: 429 -> 503 (+retry_after), 5xx and unexpected 4xx ->
// 502, timeout -> 504, anything else -> 500.
func (c *Client) FetchPrices(ctx context.Context, q Query) (*PriceResponse, error) {
	ctx, span := observability.TraceUpstreamCall(ctx, "market", "fetch_prices")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(q), nil)
	if err != nil {
		return nil, models.NewUpstreamUnknown(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		if isTimeout(err) {
			middleware.UpstreamFailures.WithLabelValues("market", "timeout").Inc()
			return nil, models.NewUpstreamTimeout(err)
		}
		middleware.UpstreamFailures.WithLabelValues("market", "transport").Inc()
		return nil, models.NewUpstreamUnknown(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusTooManyRequests:
		middleware.UpstreamFailures.WithLabelValues("market", "rate_limited").Inc()
		return nil, models.NewUpstreamRateLimited(parseRetryAfter(resp.Header.Get("Retry-After")))
	default:
		middleware.UpstreamFailures.WithLabelValues("market", "status").Inc()
		return nil, models.NewUpstreamBadGateway(fmt.Errorf("upstream returned status %d", resp.StatusCode))
	}

	var raw upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		middleware.UpstreamFailures.WithLabelValues("market", "decode").Inc()
		return nil, models.NewUpstreamBadGateway(fmt.Errorf("decode upstream response: %w", err))
	}

	out := &PriceResponse{
		Records: make([]Record, 0, len(raw.Records)),
		Total:   raw.Total,
		Offset:  q.Offset,
		Limit:   q.Limit,
	}
	for _, r := range raw.Records {
		out.Records = append(out.Records, Record{
			State:       r.State,
			District:    r.District,
			Market:      r.Market,
			Commodity:   r.Commodity,
			Variety:     r.Variety,
			ArrivalDate: r.ArrivalDate,
			MinPrice:    ParsePrice(r.MinPrice),
			MaxPrice:    ParsePrice(r.MaxPrice),
			ModalPrice:  ParsePrice(r.ModalPrice),
		})
	}
	return out, nil
}

func (c *Client) buildURL(q Query) string {
	params := url.Values{}
	params.Set("api-key", c.apiKey)
	params.Set("format", "json")
	params.Set("offset", strconv.Itoa(q.Offset))
	params.Set("limit", strconv.Itoa(q.Limit))
	if q.State != "" {
		params.Set("filters[state.keyword]", q.State)
	}
	if q.District != "" {
		params.Set("filters[district]", q.District)
	}
	if q.Commodity != "" {
		params.Set("filters[commodity]", q.Commodity)
	}
	return c.baseURL + "?" + params.Encode()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// parseRetryAfter reads a Retry-After header given in seconds. Absent or
// malformed values default to 60.
func parseRetryAfter(raw string) int {
	if raw == "" {
		return 60
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 60
	}
	return n
}
