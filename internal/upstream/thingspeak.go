package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"farmiq/internal/middleware"
	"farmiq/internal/models"
	"farmiq/internal/observability"
)

// SensorFeed is a ThingSpeak channel feed. Field1..Field4 carry the sensor
// values this deployment uses: temperature, humidity, soil moisture, light.
type SensorFeed struct {
	Channel SensorChannel `json:"channel"`
	Entries []SensorEntry `json:"feeds"`
}

// SensorChannel describes the channel and its field labels.
type SensorChannel struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Field1 string `json:"field1"`
	Field2 string `json:"field2"`
	Field3 string `json:"field3"`
	Field4 string `json:"field4"`
}

// SensorEntry is one reading; absent fields stay nil.
type SensorEntry struct {
	CreatedAt time.Time `json:"created_at"`
	EntryID   int       `json:"entry_id"`
	Field1    *string   `json:"field1"`
	Field2    *string   `json:"field2"`
	Field3    *string   `json:"field3"`
	Field4    *string   `json:"field4"`
}

// ThingSpeakClient reads sensor feeds from the ThingSpeak cloud.
type ThingSpeakClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewThingSpeakClient creates a reusable ThingSpeak client.
func NewThingSpeakClient(baseURL, apiKey string, timeout time.Duration) *ThingSpeakClient {
	return &ThingSpeakClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// ChannelFeed fetches the most recent `results` readings of a channel.
func (c *ThingSpeakClient) ChannelFeed(ctx context.Context, channelID string, results int) (*SensorFeed, error) {
	ctx, span := observability.TraceUpstreamCall(ctx, "thingspeak", "channel_feed")
	defer span.End()

	params := url.Values{}
	params.Set("results", strconv.Itoa(results))
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	endpoint := fmt.Sprintf("%s/channels/%s/feeds.json?%s", c.baseURL, url.PathEscape(channelID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, models.NewUpstreamUnknown(err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		if isTimeoutErr(err) {
			middleware.UpstreamFailures.WithLabelValues("thingspeak", "timeout").Inc()
			return nil, models.NewUpstreamTimeout(err)
		}
		middleware.UpstreamFailures.WithLabelValues("thingspeak", "transport").Inc()
		return nil, models.NewUpstreamUnknown(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		middleware.UpstreamFailures.WithLabelValues("thingspeak", "rate_limited").Inc()
		return nil, models.NewUpstreamRateLimited(parseRetryAfterHeader(resp.Header.Get("Retry-After")))
	default:
		middleware.UpstreamFailures.WithLabelValues("thingspeak", "status").Inc()
		return nil, models.NewUpstreamBadGateway(fmt.Errorf("thingspeak returned status %d", resp.StatusCode))
	}

	var feed SensorFeed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		middleware.UpstreamFailures.WithLabelValues("thingspeak", "decode").Inc()
		return nil, models.NewUpstreamBadGateway(fmt.Errorf("decode thingspeak response: %w", err))
	}
	return &feed, nil
}

func parseRetryAfterHeader(raw string) int {
	if raw == "" {
		return 60
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 60
	}
	return n
}
