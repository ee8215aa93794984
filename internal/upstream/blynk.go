package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"farmiq/internal/middleware"
	"farmiq/internal/models"
	"farmiq/internal/observability"
)

// LEDPin is the virtual pin the field-unit indicator LED is wired to.
const LEDPin = "V0"

// BlynkClient drives IoT hardware through the Blynk cloud HTTP API.
type BlynkClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewBlynkClient creates a reusable Blynk client.
func NewBlynkClient(baseURL, token string, timeout time.Duration) *BlynkClient {
	return &BlynkClient{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// SetLED switches the indicator LED on or off.
func (c *BlynkClient) SetLED(ctx context.Context, on bool) error {
	value := "0"
	if on {
		value = "1"
	}
	return c.update(ctx, LEDPin, value)
}

func (c *BlynkClient) update(ctx context.Context, pin, value string) error {
	ctx, span := observability.TraceUpstreamCall(ctx, "blynk", "update")
	defer span.End()

	params := url.Values{}
	params.Set("token", c.token)
	params.Set(pin, value)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/external/api/update?"+params.Encode(), nil)
	if err != nil {
		return models.NewUpstreamUnknown(err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		if isTimeoutErr(err) {
			middleware.UpstreamFailures.WithLabelValues("blynk", "timeout").Inc()
			return models.NewUpstreamTimeout(err)
		}
		middleware.UpstreamFailures.WithLabelValues("blynk", "transport").Inc()
		return models.NewUpstreamUnknown(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		middleware.UpstreamFailures.WithLabelValues("blynk", "status").Inc()
		return models.NewUpstreamBadGateway(fmt.Errorf("blynk returned status %d", resp.StatusCode))
	}
	return nil
}
