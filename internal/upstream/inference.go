// Package upstream contains HTTP clients for the third-party services FarmIQ
// proxies: the crop-disease inference server, ThingSpeak and Blynk.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"time"

	"farmiq/internal/middleware"
	"farmiq/internal/models"
	"farmiq/internal/observability"
)

// Prediction is the inference server's classification result.
type Prediction struct {
	ClassName  string            `json:"class_name"`
	Confidence float64           `json:"confidence"`
	Top3       []PredictionClass `json:"top_3"`
}

// PredictionClass is one entry of the top-3 ranking.
type PredictionClass struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

// InferenceClient talks to the external image-inference service.
type InferenceClient struct {
	baseURL string
	http    *http.Client
}

// NewInferenceClient creates a reusable inference client. Image uploads can be
// slow to score, so the timeout is doubled relative to the other upstreams.
func NewInferenceClient(baseURL string, timeout time.Duration) *InferenceClient {
	return &InferenceClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 2 * timeout},
	}
}

// PredictDisease submits a crop image to /predict.
func (c *InferenceClient) PredictDisease(ctx context.Context, filename string, image []byte) (*Prediction, error) {
	return c.predict(ctx, "/predict", filename, image)
}

// PredictSoil submits a soil image to /soil-predict.
func (c *InferenceClient) PredictSoil(ctx context.Context, filename string, image []byte) (*Prediction, error) {
	return c.predict(ctx, "/soil-predict", filename, image)
}

func (c *InferenceClient) predict(ctx context.Context, path, filename string, image []byte) (*Prediction, error) {
	ctx, span := observability.TraceUpstreamCall(ctx, "inference", path)
	defer span.End()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := writer.Close(); err != nil {
		return nil, models.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return nil, models.NewUpstreamUnknown(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		if isTimeoutErr(err) {
			middleware.UpstreamFailures.WithLabelValues("inference", "timeout").Inc()
			return nil, models.NewUpstreamTimeout(err)
		}
		middleware.UpstreamFailures.WithLabelValues("inference", "transport").Inc()
		return nil, models.NewUpstreamUnknown(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		middleware.UpstreamFailures.WithLabelValues("inference", "status").Inc()
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, models.NewUpstreamBadGateway(
			fmt.Errorf("inference returned status %d: %s", resp.StatusCode, detail))
	}

	var pred Prediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		middleware.UpstreamFailures.WithLabelValues("inference", "decode").Inc()
		return nil, models.NewUpstreamBadGateway(fmt.Errorf("decode inference response: %w", err))
	}
	return &pred, nil
}

func isTimeoutErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
