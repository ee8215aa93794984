package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"farmiq/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *int
	}{
		{"Plain integer", "1200", intPtr(1200)},
		{"Thousands separator", "1,234", intPtr(1234)},
		{"Multiple separators", "1,23,456", intPtr(123456)},
		{"Surrounding spaces", " 850 ", intPtr(850)},
		{"Empty", "", nil},
		{"Non-numeric", "NR", nil},
		{"Decimal rejected", "1234.50", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrice(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
			} else if assert.NotNil(t, got) {
				assert.Equal(t, *tt.expected, *got)
			}
		})
	}
}

func intPtr(n int) *int { return &n }

func TestClient_FetchPrices(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("api-key"))
		assert.Equal(t, "Karnataka", r.URL.Query().Get("filters[state.keyword]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"total": 1,
			"count": 1,
			"records": [{
				"state": "Karnataka",
				"district": "Mysuru",
				"market": "Mysuru APMC",
				"commodity": "Tomato",
				"variety": "Local",
				"arrival_date": "30/08/2026",
				"min_price": "1,200",
				"max_price": "1,800",
				"modal_price": "abc"
			}]
		}`))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL, "test-key", 5*time.Second)
	resp, err := client.FetchPrices(context.Background(), Query{State: "Karnataka", Limit: 10})
	require.NoError(t, err)

	require.Len(t, resp.Records, 1)
	rec := resp.Records[0]
	require.NotNil(t, rec.MinPrice)
	assert.Equal(t, 1200, *rec.MinPrice)
	require.NotNil(t, rec.MaxPrice)
	assert.Equal(t, 1800, *rec.MaxPrice)
	assert.Nil(t, rec.ModalPrice, "unparseable price should normalize to null")
}

func TestClient_FetchPricesErrorMapping(t *testing.T) {
	tests := []struct {
		name           string
		handler        http.HandlerFunc
		expectedStatus int
		expectedCode   string
		retryAfter     int
	}{
		{
			name: "429 maps to 503 with retry_after",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", "120")
				w.WriteHeader(http.StatusTooManyRequests)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   "UPSTREAM_RATE_LIMITED",
			retryAfter:     120,
		},
		{
			name: "429 without Retry-After defaults to 60",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   "UPSTREAM_RATE_LIMITED",
			retryAfter:     60,
		},
		{
			name: "500 maps to 502",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectedStatus: http.StatusBadGateway,
			expectedCode:   "UPSTREAM_ERROR",
		},
		{
			name: "403 maps to 502",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
			expectedStatus: http.StatusBadGateway,
			expectedCode:   "UPSTREAM_ERROR",
		},
		{
			name: "Malformed body maps to 502",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>not json</html>"))
			},
			expectedStatus: http.StatusBadGateway,
			expectedCode:   "UPSTREAM_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(tt.handler)
			defer upstream.Close()

			client := NewClient(upstream.URL, "test-key", 5*time.Second)
			_, err := client.FetchPrices(context.Background(), Query{Limit: 10})
			require.Error(t, err)

			upErr, ok := err.(*models.UpstreamError)
			require.True(t, ok, "expected *models.UpstreamError, got %T", err)
			assert.Equal(t, tt.expectedStatus, upErr.Status)
			assert.Equal(t, tt.expectedCode, upErr.Code)
			if tt.retryAfter > 0 {
				assert.Equal(t, tt.retryAfter, upErr.RetryAfter)
			}
		})
	}
}

func TestClient_FetchPricesTimeout(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL, "test-key", 20*time.Millisecond)
	_, err := client.FetchPrices(context.Background(), Query{Limit: 10})
	require.Error(t, err)

	upErr, ok := err.(*models.UpstreamError)
	require.True(t, ok)
	assert.Equal(t, http.StatusGatewayTimeout, upErr.Status)
	assert.Equal(t, "UPSTREAM_TIMEOUT", upErr.Code)
}
