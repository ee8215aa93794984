package market

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFetcher counts upstream calls and returns a fixed response.
type countingFetcher struct {
	calls int64
	delay time.Duration
	resp  *PriceResponse
	err   error
}

func (f *countingFetcher) FetchPrices(ctx context.Context, q Query) (*PriceResponse, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func TestService_SecondRequestWithinTTLHitsCache(t *testing.T) {
	cache, now := newTestCache(5*time.Minute, 8)
	fetcher := &countingFetcher{resp: respWithTotal(3)}
	svc := NewService(cache, fetcher)
	ctx := context.Background()
	q := Query{State: "Punjab", Commodity: "Wheat", Limit: 10}

	first, cached, err := svc.Prices(ctx, q)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 3, first.Total)

	second, cached, err := svc.Prices(ctx, q)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&fetcher.calls),
		"identical params within TTL must trigger exactly one upstream call")

	// After expiry the next lookup goes upstream again.
	*now = now.Add(6 * time.Minute)
	_, cached, err = svc.Prices(ctx, q)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, int64(2), atomic.LoadInt64(&fetcher.calls))
}

func TestService_DistinctParamsAreDistinctEntries(t *testing.T) {
	cache, _ := newTestCache(5*time.Minute, 8)
	fetcher := &countingFetcher{resp: respWithTotal(1)}
	svc := NewService(cache, fetcher)
	ctx := context.Background()

	_, _, err := svc.Prices(ctx, Query{Commodity: "Wheat", Limit: 10})
	require.NoError(t, err)
	_, _, err = svc.Prices(ctx, Query{Commodity: "Wheat", Limit: 20})
	require.NoError(t, err)

	assert.Equal(t, int64(2), atomic.LoadInt64(&fetcher.calls))
	assert.Equal(t, 2, cache.Len())
}

func TestService_ConcurrentMissesCoalesce(t *testing.T) {
	cache, _ := newTestCache(5*time.Minute, 8)
	fetcher := &countingFetcher{resp: respWithTotal(1), delay: 50 * time.Millisecond}
	svc := NewService(cache, fetcher)
	q := Query{Commodity: "Onion", Limit: 10}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.Prices(context.Background(), q)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&fetcher.calls),
		"concurrent identical misses must coalesce into one upstream call")
}

func TestService_ErrorNotCached(t *testing.T) {
	cache, _ := newTestCache(5*time.Minute, 8)
	fetcher := &countingFetcher{err: assert.AnError}
	svc := NewService(cache, fetcher)
	q := Query{Commodity: "Potato", Limit: 10}

	_, _, err := svc.Prices(context.Background(), q)
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len(), "failed lookups must not populate the cache")

	fetcher.err = nil
	fetcher.resp = respWithTotal(9)
	resp, _, err := svc.Prices(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 9, resp.Total)
}
