package market

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Service serves price lookups through the cache, coalescing concurrent
// misses for the same key into a single upstream call.
type Service struct {
	cache   *PriceCache
	fetcher Fetcher
	group   singleflight.Group
}

// NewService wires a cache in front of the given fetcher.
func NewService(cache *PriceCache, fetcher Fetcher) *Service {
	return &Service{cache: cache, fetcher: fetcher}
}

// Prices returns the response for q, from cache when fresh. The second return
// value reports whether the response was served from cache.
func (s *Service) Prices(ctx context.Context, q Query) (*PriceResponse, bool, error) {
	key := q.Key()
	if resp, ok := s.cache.Get(key); ok {
		return resp, true, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// A concurrent flight may have populated the cache while this caller
		// was waiting on the group lock.
		if resp, ok := s.cache.Get(key); ok {
			return resp, nil
		}
		resp, err := s.fetcher.FetchPrices(ctx, q)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, resp)
		return resp, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*PriceResponse), false, nil
}
