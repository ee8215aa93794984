package market

import (
	"fmt"
	"strconv"
	"strings"
)

// Query is the normalized parameter tuple a price lookup is cached under.
// State, district and commodity are matched case-sensitively by the upstream
// API and are kept verbatim.
type Query struct {
	State     string
	District  string
	Commodity string
	Offset    int
	Limit     int
}

// Key derives the cache key for the query.
func (q Query) Key() string {
	return fmt.Sprintf("%s|%s|%s|%d|%d", q.State, q.District, q.Commodity, q.Offset, q.Limit)
}

// Record is one commodity price observation with normalized numeric prices.
// A nil price means the upstream value was absent or unparseable.
type Record struct {
	State       string `json:"state"`
	District    string `json:"district"`
	Market      string `json:"market"`
	Commodity   string `json:"commodity"`
	Variety     string `json:"variety"`
	ArrivalDate string `json:"arrival_date"`
	MinPrice    *int   `json:"min_price"`
	MaxPrice    *int   `json:"max_price"`
	ModalPrice  *int   `json:"modal_price"`
}

// PriceResponse is the payload served to clients and stored in the cache.
type PriceResponse struct {
	Records []Record `json:"records"`
	Total   int      `json:"total"`
	Offset  int      `json:"offset"`
	Limit   int      `json:"limit"`
}

// ParsePrice normalizes an upstream price string: thousands separators are
// stripped and the result parsed as an integer. Empty or non-numeric input
// yields nil.
func ParsePrice(raw string) *int {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
