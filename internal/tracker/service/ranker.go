package service

import (
	"sort"

	"golang-stock-movers/internal/entity"
	"golang-stock-movers/internal/tracker/dto"
)

const (
	// MaxTopN caps the ranking depth accepted from config and the trigger
	// endpoint.
	MaxTopN = 50
	// DefaultTopN is used when nothing else is configured.
	DefaultTopN = 5
)

// ClampTopN forces k into [1, MaxTopN], substituting the default for
// non-positive values.
func ClampTopN(k int) int {
	if k <= 0 {
		return DefaultTopN
	}
	if k > MaxTopN {
		return MaxTopN
	}
	return k
}

// RankMovers sorts records by percent change (stable, so ties keep their
// input order) and returns the top k winners and top k losers. Losers come
// back worst first. When k exceeds the record count, both sides simply hold
// every record once.
func RankMovers(records []entity.Stock, k int) dto.MoverSet {
	k = ClampTopN(k)

	sorted := make([]entity.Stock, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PriceChangePct > sorted[j].PriceChangePct
	})

	n := len(sorted)
	if k > n {
		k = n
	}

	winners := make([]entity.Stock, k)
	copy(winners, sorted[:k])

	losers := make([]entity.Stock, 0, k)
	for i := n - 1; i >= n-k; i-- {
		losers = append(losers, sorted[i])
	}

	return dto.MoverSet{Winners: winners, Losers: losers}
}
