package pricing

import (
	"sort"

	"github.com/motoquote/motoquote/internal/catalog"
)

// Sentinel labels for price entries whose header no longer exists. The
// monetary value is retained; only its label is unrecoverable.
const (
	DeletedHeaderKey   = "deleted"
	DeletedCategoryKey = "deleted"
)

// ResolvedPrice is a branch price entry joined with its header metadata.
type ResolvedPrice struct {
	HeaderID    int64             `json:"header_id"`
	HeaderKey   string            `json:"header_key"`
	CategoryKey string            `json:"category_key"`
	Priority    int               `json:"priority"`
	Value       float64           `json:"value"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Resolution is the outcome of resolving one model's prices at one branch.
// Duplicates counts (header, branch) pairs that appeared more than once in
// the stored price list; the first occurrence won and the rest were dropped.
type Resolution struct {
	Prices     []ResolvedPrice
	Duplicates int
}

// HeaderIndex builds a lookup table over the full header catalog.
func HeaderIndex(headers []catalog.Header) map[int64]catalog.Header {
	idx := make(map[int64]catalog.Header, len(headers))
	for _, h := range headers {
		idx[h.ID] = h
	}
	return idx
}

// ResolvePrices filters a model's price entries to the given branch and joins
// each surviving entry with its header. Entries referencing a deleted header
// are kept with sentinel labels and priority 0. The result is ordered by
// header priority, stable over stored order. Absence of branch prices yields
// an empty result, never an error.
func ResolvePrices(model catalog.Model, branchID int64, headers map[int64]catalog.Header) Resolution {
	var res Resolution
	seen := make(map[int64]bool)
	for _, p := range model.Prices {
		if p.BranchID != branchID {
			continue
		}
		if seen[p.HeaderID] {
			res.Duplicates++
			continue
		}
		seen[p.HeaderID] = true

		rp := ResolvedPrice{
			HeaderID:    p.HeaderID,
			HeaderKey:   DeletedHeaderKey,
			CategoryKey: DeletedCategoryKey,
			Value:       p.Value,
		}
		if h, ok := headers[p.HeaderID]; ok {
			rp.HeaderKey = h.HeaderKey
			rp.CategoryKey = h.CategoryKey
			rp.Priority = h.Priority
			rp.Metadata = h.Metadata
		}
		res.Prices = append(res.Prices, rp)
	}
	sort.SliceStable(res.Prices, func(i, j int) bool {
		return res.Prices[i].Priority < res.Prices[j].Priority
	})
	return res
}
