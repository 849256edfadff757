package pricing

import (
	"errors"
	"strings"

	"github.com/motoquote/motoquote/internal/catalog"
)

// DefaultReferenceMatcher selects the header used to rank models within a
// series. Matching is a case-insensitive substring test against header_key
// and category_key.
const DefaultReferenceMatcher = "ex-showroom"

// ErrNoReferenceHeader signals that the header catalog contains no
// Ex-Showroom-equivalent entry at all. Base-model detection is impossible for
// the request; quotation assembly continues without it.
var ErrNoReferenceHeader = errors.New("pricing: no reference header in catalog")

// IsReferenceHeader reports whether a header's keys match the reference
// matcher.
func IsReferenceHeader(headerKey, categoryKey, matcher string) bool {
	m := strings.ToLower(matcher)
	return strings.Contains(strings.ToLower(headerKey), m) ||
		strings.Contains(strings.ToLower(categoryKey), m)
}

// VerifyReferenceHeader confirms the catalog carries at least one header
// matching the reference matcher, returning ErrNoReferenceHeader otherwise.
func VerifyReferenceHeader(headers []catalog.Header, matcher string) error {
	for _, h := range headers {
		if IsReferenceHeader(h.HeaderKey, h.CategoryKey, matcher) {
			return nil
		}
	}
	return ErrNoReferenceHeader
}

// ReferenceValue picks the model's value for the reference header out of its
// resolved prices. The first matching entry in resolution order wins. The
// second return is false when the model has no resolved reference price and
// therefore cannot be ranked within its series.
func ReferenceValue(prices []ResolvedPrice, matcher string) (float64, bool) {
	for _, p := range prices {
		if IsReferenceHeader(p.HeaderKey, p.CategoryKey, matcher) {
			return p.Value, true
		}
	}
	return 0, false
}

// BaseCandidate is one rankable model within a series: it resolved a
// reference-header price at the requested branch.
type BaseCandidate struct {
	ModelID   int64   `json:"model_id"`
	ModelName string  `json:"model_name"`
	Series    string  `json:"series"`
	Value     float64 `json:"value"`
}

// SelectBaseModel returns the candidate with the strictly minimum reference
// value. Ties are broken by input order: the first occurrence wins. All
// candidates are expected to belong to one series; the second return is false
// when the slice is empty.
func SelectBaseModel(candidates []BaseCandidate) (BaseCandidate, bool) {
	if len(candidates) == 0 {
		return BaseCandidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Value < best.Value {
			best = c
		}
	}
	return best, true
}
