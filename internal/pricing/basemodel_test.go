package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoquote/motoquote/internal/catalog"
)

func TestVerifyReferenceHeader(t *testing.T) {
	headers := []catalog.Header{
		{CategoryKey: "Tax", HeaderKey: "RTO Tax"},
		{CategoryKey: "Showroom", HeaderKey: "EX-SHOWROOM Price"},
	}
	require.NoError(t, VerifyReferenceHeader(headers, DefaultReferenceMatcher))

	headers = headers[:1]
	err := VerifyReferenceHeader(headers, DefaultReferenceMatcher)
	assert.ErrorIs(t, err, ErrNoReferenceHeader)
}

func TestReferenceValueFirstMatchWins(t *testing.T) {
	prices := []ResolvedPrice{
		{HeaderKey: "RTO Tax", CategoryKey: "Tax", Value: 6000},
		{HeaderKey: "Ex-Showroom", CategoryKey: "Showroom", Value: 80000},
	}
	v, ok := ReferenceValue(prices, DefaultReferenceMatcher)
	require.True(t, ok)
	assert.Equal(t, 80000.0, v)

	_, ok = ReferenceValue(prices[:1], DefaultReferenceMatcher)
	assert.False(t, ok)
}

func TestSelectBaseModelMinimum(t *testing.T) {
	candidates := []BaseCandidate{
		{ModelID: 1, ModelName: "X2", Series: "X", Value: 120000},
		{ModelID: 2, ModelName: "X1", Series: "X", Value: 100000},
		{ModelID: 3, ModelName: "X3", Series: "X", Value: 150000},
	}
	base, ok := SelectBaseModel(candidates)
	require.True(t, ok)
	assert.Equal(t, int64(2), base.ModelID)
	assert.Equal(t, 100000.0, base.Value)
}

func TestSelectBaseModelTieBreakFirstOccurrence(t *testing.T) {
	candidates := []BaseCandidate{
		{ModelID: 7, ModelName: "Jupiter STD", Value: 90000},
		{ModelID: 8, ModelName: "Jupiter ZX", Value: 90000},
	}
	base, ok := SelectBaseModel(candidates)
	require.True(t, ok)
	assert.Equal(t, int64(7), base.ModelID)
}

func TestSelectBaseModelEmpty(t *testing.T) {
	_, ok := SelectBaseModel(nil)
	assert.False(t, ok)
}
