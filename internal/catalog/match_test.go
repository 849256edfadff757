package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchOffersGlobalAlwaysMatches(t *testing.T) {
	offers := []Offer{
		{ID: 1, Title: "Festive cashback", ApplyToAllModels: true},
		{ID: 2, Title: "Exchange bonus", ModelIDs: []int64{42}},
	}

	matched := MatchOffersToModels(offers, []int64{7})
	require.Len(t, matched, 1)
	assert.Equal(t, int64(1), matched[0].ID)

	// Global offers match even an empty selection.
	matched = MatchOffersToModels(offers, nil)
	require.Len(t, matched, 1)
	assert.Equal(t, int64(1), matched[0].ID)
}

func TestMatchOffersIntersection(t *testing.T) {
	offers := []Offer{
		{ID: 1, ModelIDs: []int64{1, 2}},
		{ID: 2, ModelIDs: []int64{3}},
		{ID: 3, ApplyToAllModels: true},
	}

	matched := MatchOffersToModels(offers, []int64{2, 9})
	require.Len(t, matched, 2)
	assert.Equal(t, int64(1), matched[0].ID)
	assert.Equal(t, int64(3), matched[1].ID)
}

func TestMatchOffersDeduplicatesAndKeepsOrder(t *testing.T) {
	offers := []Offer{
		{ID: 5, ModelIDs: []int64{1}},
		{ID: 6, ApplyToAllModels: true},
		{ID: 5, ModelIDs: []int64{2}},
	}

	first := MatchOffersToModels(offers, []int64{1, 2})
	second := MatchOffersToModels(offers, []int64{1, 2})

	require.Len(t, first, 2)
	assert.Equal(t, int64(5), first[0].ID)
	assert.Equal(t, int64(6), first[1].ID)
	assert.Equal(t, first, second)
}

func TestMatchAttachments(t *testing.T) {
	attachments := []Attachment{
		{ID: 1, ApplyToAllModels: true},
		{ID: 2, ModelIDs: []int64{10}},
		{ID: 3, ModelIDs: []int64{11}},
	}

	matched := MatchAttachmentsToModels(attachments, []int64{10})
	require.Len(t, matched, 2)
	assert.Equal(t, int64(1), matched[0].ID)
	assert.Equal(t, int64(2), matched[1].ID)
}
