package catalog

// idSet builds a membership set from a model id list.
func idSet(modelIDs []int64) map[int64]bool {
	set := make(map[int64]bool, len(modelIDs))
	for _, id := range modelIDs {
		set[id] = true
	}
	return set
}

// MatchOffersToModels returns the offers applicable to the given model set:
// an offer matches when it applies to all models or its explicit model list
// intersects modelIDs. Global offers match even an empty selection. Results
// are deduplicated by id and keep the input order, so the same query always
// produces the same sequence.
func MatchOffersToModels(offers []Offer, modelIDs []int64) []Offer {
	selected := idSet(modelIDs)
	seen := make(map[int64]bool, len(offers))
	matched := make([]Offer, 0, len(offers))
	for _, o := range offers {
		if seen[o.ID] {
			continue
		}
		if !o.ApplyToAllModels && !intersects(o.ModelIDs, selected) {
			continue
		}
		seen[o.ID] = true
		matched = append(matched, o)
	}
	return matched
}

// MatchAttachmentsToModels applies the same matching rule to attachments.
func MatchAttachmentsToModels(attachments []Attachment, modelIDs []int64) []Attachment {
	selected := idSet(modelIDs)
	seen := make(map[int64]bool, len(attachments))
	matched := make([]Attachment, 0, len(attachments))
	for _, a := range attachments {
		if seen[a.ID] {
			continue
		}
		if !a.ApplyToAllModels && !intersects(a.ModelIDs, selected) {
			continue
		}
		seen[a.ID] = true
		matched = append(matched, a)
	}
	return matched
}

func intersects(ids []int64, set map[int64]bool) bool {
	for _, id := range ids {
		if set[id] {
			return true
		}
	}
	return false
}
