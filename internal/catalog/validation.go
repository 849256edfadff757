package catalog

import (
	"fmt"
	"strings"

	"github.com/motoquote/motoquote/internal/platform/httpx"
)

func validPowertrain(p Powertrain) bool {
	return p == PowertrainEV || p == PowertrainICE
}

func validateBranch(b Branch) error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: branch name is required", httpx.ErrValidation)
	}
	return nil
}

func validateHeader(h Header) error {
	if strings.TrimSpace(h.CategoryKey) == "" {
		return fmt.Errorf("%w: category_key is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(h.HeaderKey) == "" {
		return fmt.Errorf("%w: header_key is required", httpx.ErrValidation)
	}
	if !validPowertrain(h.Powertrain) {
		return fmt.Errorf("%w: powertrain must be EV or ICE", httpx.ErrValidation)
	}
	if h.Priority < 0 {
		return fmt.Errorf("%w: priority must not be negative", httpx.ErrValidation)
	}
	return nil
}

func validateModel(m Model) error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: model name is required", httpx.ErrValidation)
	}
	if !validPowertrain(m.Powertrain) {
		return fmt.Errorf("%w: powertrain must be EV or ICE", httpx.ErrValidation)
	}
	for i, p := range m.Prices {
		if p.HeaderID <= 0 || p.BranchID <= 0 {
			return fmt.Errorf("%w: price entry %d needs header_id and branch_id", httpx.ErrValidation, i)
		}
		if p.Value < 0 {
			return fmt.Errorf("%w: price entry %d must not be negative", httpx.ErrValidation, i)
		}
	}
	return nil
}

func validateOffer(o Offer) error {
	if strings.TrimSpace(o.Title) == "" {
		return fmt.Errorf("%w: offer title is required", httpx.ErrValidation)
	}
	if !o.ApplyToAllModels && len(o.ModelIDs) == 0 {
		return fmt.Errorf("%w: offer needs model_ids or apply_to_all_models", httpx.ErrValidation)
	}
	return nil
}

func validateAttachment(a Attachment) error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("%w: attachment title is required", httpx.ErrValidation)
	}
	if !a.ApplyToAllModels && len(a.ModelIDs) == 0 {
		return fmt.Errorf("%w: attachment needs model_ids or apply_to_all_models", httpx.ErrValidation)
	}
	for i, item := range a.Items {
		switch item.Kind {
		case AttachmentItemImage, AttachmentItemVideo, AttachmentItemYouTube, AttachmentItemDocument:
			if strings.TrimSpace(item.URL) == "" {
				return fmt.Errorf("%w: attachment item %d needs a url", httpx.ErrValidation, i)
			}
		case AttachmentItemText:
			if strings.TrimSpace(item.Text) == "" {
				return fmt.Errorf("%w: attachment item %d needs text", httpx.ErrValidation, i)
			}
		default:
			return fmt.Errorf("%w: attachment item %d has unknown kind %q", httpx.ErrValidation, i, item.Kind)
		}
	}
	return nil
}

func validateFinanceDocument(d FinanceDocument) error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: document name is required", httpx.ErrValidation)
	}
	return nil
}

func validateTerm(t Term) error {
	if strings.TrimSpace(t.Content) == "" {
		return fmt.Errorf("%w: term content is required", httpx.ErrValidation)
	}
	return nil
}
