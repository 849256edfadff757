package quotations

import (
	"time"

	"github.com/motoquote/motoquote/internal/catalog"
	"github.com/motoquote/motoquote/internal/pricing"
)

// Status tracks a quotation through its sales lifecycle. The snapshot payload
// itself never changes after creation; only status and the rendered document
// URL do.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusConverted Status = "converted"
)

// ValidStatus reports whether s is a known lifecycle status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusConverted:
		return true
	}
	return false
}

// CustomerSnapshot is the customer copy embedded in a quotation. It is frozen
// at assembly time; later edits to the customer record do not touch it.
type CustomerSnapshot struct {
	ID             int64  `json:"id"`
	FullName       string `json:"full_name"`
	Address        string `json:"address,omitempty"`
	Locality       string `json:"locality,omitempty"`
	PrimaryPhone   string `json:"primary_phone"`
	SecondaryPhone string `json:"secondary_phone,omitempty"`
}

// BranchSnapshot is the branch copy embedded in a quotation.
type BranchSnapshot struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Locality string `json:"locality,omitempty"`
	Phone    string `json:"phone,omitempty"`
	GSTIN    string `json:"gstin,omitempty"`
}

// CreatorSnapshot records who assembled the quotation.
type CreatorSnapshot struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

// ModelQuote is one selected model with its fully resolved branch pricing.
// Offers holds the promotions applicable to this model alone; the snapshot's
// top-level Offers field carries the union across the selection.
type ModelQuote struct {
	ModelID        int64                   `json:"model_id"`
	ModelName      string                  `json:"model_name"`
	Powertrain     catalog.Powertrain      `json:"powertrain"`
	Series         string                  `json:"series"`
	Prices         []pricing.ResolvedPrice `json:"prices"`
	ReferencePrice *float64                `json:"reference_price,omitempty"`
	IsBaseModel    bool                    `json:"is_base_model"`
	Offers         []catalog.Offer         `json:"offers,omitempty"`
}

// Snapshot is the immutable denormalized quotation. Everything a rendered
// document needs is embedded; reading a quotation back never re-runs catalog
// joins.
type Snapshot struct {
	ID               int64                     `json:"id"`
	Number           string                    `json:"number"`
	Status           Status                    `json:"status"`
	Customer         CustomerSnapshot          `json:"customer"`
	Branch           BranchSnapshot            `json:"branch"`
	CreatedBy        CreatorSnapshot           `json:"created_by"`
	Models           []ModelQuote              `json:"models"`
	BaseModel        *pricing.BaseCandidate    `json:"base_model,omitempty"`
	Offers           []catalog.Offer           `json:"offers,omitempty"`
	Attachments      []catalog.Attachment      `json:"attachments,omitempty"`
	FinanceDocuments []catalog.FinanceDocument `json:"finance_documents,omitempty"`
	Terms            []catalog.Term            `json:"terms,omitempty"`
	DocumentURL      *string                   `json:"document_url,omitempty"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}
