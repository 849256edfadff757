package catalog

import "time"

// Powertrain identifies the vehicle powertrain category a header or model
// belongs to.
type Powertrain string

const (
	PowertrainEV  Powertrain = "EV"
	PowertrainICE Powertrain = "ICE"
)

// ModelStatus flags whether a model is offered for sale.
type ModelStatus string

const (
	ModelStatusActive   ModelStatus = "active"
	ModelStatusInactive ModelStatus = "inactive"
)

// Branch is a dealership location. Branches are read-only inputs to pricing.
type Branch struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Locality  string    `json:"locality"`
	Phone     string    `json:"phone"`
	GSTIN     string    `json:"gstin"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Header is a named, prioritized price-line-item category scoped to a
// powertrain type, e.g. ("Showroom", ICE, "Ex-Showroom", 1).
// (powertrain, category_key, priority) and (powertrain, category_key,
// header_key) are unique.
type Header struct {
	ID          int64             `json:"id"`
	CategoryKey string            `json:"category_key"`
	Powertrain  Powertrain        `json:"powertrain"`
	HeaderKey   string            `json:"header_key"`
	Priority    int               `json:"priority"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Price is one branch-scoped price entry on a model. Entries are kept in
// stored order; when duplicates exist for a (header, branch) pair the first
// entry wins during resolution.
type Price struct {
	HeaderID int64   `json:"header_id"`
	BranchID int64   `json:"branch_id"`
	Value    float64 `json:"value"`
}

// Model is a vehicle model in the catalog with its per-branch price entries.
type Model struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Powertrain Powertrain  `json:"powertrain"`
	Status     ModelStatus `json:"status"`
	Prices     []Price     `json:"prices"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Offer is a promotion applicable either to every model or to an explicit
// model list.
type Offer struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	ImageURL         string    `json:"image_url,omitempty"`
	Link             string    `json:"link,omitempty"`
	IsActive         bool      `json:"is_active"`
	ApplyToAllModels bool      `json:"apply_to_all_models"`
	ModelIDs         []int64   `json:"model_ids,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AttachmentItemKind enumerates the heterogeneous attachment item types.
type AttachmentItemKind string

const (
	AttachmentItemImage    AttachmentItemKind = "image"
	AttachmentItemVideo    AttachmentItemKind = "video"
	AttachmentItemYouTube  AttachmentItemKind = "youtube"
	AttachmentItemDocument AttachmentItemKind = "document"
	AttachmentItemText     AttachmentItemKind = "text"
)

// AttachmentItem is one entry inside an attachment bundle.
type AttachmentItem struct {
	ID    string             `json:"id"`
	Kind  AttachmentItemKind `json:"kind"`
	Title string             `json:"title,omitempty"`
	URL   string             `json:"url,omitempty"`
	Text  string             `json:"text,omitempty"`
}

// Attachment is a bundle of media/documents attached to quotations for the
// models it applies to.
type Attachment struct {
	ID               int64            `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Items            []AttachmentItem `json:"items"`
	ApplyToAllModels bool             `json:"apply_to_all_models"`
	ModelIDs         []int64          `json:"model_ids,omitempty"`
	CreatedBy        int64            `json:"created_by"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// FinanceDocument describes one document a customer must furnish for
// financing. The full definition list is snapshotted into every quotation.
type FinanceDocument struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Term is one terms-and-conditions clause. Active terms are snapshotted into
// every quotation in priority order.
type Term struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Priority  int       `json:"priority"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
