package catalog

import (
	"github.com/google/uuid"
)

type branchRequest struct {
	Name     string `json:"name" validate:"required"`
	Address  string `json:"address"`
	Locality string `json:"locality"`
	Phone    string `json:"phone"`
	GSTIN    string `json:"gstin"`
	IsActive *bool  `json:"is_active"`
}

func (r branchRequest) toDomain() Branch {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return Branch{
		Name:     r.Name,
		Address:  r.Address,
		Locality: r.Locality,
		Phone:    r.Phone,
		GSTIN:    r.GSTIN,
		IsActive: active,
	}
}

type headerRequest struct {
	CategoryKey string            `json:"category_key" validate:"required"`
	Powertrain  Powertrain        `json:"powertrain" validate:"required,oneof=EV ICE"`
	HeaderKey   string            `json:"header_key" validate:"required"`
	Priority    int               `json:"priority" validate:"gte=0"`
	Metadata    map[string]string `json:"metadata"`
}

func (r headerRequest) toDomain() Header {
	return Header{
		CategoryKey: r.CategoryKey,
		Powertrain:  r.Powertrain,
		HeaderKey:   r.HeaderKey,
		Priority:    r.Priority,
		Metadata:    r.Metadata,
	}
}

type priceRequest struct {
	HeaderID int64   `json:"header_id" validate:"required,gt=0"`
	BranchID int64   `json:"branch_id" validate:"required,gt=0"`
	Value    float64 `json:"value" validate:"gte=0"`
}

type modelRequest struct {
	Name       string         `json:"name" validate:"required"`
	Powertrain Powertrain     `json:"powertrain" validate:"required,oneof=EV ICE"`
	Status     ModelStatus    `json:"status" validate:"omitempty,oneof=active inactive"`
	Prices     []priceRequest `json:"prices" validate:"dive"`
}

func (r modelRequest) toDomain() Model {
	m := Model{
		Name:       r.Name,
		Powertrain: r.Powertrain,
		Status:     r.Status,
		Prices:     make([]Price, 0, len(r.Prices)),
	}
	for _, p := range r.Prices {
		m.Prices = append(m.Prices, Price{HeaderID: p.HeaderID, BranchID: p.BranchID, Value: p.Value})
	}
	return m
}

type offerRequest struct {
	Title            string  `json:"title" validate:"required"`
	Description      string  `json:"description"`
	ImageURL         string  `json:"image_url" validate:"omitempty,url"`
	Link             string  `json:"link" validate:"omitempty,url"`
	IsActive         *bool   `json:"is_active"`
	ApplyToAllModels bool    `json:"apply_to_all_models"`
	ModelIDs         []int64 `json:"model_ids" validate:"required_without=ApplyToAllModels,dive,gt=0"`
}

func (r offerRequest) toDomain() Offer {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return Offer{
		Title:            r.Title,
		Description:      r.Description,
		ImageURL:         r.ImageURL,
		Link:             r.Link,
		IsActive:         active,
		ApplyToAllModels: r.ApplyToAllModels,
		ModelIDs:         r.ModelIDs,
	}
}

type attachmentItemRequest struct {
	Kind  AttachmentItemKind `json:"kind" validate:"required,oneof=image video youtube document text"`
	Title string             `json:"title"`
	URL   string             `json:"url" validate:"omitempty,url"`
	Text  string             `json:"text"`
}

type attachmentRequest struct {
	Title            string                  `json:"title" validate:"required"`
	Description      string                  `json:"description"`
	Items            []attachmentItemRequest `json:"items" validate:"required,min=1,dive"`
	ApplyToAllModels bool                    `json:"apply_to_all_models"`
	ModelIDs         []int64                 `json:"model_ids" validate:"required_without=ApplyToAllModels,dive,gt=0"`
}

// toDomain assigns a fresh id to every item; item ids are server-generated.
func (r attachmentRequest) toDomain(createdBy int64) Attachment {
	a := Attachment{
		Title:            r.Title,
		Description:      r.Description,
		Items:            make([]AttachmentItem, 0, len(r.Items)),
		ApplyToAllModels: r.ApplyToAllModels,
		ModelIDs:         r.ModelIDs,
		CreatedBy:        createdBy,
	}
	for _, item := range r.Items {
		a.Items = append(a.Items, AttachmentItem{
			ID:    uuid.NewString(),
			Kind:  item.Kind,
			Title: item.Title,
			URL:   item.URL,
			Text:  item.Text,
		})
	}
	return a
}

type financeDocumentRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type termRequest struct {
	Content  string `json:"content" validate:"required"`
	Priority int    `json:"priority" validate:"gte=0"`
	IsActive *bool  `json:"is_active"`
}

func (r termRequest) toDomain() Term {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return Term{Content: r.Content, Priority: r.Priority, IsActive: active}
}
