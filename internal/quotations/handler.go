package quotations

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/motoquote/motoquote/internal/customers"
	"github.com/motoquote/motoquote/internal/platform/httpx"
	"github.com/motoquote/motoquote/internal/shared"
)

type customerPayload struct {
	FullName       string `json:"full_name"`
	Address        string `json:"address"`
	Locality       string `json:"locality"`
	PrimaryPhone   string `json:"primary_phone"`
	SecondaryPhone string `json:"secondary_phone"`
}

type createRequest struct {
	CustomerID int64            `json:"customer_id" validate:"gte=0"`
	Customer   *customerPayload `json:"customer" validate:"required_without=CustomerID"`
	ModelIDs   []int64          `json:"model_ids" validate:"required,min=1,dive,gt=0"`
	BranchID   int64            `json:"branch_id" validate:"gte=0"`
}

func (r createRequest) toInput() CreateInput {
	in := CreateInput{
		CustomerID: r.CustomerID,
		ModelIDs:   r.ModelIDs,
		BranchID:   r.BranchID,
	}
	if r.Customer != nil {
		in.Customer = customers.Input{
			FullName:       r.Customer.FullName,
			Address:        r.Customer.Address,
			Locality:       r.Customer.Locality,
			PrimaryPhone:   r.Customer.PrimaryPhone,
			SecondaryPhone: r.Customer.SecondaryPhone,
		}
	}
	return in
}

type statusRequest struct {
	Status Status `json:"status" validate:"required"`
}

type listResponse struct {
	Items      []Snapshot        `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

// Handler exposes the quotation endpoints.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the quotations handler.
func NewHandler(service *Service, validate *validator.Validate) *Handler {
	return &Handler{service: service, validate: validate}
}

// MountRoutes registers the quotation routes. The surrounding router already
// requires authentication.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/quotations", h.create)
	r.Get("/quotations", h.list)
	r.Get("/quotations/{id}", h.get)
	r.Get("/quotations/number/{number}", h.getByNumber)
	r.Patch("/quotations/{id}/status", h.updateStatus)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	snapshot, err := h.service.Create(r.Context(), identity, req.toInput())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, snapshot)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	branchID, _ := strconv.ParseInt(q.Get("branch_id"), 10, 64)
	f := ListFilter{
		BranchID: branchID,
		Status:   Status(q.Get("status")),
		Page:     page,
		PerPage:  perPage,
	}
	if f.Status != "" && !ValidStatus(f.Status) {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	items, pagination, err := h.service.List(r.Context(), identity, f)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Snapshot{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{Items: items, Pagination: pagination})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	snapshot, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, snapshot)
}

func (h *Handler) getByNumber(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.GetByNumber(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, snapshot)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var req statusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.UpdateStatus(r.Context(), id, req.Status); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
