package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/motoquote/motoquote/internal/platform/httpx"
	"github.com/motoquote/motoquote/internal/shared"
)

// Handler exposes the catalog CRUD endpoints. Reads are open to any
// authenticated user; writes require the manager role.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the catalog handler.
func NewHandler(service *Service, validate *validator.Validate) *Handler {
	return &Handler{service: service, validate: validate}
}

// RoleGuard is the middleware applied to catalog write routes.
type RoleGuard func(http.Handler) http.Handler

// MountRoutes registers the catalog routes. writeGuard restricts mutating
// endpoints; the surrounding router already requires authentication.
func (h *Handler) MountRoutes(r chi.Router, writeGuard RoleGuard) {
	r.Get("/branches", h.listBranches)
	r.Get("/branches/{id}", h.getBranch)
	r.Get("/headers", h.listHeaders)
	r.Get("/models", h.listModels)
	r.Get("/models/{id}", h.getModel)
	r.Get("/offers", h.listOffers)
	r.Get("/attachments", h.listAttachments)
	r.Get("/finance-documents", h.listFinanceDocuments)
	r.Get("/terms", h.listTerms)

	r.Group(func(r chi.Router) {
		r.Use(writeGuard)
		r.Post("/branches", h.createBranch)
		r.Put("/branches/{id}", h.updateBranch)
		r.Post("/headers", h.createHeader)
		r.Put("/headers/{id}", h.updateHeader)
		r.Delete("/headers/{id}", h.deleteHeader)
		r.Post("/models", h.createModel)
		r.Put("/models/{id}", h.updateModel)
		r.Post("/offers", h.createOffer)
		r.Put("/offers/{id}", h.updateOffer)
		r.Post("/attachments", h.createAttachment)
		r.Post("/finance-documents", h.createFinanceDocument)
		r.Post("/terms", h.createTerm)
	})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func includeInactive(r *http.Request) bool {
	return r.URL.Query().Get("include_inactive") == "true"
}

func (h *Handler) decode(r *http.Request, v any) error {
	if err := httpx.DecodeJSON(r, v); err != nil {
		return err
	}
	if err := h.validate.Struct(v); err != nil {
		return httpx.ErrValidation
	}
	return nil
}

// ---- Branches

func (h *Handler) listBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.service.ListBranches(r.Context(), !includeInactive(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, branches)
}

func (h *Handler) getBranch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	branch, err := h.service.GetBranch(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, branch)
}

func (h *Handler) createBranch(w http.ResponseWriter, r *http.Request) {
	var req branchRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.CreateBranch(r.Context(), req.toDomain())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) updateBranch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var req branchRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.UpdateBranch(r.Context(), id, req.toDomain()); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Headers

func (h *Handler) listHeaders(w http.ResponseWriter, r *http.Request) {
	headers, err := h.service.Headers(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, headers)
}

func (h *Handler) createHeader(w http.ResponseWriter, r *http.Request) {
	var req headerRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.CreateHeader(r.Context(), req.toDomain())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) updateHeader(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var req headerRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.UpdateHeader(r.Context(), id, req.toDomain()); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteHeader(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if err := h.service.DeleteHeader(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Models

func (h *Handler) listModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.service.ListModels(r.Context(), !includeInactive(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, models)
}

func (h *Handler) getModel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	model, err := h.service.GetModel(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, model)
}

func (h *Handler) createModel(w http.ResponseWriter, r *http.Request) {
	var req modelRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.CreateModel(r.Context(), req.toDomain())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) updateModel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var req modelRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.UpdateModel(r.Context(), id, req.toDomain()); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Offers

func (h *Handler) listOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.service.ListOffers(r.Context(), !includeInactive(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, offers)
}

func (h *Handler) createOffer(w http.ResponseWriter, r *http.Request) {
	var req offerRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.CreateOffer(r.Context(), req.toDomain())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) updateOffer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var req offerRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.UpdateOffer(r.Context(), id, req.toDomain()); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Attachments

func (h *Handler) listAttachments(w http.ResponseWriter, r *http.Request) {
	attachments, err := h.service.ListAttachments(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, attachments)
}

func (h *Handler) createAttachment(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var req attachmentRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.CreateAttachment(r.Context(), req.toDomain(identity.UserID))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

// ---- Finance documents and terms

func (h *Handler) listFinanceDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.ListFinanceDocuments(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, docs)
}

func (h *Handler) createFinanceDocument(w http.ResponseWriter, r *http.Request) {
	var req financeDocumentRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.CreateFinanceDocument(r.Context(), FinanceDocument{Name: req.Name, Description: req.Description})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) listTerms(w http.ResponseWriter, r *http.Request) {
	terms, err := h.service.ListTerms(r.Context(), !includeInactive(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, terms)
}

func (h *Handler) createTerm(w http.ResponseWriter, r *http.Request) {
	var req termRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.CreateTerm(r.Context(), req.toDomain())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}
