package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/domain/model"
	apperrors "github.com/target/campus-portal/internal/errors"
	"github.com/target/campus-portal/internal/service"
)

// RecordAPIHandlers exposes feature-page records as JSON.
type RecordAPIHandlers struct {
	Svc    *service.RecordService
	Logger *slog.Logger
}

func (h *RecordAPIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if StatusFor(err) >= http.StatusInternalServerError {
		logger := h.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.ErrorContext(r.Context(), "record api failed", "path", r.URL.Path, "error", err)
	}
	WriteServiceError(w, err)
}

func pageRef(role domainauth.Role, r *http.Request) model.PageRef {
	return model.PageRef{Role: role, Key: r.PathValue("page")}
}

// apiNotFound answers unknown endpoints inside a role's API subtree.
func apiNotFound(w http.ResponseWriter, _ *http.Request) {
	WriteServiceError(w, apperrors.NotFound("no such endpoint"))
}

// recordList is the JSON body of a listing.
type recordList struct {
	Page    model.Page     `json:"page"`
	Records []model.Record `json:"records"`
}

// List returns a page's records.
// GET /api/{role}/pages/{page}/records?q=<query>&filter=<jmespath>.
func (h *RecordAPIHandlers) List(role domainauth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := pageRef(role, r)
		page, err := h.Svc.Page(ref.Role, ref.Key)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		recs, err := h.Svc.List(r.Context(), ref, ParseListOptions(r.URL.Query()))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, recordList{Page: page, Records: recs})
	}
}

// Get returns one record.
// GET /api/{role}/pages/{page}/records/{id}.
func (h *RecordAPIHandlers) Get(role domainauth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := h.Svc.Get(r.Context(), pageRef(role, r), r.PathValue("id"))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, rec)
	}
}

// Create adds a record.
// POST /api/{role}/pages/{page}/records.
func (h *RecordAPIHandlers) Create(role domainauth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in model.RecordInput
		if !DecodeJSON(w, r, &in) {
			return
		}
		rec, err := h.Svc.Create(r.Context(), pageRef(role, r), in)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		WriteJSON(w, http.StatusCreated, rec)
	}
}

// Update replaces a record's fields.
// PUT /api/{role}/pages/{page}/records/{id}.
func (h *RecordAPIHandlers) Update(role domainauth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in model.RecordInput
		if !DecodeJSON(w, r, &in) {
			return
		}
		rec, err := h.Svc.Update(r.Context(), pageRef(role, r), r.PathValue("id"), in)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, rec)
	}
}

// Delete removes a record.
// DELETE /api/{role}/pages/{page}/records/{id}.
func (h *RecordAPIHandlers) Delete(role domainauth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.Svc.Delete(r.Context(), pageRef(role, r), r.PathValue("id")); err != nil {
			h.fail(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AvatarAPIHandlers manages the signed-in user's avatar.
type AvatarAPIHandlers struct {
	Svc    *service.AvatarService
	Logger *slog.Logger
}

type avatarRequest struct {
	DataURL string `json:"data_url"`
}

func (h *AvatarAPIHandlers) session(r *http.Request) domainauth.Session {
	sess, _ := GetSessionFromContext(r.Context())
	return *sess
}

func (h *AvatarAPIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if StatusFor(err) >= http.StatusInternalServerError {
		logger := h.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.ErrorContext(r.Context(), "avatar api failed", "error", err)
	}
	WriteServiceError(w, err)
}

// Get returns the avatar.
// GET /api/{role}/avatar.
func (h *AvatarAPIHandlers) Get(w http.ResponseWriter, r *http.Request) {
	av, err := h.Svc.Get(r.Context(), h.session(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, av)
}

// Put stores a new avatar.
// PUT /api/{role}/avatar.
func (h *AvatarAPIHandlers) Put(w http.ResponseWriter, r *http.Request) {
	var req avatarRequest
	// the envelope around the data URL gets a little headroom
	limit := int64(h.Svc.MaxBytes()) + 1024
	if !DecodeJSONLimit(w, r, &req, limit, h.Svc.TooLarge()) {
		return
	}
	av, err := h.Svc.Put(r.Context(), h.session(r), req.DataURL)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, av)
}

// Delete removes the avatar.
// DELETE /api/{role}/avatar.
func (h *AvatarAPIHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), h.session(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
