package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/domain/guard"
	"github.com/target/campus-portal/internal/domain/model"
	apperrors "github.com/target/campus-portal/internal/errors"
	"github.com/target/campus-portal/internal/service"
)

// PortalHandlers serves the role homes and feature pages. Every route is
// behind RequireRoleBrowser, so the session in context always owns role.
type PortalHandlers struct {
	Records *service.RecordService
	Avatars *service.AvatarService
	T       *TemplateRenderer
	Logger  *slog.Logger
}

func (h *PortalHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *PortalHandlers) render(w http.ResponseWriter, r *http.Request, status int, data PageData) {
	if err := h.T.Render(w, status, data); err != nil {
		h.logger().ErrorContext(r.Context(), "render page failed", "page", data.CurrentPage, "error", err)
	}
}

// Root sends signed-in users to their home and everyone else to login.
// GET /.
func (h *PortalHandlers) Root(w http.ResponseWriter, r *http.Request) {
	if sess, ok := GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, sess.Role.HomePath(), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
}

// NotFound renders the catch-all 404 page.
func (h *PortalHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	data := basePageData(r, h.Records.Catalog(), PageNotFound)
	data.Title = "Not found"
	h.render(w, r, http.StatusNotFound, data)
}

// RoleHome renders a role's landing page.
// GET /{role}.
func (h *PortalHandlers) RoleHome(role domainauth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := basePageData(r, h.Records.Catalog(), PageHome)
		data.Title = role.Label()
		data.Pages = h.Records.Catalog().ForRole(role)
		if sess, ok := GetSessionFromContext(r.Context()); ok && h.Avatars != nil {
			av, err := h.Avatars.Get(r.Context(), *sess)
			switch {
			case err == nil:
				data.Avatar = &av
			case !apperrors.IsNotFound(err):
				h.logger().WarnContext(r.Context(), "load avatar failed", "error", err)
			}
		}
		h.render(w, r, http.StatusOK, data)
	}
}

// FeaturePage lists a page's records.
// GET /{role}/{page}?q=<query>&filter=<jmespath>.
func (h *PortalHandlers) FeaturePage(role domainauth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := h.lookup(w, r, role)
		if !ok {
			return
		}
		h.renderFeature(w, r, featureView{page: page, status: http.StatusOK})
	}
}

// featureView groups what renderFeature needs.
type featureView struct {
	page   model.Page
	status int
	err    error
	values map[string]string
	mode   FormMode
	editID string
}

func (h *PortalHandlers) renderFeature(w http.ResponseWriter, r *http.Request, v featureView) {
	data := basePageData(r, h.Records.Catalog(), PageFeature)
	data.Title = v.page.Title
	data.Page = v.page
	data.Values = v.values
	data.FormMode = v.mode
	if data.FormMode == "" {
		data.FormMode = FormModeCreate
	}
	data.EditID = v.editID
	opts := ParseListOptions(r.URL.Query())
	data.Query = opts.Query
	data.Filter = opts.Filter

	status := v.status
	recs, err := h.Records.List(r.Context(), v.page.Ref(), opts)
	if err != nil {
		// an invalid filter still shows the unfiltered page
		recs, _ = h.Records.List(r.Context(), v.page.Ref(), model.ListOptions{Query: opts.Query})
		if v.err == nil {
			v.err = err
			status = StatusFor(err)
		}
	}
	data.Records = recs
	if v.err != nil {
		data.Error = userMessage(v.err)
		data.ErrorField = apperrors.GetField(v.err)
	}
	h.render(w, r, status, data)
}

// CreateRecord adds a record from the page's form.
// POST /{role}/{page}.
func (h *PortalHandlers) CreateRecord(role domainauth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.handleRecordForm(w, r, role, FormModeCreate)
	}
}

// EditRecordForm shows the page with the record loaded into the form.
// GET /{role}/{page}/{id}/edit.
func (h *PortalHandlers) EditRecordForm(role domainauth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := h.lookup(w, r, role)
		if !ok {
			return
		}
		rec, err := h.Records.Get(r.Context(), page.Ref(), r.PathValue("id"))
		if err != nil {
			if apperrors.IsNotFound(err) {
				h.NotFound(w, r)
				return
			}
			h.renderFeature(w, r, featureView{page: page, status: StatusFor(err), err: err})
			return
		}
		h.renderFeature(w, r, featureView{
			page: page, status: http.StatusOK,
			mode: FormModeEdit, editID: rec.ID, values: rec.Fields,
		})
	}
}

// UpdateRecord replaces a record's fields from the edit form.
// POST /{role}/{page}/{id}.
func (h *PortalHandlers) UpdateRecord(role domainauth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.handleRecordForm(w, r, role, FormModeEdit)
	}
}

func (h *PortalHandlers) handleRecordForm(w http.ResponseWriter, r *http.Request, role domainauth.Role, mode FormMode) {
	page, ok := h.lookup(w, r, role)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	HandleForm(FormHandlerOpts[model.RecordInput]{
		W:       w,
		R:       r,
		Mode:    mode,
		Parser:  recordFormParser(page),
		Service: pageRecords{svc: h.Records, ref: page.Ref()},
		Renderer: func(w http.ResponseWriter, r *http.Request, st FormState[model.RecordInput]) {
			h.renderFeature(w, r, featureView{
				page: page, status: st.Status, err: st.Err,
				mode: st.Mode, editID: st.ID, values: st.Data.Fields,
			})
		},
		SuccessURL: page.Path(),
		NotFound:   h.NotFound,
	})
}

// DeleteRecord removes a record from the page.
// POST /{role}/{page}/{id}/delete.
func (h *PortalHandlers) DeleteRecord(role domainauth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := h.lookup(w, r, role)
		if !ok {
			return
		}
		if err := h.Records.Delete(r.Context(), page.Ref(), r.PathValue("id")); err != nil {
			if apperrors.IsNotFound(err) {
				h.NotFound(w, r)
				return
			}
			h.renderFeature(w, r, featureView{page: page, status: StatusFor(err), err: err})
			return
		}
		http.Redirect(w, r, page.Path(), http.StatusSeeOther)
	}
}

func (h *PortalHandlers) lookup(w http.ResponseWriter, r *http.Request, role domainauth.Role) (model.Page, bool) {
	page, err := h.Records.Page(role, r.PathValue("page"))
	if err != nil {
		h.NotFound(w, r)
		return model.Page{}, false
	}
	return page, true
}

// userMessage returns an AppError's message, hiding internal causes.
func userMessage(err error) string {
	if StatusFor(err) == http.StatusInternalServerError {
		return "Something went wrong. Please try again."
	}
	if appErr := asAppError(err); appErr != nil {
		return appErr.Message
	}
	return err.Error()
}
