package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/target/campus-portal/internal/domain/model"
	apperrors "github.com/target/campus-portal/internal/errors"
	"github.com/target/campus-portal/internal/service"
)

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	// FormModeCreate adds a new record.
	FormModeCreate FormMode = "create"
	// FormModeEdit replaces an existing record's fields.
	FormModeEdit FormMode = "edit"
)

// FormParser reads a submitted form into T. A parse error is shown on the
// re-rendered form.
type FormParser[T any] func(r *http.Request) (T, error)

// FormService is the Create/Update pair a form submits to.
type FormService[T any] interface {
	Create(ctx context.Context, in T) error
	Update(ctx context.Context, id string, in T) error
}

// FormState is what a FormRenderer shows when a submission is rejected.
type FormState[T any] struct {
	Mode   FormMode
	ID     string
	Data   T
	Err    error
	Status int
}

// FormRenderer re-renders the form with the submitted data and its error.
type FormRenderer[T any] func(w http.ResponseWriter, r *http.Request, state FormState[T])

// FormHandlerOpts groups what HandleForm needs.
type FormHandlerOpts[T any] struct {
	W          http.ResponseWriter
	R          *http.Request
	Mode       FormMode
	Parser     FormParser[T]
	Service    FormService[T]
	Renderer   FormRenderer[T]
	SuccessURL string
	// GetID defaults to r.PathValue("id").
	GetID func(r *http.Request) string
	// NotFound handles an edit of a record that does not exist.
	NotFound http.HandlerFunc
}

// HandleForm runs one create or edit submission: parse, call the service,
// then redirect on success or re-render with the error.
func HandleForm[T any](opts FormHandlerOpts[T]) {
	if opts.Parser == nil || opts.Service == nil || opts.Renderer == nil {
		http.Error(opts.W, "misconfigured form handler", http.StatusInternalServerError)
		return
	}

	var id string
	switch opts.Mode {
	case FormModeCreate:
	case FormModeEdit:
		id = formID(opts)
		if id == "" {
			opts.notFound()
			return
		}
	default:
		http.Error(opts.W, "invalid form mode", http.StatusBadRequest)
		return
	}

	data, err := opts.Parser(opts.R)
	if err == nil {
		if opts.Mode == FormModeEdit {
			err = opts.Service.Update(opts.R.Context(), id, data)
		} else {
			err = opts.Service.Create(opts.R.Context(), data)
		}
	}
	if err != nil {
		opts.fail(id, data, err)
		return
	}
	http.Redirect(opts.W, opts.R, opts.SuccessURL, http.StatusSeeOther)
}

func formID[T any](opts FormHandlerOpts[T]) string {
	if opts.GetID != nil {
		return opts.GetID(opts.R)
	}
	return opts.R.PathValue("id")
}

func (opts FormHandlerOpts[T]) notFound() {
	if opts.NotFound != nil {
		opts.NotFound(opts.W, opts.R)
		return
	}
	http.NotFound(opts.W, opts.R)
}

func (opts FormHandlerOpts[T]) fail(id string, data T, err error) {
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		http.Error(opts.W, "request canceled", http.StatusRequestTimeout)
	case opts.Mode == FormModeEdit && apperrors.IsNotFound(err):
		opts.notFound()
	default:
		opts.Renderer(opts.W, opts.R, FormState[T]{
			Mode:   opts.Mode,
			ID:     id,
			Data:   data,
			Err:    err,
			Status: StatusFor(err),
		})
	}
}

// pageRecords binds a RecordService to one page so record forms can use HandleForm.
type pageRecords struct {
	svc *service.RecordService
	ref model.PageRef
}

func (p pageRecords) Create(ctx context.Context, in model.RecordInput) error {
	_, err := p.svc.Create(ctx, p.ref, in)
	return err
}

func (p pageRecords) Update(ctx context.Context, id string, in model.RecordInput) error {
	_, err := p.svc.Update(ctx, p.ref, id, in)
	return err
}

// recordFormParser reads the page's declared fields from a posted form.
func recordFormParser(page model.Page) FormParser[model.RecordInput] {
	return func(r *http.Request) (model.RecordInput, error) {
		if err := r.ParseForm(); err != nil {
			return model.RecordInput{}, apperrors.Validation("the form could not be read")
		}
		values := make(map[string]string, len(page.Fields))
		for _, f := range page.Fields {
			values[f.Name] = r.PostFormValue(f.Name)
		}
		return model.RecordInput{Fields: values}, nil
	}
}
