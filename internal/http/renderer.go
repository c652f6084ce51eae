package httpx

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/http/uiutil"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplateRenderer renders the portal's HTML pages.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // defaults to the embedded templates
	Logger     *slog.Logger // optional
}

// NewTemplateRenderer parses the layout and every content template.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	fsys := cfg.TemplateFS
	if fsys == nil {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, fmt.Errorf("open embedded templates: %w", err)
		}
		fsys = sub
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &TemplateRenderer{logger: logger}
	t, err := template.New("root").Funcs(r.funcs()).ParseFS(fsys, "*.tmpl")
	if err != nil {
		logger.Error("template parsing failed", slog.Any("error", err))
		return nil, err
	}
	r.t = t
	return r, nil
}

func (r *TemplateRenderer) funcs() template.FuncMap {
	return template.FuncMap{
		"renderSection": func(page string, data any) (template.HTML, error) {
			if r.t == nil {
				return "", errors.New("template not initialized")
			}
			var buf bytes.Buffer
			if err := r.t.ExecuteTemplate(&buf, ContentTemplateFor(page), data); err != nil {
				return "", err
			}
			// #nosec G203 - output of our own html/template execution, already escaped.
			return template.HTML(buf.String()), nil
		},
		"roleLabel": func(role domainauth.Role) string { return role.Label() },
		"field": func(values map[string]string, name string) string {
			return values[name]
		},
		"friendlyTime": uiutil.FormatFriendlyDateTime,
		"ago": func(t time.Time) string {
			return uiutil.FriendlyRelativeTime(t, time.Now())
		},
		"truncate": func(s string) string {
			return uiutil.TruncateWithEllipsis(s, maxCellRunes)
		},
		// safeURL allows the avatar data URL through html/template's URL filter;
		// the avatar service only stores data:image/ URLs.
		"safeURL": func(s string) template.URL {
			return template.URL(s) // #nosec G203
		},
	}
}

// Render writes the full layout with status.
func (r *TemplateRenderer) Render(w http.ResponseWriter, status int, data PageData) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("page", data.CurrentPage),
			slog.Any("error", err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template", slog.Any("error", err))
		return err
	}
	return nil
}
