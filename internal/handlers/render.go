package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/staybnb/webserver/internal/forms"
	"github.com/staybnb/webserver/internal/logger"
	"github.com/staybnb/webserver/types"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageHome        = "home.html"
	pageRegister    = "register.html"
	pageLogin       = "login.html"
	pageWelcome     = "welcome.html"
	pageDashboard   = "dashboard.html"
	pageAddProperty = "add_property.html"
	pageError       = "error.html"
)

var pages = []string{
	pageHome,
	pageRegister,
	pageLogin,
	pageWelcome,
	pageDashboard,
	pageAddProperty,
	pageError,
}

// view is the data every page template receives.
type view struct {
	Title      string
	SignedIn   bool
	Flash      string
	User       *types.User
	Values     url.Values
	Errors     forms.FieldErrors
	Properties []types.Property
}

type formField struct {
	Name  string
	Label string
	Type  string
	Value string
	Error string
}

var templateFuncs = template.FuncMap{
	"field": func(name, label, kind string, v *view) formField {
		f := formField{Name: name, Label: label, Type: kind, Error: v.Errors.Get(name)}
		if kind != "password" {
			f.Value = v.Values.Get(name)
		}
		return f
	},
}

// Renderer executes the embedded page templates.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		t, err := template.New(page).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.templates[page] = t
	}
	return r, nil
}

// MustRenderer is NewRenderer for callers that cannot recover from a broken
// embedded template.
func MustRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// render writes page with status. The page is executed into a buffer first
// so a template failure still produces a clean 500.
func (rd *Renderer) render(w http.ResponseWriter, r *http.Request, status int, page string, data *view) {
	t, ok := rd.templates[page]
	if !ok {
		logger.FromRequest(r).Error().Str("page", page).Msg("unknown template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.FromRequest(r).Err(err).Str("page", page).Msg("render template failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// serverError logs err against the request and renders the error page.
func (rd *Renderer) serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logger.FromRequest(r).Err(err).Msg(msg)
	rd.render(w, r, http.StatusInternalServerError, pageError, &view{Title: "Internal server error"})
}
