package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"pwned/client"
	"pwned/internal/checker"
	"pwned/internal/digest"
)

const maxFormBytes = 4 << 10

type pageData struct {
	View  checker.View
	Value string
}

// Page is the server-rendered check form. Each request gets its own
// checker, so field state travels in the form itself.
type Page struct {
	tmpl   *template.Template
	lookup checker.Lookup
	logger zerolog.Logger
}

func NewPage(lookup checker.Lookup, logger zerolog.Logger) (*Page, error) {
	tmpl, err := template.ParseFS(client.Templates(), "index.html")
	if err != nil {
		return nil, err
	}
	return &Page{tmpl: tmpl, lookup: lookup, logger: logger}, nil
}

// Register mounts the page at the router root.
func (p *Page) Register(r chi.Router) {
	r.Get("/", p.show)
	r.Post("/", p.submit)
}

func (p *Page) show(w http.ResponseWriter, r *http.Request) {
	p.render(w, p.newChecker(), "")
}

func (p *Page) submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	c := p.newChecker()
	if r.PostForm.Get("visible") == "1" {
		c.ToggleVisibility()
	}
	value := r.PostForm.Get("password")
	if r.PostForm.Get("action") == "toggle" {
		c.ToggleVisibility()
	} else {
		c.Check(r.Context(), value)
	}
	p.render(w, c, value)
}

func (p *Page) newChecker() *checker.Checker {
	return checker.New(digest.SHA1{}, p.lookup, checker.WithLogger(p.logger))
}

func (p *Page) render(w http.ResponseWriter, c *checker.Checker, value string) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, pageData{View: c.View(), Value: value}); err != nil {
		p.logger.Error().Err(err).Msg("render page failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
