// Package pages renders the car list and detail pages and handles the
// create and delete forms posted from them.
package pages

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ziadkadry99/carfront/internal/activity"
	"github.com/ziadkadry99/carfront/internal/cars"
	"github.com/ziadkadry99/carfront/internal/config"
	"github.com/ziadkadry99/carfront/internal/live"
	"github.com/ziadkadry99/carfront/internal/server"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// ListPath is where the list page lives.
const ListPath = "/"

// Options configures a Controller.
type Options struct {
	DetailPage             string
	ListImagePlaceholder   string
	DetailImagePlaceholder string

	// Recorder and Notifier are optional.
	Recorder activity.Recorder
	Notifier live.Notifier
}

// OptionsFromConfig fills the page settings from cfg.
func OptionsFromConfig(cfg config.PagesConfig) Options {
	return Options{
		DetailPage:             cfg.DetailPage,
		ListImagePlaceholder:   cfg.ListImagePlaceholder,
		DetailImagePlaceholder: cfg.DetailImagePlaceholder,
	}
}

// Controller serves the list and detail pages.
type Controller struct {
	cars  cars.Service
	opts  Options
	pages map[string]*template.Template
	md    goldmark.Markdown
}

var pageFiles = []string{"list.html", "detail.html", "confirm.html"}

// New parses the page templates and returns a Controller backed by svc.
func New(svc cars.Service, opts Options) (*Controller, error) {
	if opts.DetailPage == "" {
		opts.DetailPage = config.DefaultDetailPage
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Controller{
		cars:  svc,
		opts:  opts,
		pages: pages,
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}, nil
}

// RegisterRoutes mounts the pages, the form endpoints and the static assets.
func (c *Controller) RegisterRoutes(r chi.Router) {
	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	forms := r.With(server.SameOrigin)
	forms.Post("/cars", c.handleCreate)
	r.Get("/cars/{id}/delete", c.handleConfirmDelete)
	forms.Post("/cars/{id}/delete", c.handleDelete)

	r.Get("/", c.ServePage)
	r.Get("/{page}", c.ServePage)
}
