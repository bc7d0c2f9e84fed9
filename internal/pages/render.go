package pages

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"net/url"

	"github.com/ziadkadry99/carfront/internal/cars"
)

const (
	noDescription = "No description"
	noCars        = "No cars available."
	notFound      = "Not found."
	createFailed  = "Error while adding the car."
)

var funcs = template.FuncMap{
	"price": func(p float64) string { return cars.FormatPrice(p) + " €" },
	"field": newField,
	"deleteForm": func(id, url, from string) deleteControl {
		return deleteControl{ID: id, URL: url, From: from}
	},
}

type deleteControl struct {
	ID   string
	URL  string
	From string
}

// field is one input of the creation dialog.
type field struct {
	Name  string
	Label string
	Type  string
	Value string
	Error string
}

func newField(form createForm, name, label, typ string) field {
	return field{
		Name:  name,
		Label: label,
		Type:  typ,
		Value: form.Values[name],
		Error: form.Errors[name],
	}
}

// notice is a flash message selected by the ?notice= query value.
type notice struct {
	Kind string
	Text string
}

var notices = map[string]notice{
	"created":       {Kind: "success", Text: "Car added!"},
	"deleted":       {Kind: "success", Text: "Car deleted!"},
	"delete_failed": {Kind: "danger", Text: "Unable to delete the car."},
}

func noticeFor(r *http.Request) *notice {
	n, ok := notices[r.URL.Query().Get("notice")]
	if !ok {
		return nil
	}
	return &n
}

type base struct {
	Title      string
	Mode       Mode
	Notice     *notice
	Live       bool
	DetailPage string
}

type card struct {
	ID          string
	Title       string
	Image       string
	Description string
	Price       float64
	DetailURL   string
	DeleteURL   string
}

type createForm struct {
	Open   bool
	Alert  string
	Values map[string]string
	Errors map[string]string
}

type listData struct {
	base
	Cars  []card
	Empty string
	Form  createForm
}

type detailView struct {
	ID          string
	Heading     string
	Image       string
	Car         cars.Car
	Description template.HTML
	DeleteURL   string
}

type detailData struct {
	base
	Car      *detailView
	NotFound string
	ListURL  string
}

type confirmData struct {
	base
	ID        string
	From      Mode
	DeleteURL string
}

func (c *Controller) base(title string, mode Mode, r *http.Request) base {
	return base{
		Title:      title,
		Mode:       mode,
		Notice:     noticeFor(r),
		Live:       c.opts.Notifier != nil,
		DetailPage: c.opts.DetailPage,
	}
}

func (c *Controller) detailURL(id string) string {
	return "/" + c.opts.DetailPage + "?" + url.Values{"id": {id}}.Encode()
}

func deleteURL(id string) string {
	return "/cars/" + url.PathEscape(id) + "/delete"
}

// originURL is where a delete started, with an optional notice attached.
func (c *Controller) originURL(from Mode, id, notice string) string {
	q := url.Values{}
	if notice != "" {
		q.Set("notice", notice)
	}
	if from == ModeDetail {
		q.Set("id", id)
		return "/" + c.opts.DetailPage + "?" + q.Encode()
	}
	if len(q) == 0 {
		return ListPath
	}
	return ListPath + "?" + q.Encode()
}

// markdown renders a description. Raw HTML in the source is dropped.
func (c *Controller) markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(src), &buf); err != nil {
		log.Printf("pages: rendering description: %v", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

func (c *Controller) render(w http.ResponseWriter, status int, page string, data any) {
	var buf bytes.Buffer
	if err := c.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("pages: rendering %s: %v", page, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
