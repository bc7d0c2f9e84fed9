package pages

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ziadkadry99/carfront/internal/activity"
	"github.com/ziadkadry99/carfront/internal/cars"
	"github.com/ziadkadry99/carfront/internal/live"
)

// ServePage renders the detail view when the path names the detail page
// and the list otherwise.
func (c *Controller) ServePage(w http.ResponseWriter, r *http.Request) {
	if page := chi.URLParam(r, "page"); page != "" && !strings.HasSuffix(page, ".html") {
		http.NotFound(w, r)
		return
	}
	if DetectMode(r.URL.Path, c.opts.DetailPage) == ModeDetail {
		c.serveDetail(w, r)
		return
	}
	c.serveList(w, r, http.StatusOK, createForm{})
}

func (c *Controller) serveList(w http.ResponseWriter, r *http.Request, status int, form createForm) {
	data := listData{
		base: c.base("Cars", ModeList, r),
		Form: form,
	}

	list, err := c.cars.ListCars(r.Context())
	if err != nil {
		log.Printf("pages: listing cars: %v", err)
	}
	for _, car := range list {
		id := car.ID.String()
		data.Cars = append(data.Cars, card{
			ID:          id,
			Title:       car.Title(),
			Image:       car.ImageOr(c.opts.ListImagePlaceholder),
			Description: car.DescriptionOr(noDescription),
			Price:       car.Price,
			DetailURL:   c.detailURL(id),
			DeleteURL:   deleteURL(id),
		})
	}
	if len(data.Cars) == 0 {
		data.Empty = noCars
	}

	c.render(w, status, "list.html", data)
}

func (c *Controller) serveDetail(w http.ResponseWriter, r *http.Request) {
	data := detailData{
		base:    c.base("Car", ModeDetail, r),
		ListURL: ListPath,
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		c.render(w, http.StatusOK, "detail.html", data)
		return
	}

	car, err := c.cars.GetCar(r.Context(), id)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, cars.ErrNotFound) {
			status = http.StatusNotFound
		} else {
			log.Printf("pages: fetching car %s: %v", id, err)
		}
		data.NotFound = notFound
		c.render(w, status, "detail.html", data)
		return
	}

	heading := strings.TrimSpace(strings.Join([]string{strconv.Itoa(car.Year), car.Brand, car.Model}, " "))
	data.Title = heading
	data.Car = &detailView{
		ID:          car.ID.String(),
		Heading:     heading,
		Image:       car.ImageOr(c.opts.DetailImagePlaceholder),
		Car:         *car,
		Description: c.markdown(car.DescriptionOr(noDescription)),
		DeleteURL:   deleteURL(id),
	}
	c.render(w, http.StatusOK, "detail.html", data)
}

func (c *Controller) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := createForm{Open: true, Values: make(map[string]string, len(cars.FormFields))}
	for _, f := range cars.FormFields {
		form.Values[f] = r.PostForm.Get(f)
	}

	nc, err := cars.ParseForm(r.PostForm)
	if err != nil {
		var fe *cars.FormError
		if errors.As(err, &fe) {
			form.Errors = fe.Fields
		} else {
			form.Alert = createFailed
		}
		c.serveList(w, r, http.StatusUnprocessableEntity, form)
		return
	}

	created, err := c.cars.CreateCar(r.Context(), nc)
	if err != nil {
		log.Printf("pages: creating car: %v", err)
		form.Alert = createFailed
		c.serveList(w, r, http.StatusBadGateway, form)
		return
	}

	id := created.ID.String()
	c.record(r, activity.ActionCarCreated, id, strings.TrimSpace(nc.Brand+" "+nc.Model))
	c.notify(live.ActionCreated, id)
	http.Redirect(w, r, ListPath+"?notice=created", http.StatusSeeOther)
}

func (c *Controller) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	c.serveConfirm(w, r, origin(r.URL.Query().Get("from")))
}

func (c *Controller) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	from := origin(r.PostForm.Get("from"))

	switch r.PostForm.Get("confirm") {
	case "yes":
	case "no":
		http.Redirect(w, r, c.originURL(from, id, ""), http.StatusSeeOther)
		return
	default:
		c.serveConfirm(w, r, from)
		return
	}

	if err := c.cars.DeleteCar(r.Context(), id); err != nil {
		log.Printf("pages: deleting car %s: %v", id, err)
		http.Redirect(w, r, c.originURL(from, id, "delete_failed"), http.StatusSeeOther)
		return
	}

	c.record(r, activity.ActionCarDeleted, id, "")
	c.notify(live.ActionDeleted, id)
	http.Redirect(w, r, ListPath+"?notice=deleted", http.StatusSeeOther)
}

func (c *Controller) serveConfirm(w http.ResponseWriter, r *http.Request, from Mode) {
	id := chi.URLParam(r, "id")
	c.render(w, http.StatusOK, "confirm.html", confirmData{
		base:      c.base("Delete car", from, r),
		ID:        id,
		From:      from,
		DeleteURL: deleteURL(id),
	})
}

func (c *Controller) record(r *http.Request, action activity.Action, id, summary string) {
	if c.opts.Recorder == nil {
		return
	}
	entry := activity.Entry{
		Action:     action,
		CarID:      id,
		Summary:    summary,
		RemoteAddr: r.RemoteAddr,
		RequestID:  middleware.GetReqID(r.Context()),
	}
	if err := c.opts.Recorder.Log(r.Context(), entry); err != nil {
		log.Printf("pages: recording %s for car %s: %v", action, id, err)
	}
}

func (c *Controller) notify(action, id string) {
	if c.opts.Notifier == nil {
		return
	}
	c.opts.Notifier.Broadcast(live.Event{Type: live.EventCarsChanged, Action: action, ID: id})
}
