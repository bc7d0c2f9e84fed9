package pages

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/carfront/internal/activity"
	"github.com/ziadkadry99/carfront/internal/cars"
	"github.com/ziadkadry99/carfront/internal/live"
)

const (
	listPlaceholder   = "https://img.example/placeholder-300x200.png"
	detailPlaceholder = "https://img.example/placeholder-600x400.png"
)

type fakeService struct {
	mu      sync.Mutex
	cars    []cars.Car
	listErr error
	getErr  error
	postErr error
	delErr  error

	created []cars.NewCar
	deleted []string
}

func (f *fakeService) ListCars(ctx context.Context) ([]cars.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]cars.Car(nil), f.cars...), nil
}

func (f *fakeService) GetCar(ctx context.Context, id string) (*cars.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, c := range f.cars {
		if c.ID.String() == id {
			c := c
			return &c, nil
		}
	}
	return nil, cars.ErrNotFound
}

func (f *fakeService) CreateCar(ctx context.Context, nc cars.NewCar) (*cars.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, nc)
	if f.postErr != nil {
		return nil, f.postErr
	}
	return &cars.Car{ID: "99", Brand: nc.Brand, Model: nc.Model}, nil
}

func (f *fakeService) DeleteCar(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.delErr
}

type fakeRecorder struct {
	entries []activity.Entry
}

func (f *fakeRecorder) Log(ctx context.Context, e activity.Entry) error {
	f.entries = append(f.entries, e)
	return nil
}

type fakeNotifier struct {
	events []live.Event
}

func (f *fakeNotifier) Broadcast(ev live.Event) {
	f.events = append(f.events, ev)
}

func sampleCars() []cars.Car {
	return []cars.Car{
		{ID: "1", Brand: "Peugeot", Model: "208", Year: 2019, Price: 12500, Mileage: 42000, Color: "Red",
			Description: "A **great** car.<script>alert(1)</script>", ImageURL: "https://img.example/208.jpg"},
		{ID: "2", Brand: "Renault", Model: "Clio", Year: 2018, Price: 9999.5, Mileage: 60000, Color: "Blue",
			ImageURL: "/local.jpg"},
		{ID: "3", Brand: "Tesla", Model: "Model 3", Year: 2021, Price: 38000, Mileage: 15000, Color: "White"},
	}
}

type harness struct {
	svc      *fakeService
	recorder *fakeRecorder
	notifier *fakeNotifier
	router   chi.Router
}

func newHarness(t *testing.T, svc *fakeService) *harness {
	t.Helper()
	h := &harness{svc: svc, recorder: &fakeRecorder{}, notifier: &fakeNotifier{}}
	c, err := New(svc, Options{
		ListImagePlaceholder:   listPlaceholder,
		DetailImagePlaceholder: detailPlaceholder,
		Recorder:               h.recorder,
		Notifier:               h.notifier,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := chi.NewRouter()
	c.RegisterRoutes(r)
	h.router = r
	return h
}

func (h *harness) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func (h *harness) post(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestDetectMode(t *testing.T) {
	tests := []struct {
		path string
		want Mode
	}{
		{"/", ModeList},
		{"/index.html", ModeList},
		{"/car.html", ModeDetail},
		{"/front/car.html", ModeDetail},
		{"/cars.html", ModeList},
	}
	for _, tt := range tests {
		if got := DetectMode(tt.path, "car.html"); got != tt.want {
			t.Errorf("DetectMode(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestListRendersOneCardPerCar(t *testing.T) {
	h := newHarness(t, &fakeService{cars: sampleCars()})

	w := h.get(t, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()

	if n := strings.Count(body, `<article class="card`); n != 3 {
		t.Errorf("rendered %d cards, want 3", n)
	}
	for _, want := range []string{
		"Peugeot 208",
		"12500 €",
		"9999.5 €",
		`src="https://img.example/208.jpg"`,
		`href="/car.html?id=1"`,
		`action="/cars/2/delete"`,
		`class="btn btn-outline-danger btn-sm btn-delete" data-id="3"`,
		"No description",
		`class="card-cont`,
		`id="carForm"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	// Relative and missing image URLs both fall back.
	if n := strings.Count(body, listPlaceholder); n != 2 {
		t.Errorf("placeholder used %d times, want 2", n)
	}
	if strings.Contains(body, noCars) {
		t.Error("empty message shown alongside cards")
	}
}

func TestListEmptyOrFailing(t *testing.T) {
	tests := []struct {
		name string
		svc  *fakeService
	}{
		{"empty", &fakeService{}},
		{"backend error", &fakeService{cars: sampleCars(), listErr: errors.New("connection refused")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newHarness(t, tt.svc).get(t, "/index.html")
			body := w.Body.String()
			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", w.Code)
			}
			if !strings.Contains(body, "No cars available.") {
				t.Error("missing empty message")
			}
			if strings.Contains(body, `<article class="card`) {
				t.Error("cards rendered")
			}
		})
	}
}

func TestDetail(t *testing.T) {
	h := newHarness(t, &fakeService{cars: sampleCars()})

	w := h.get(t, "/car.html?id=1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		"2019 Peugeot 208",
		`<table class="table specs">`,
		"42000 km",
		"12500 €",
		"<strong>great</strong>",
		`href="/"`,
		`action="/cars/1/delete"`,
		`name="from" value="detail"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("raw HTML from the description was passed through")
	}
}

func TestDetailPlaceholderAndNoDescription(t *testing.T) {
	h := newHarness(t, &fakeService{cars: sampleCars()})
	body := h.get(t, "/car.html?id=3").Body.String()
	if !strings.Contains(body, detailPlaceholder) {
		t.Error("missing detail placeholder")
	}
	if !strings.Contains(body, "No description") {
		t.Error("missing description fallback")
	}
}

func TestDetailNotFound(t *testing.T) {
	h := newHarness(t, &fakeService{cars: sampleCars()})

	w := h.get(t, "/car.html?id=404")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Not found.") {
		t.Error("missing not-found message")
	}
	if strings.Contains(body, "<table") || strings.Contains(body, "btn-delete") {
		t.Error("record fields rendered for a missing car")
	}
}

func TestDetailBackendError(t *testing.T) {
	h := newHarness(t, &fakeService{getErr: &cars.StatusError{Op: "get car", StatusCode: 500}})

	w := h.get(t, "/car.html?id=1")
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Not found.") {
		t.Error("missing not-found message")
	}
}

func TestDetailWithoutID(t *testing.T) {
	h := newHarness(t, &fakeService{cars: sampleCars()})

	w := h.get(t, "/car.html")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `<div id="car-detail">`) {
		t.Error("missing detail container")
	}
	if strings.Contains(body, "Not found.") || strings.Contains(body, "<table") {
		t.Error("detail container should be empty")
	}
}

func validForm() url.Values {
	return url.Values{
		"brand":       {"Peugeot"},
		"model":       {"308"},
		"year":        {"2020"},
		"color":       {"Grey"},
		"price":       {"15000,50"},
		"mileage":     {"30000"},
		"description": {"Clean"},
		"imageUrl":    {""},
	}
}

func TestCreate(t *testing.T) {
	svc := &fakeService{}
	h := newHarness(t, svc)

	w := h.post(t, "/cars", validForm())
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/?notice=created" {
		t.Errorf("Location = %q", loc)
	}

	if len(svc.created) != 1 {
		t.Fatalf("backend saw %d creates, want 1", len(svc.created))
	}
	got := svc.created[0]
	if got.Year != 2020 || got.Price != 15000.5 || got.Mileage != 30000 || got.Brand != "Peugeot" {
		t.Errorf("created = %+v", got)
	}

	if len(h.recorder.entries) != 1 || h.recorder.entries[0].Action != activity.ActionCarCreated || h.recorder.entries[0].CarID != "99" {
		t.Errorf("activity = %+v", h.recorder.entries)
	}
	if len(h.notifier.events) != 1 || h.notifier.events[0].Action != live.ActionCreated {
		t.Errorf("events = %+v", h.notifier.events)
	}

	list := h.get(t, "/?notice=created").Body.String()
	if !strings.Contains(list, "Car added!") {
		t.Error("missing created notice")
	}
}

func TestCreateValidationError(t *testing.T) {
	svc := &fakeService{cars: sampleCars()}
	h := newHarness(t, svc)

	form := validForm()
	form.Set("year", "soon")
	w := h.post(t, "/cars", form)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
	if len(svc.created) != 0 {
		t.Errorf("backend saw %d creates, want 0", len(svc.created))
	}
	body := w.Body.String()
	for _, want := range []string{
		`class="create-dialog" open`,
		"Year must be a whole number",
		`value="Peugeot"`,
		`value="soon"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if n := strings.Count(body, `<article class="card`); n != 3 {
		t.Errorf("rendered %d cards behind the dialog, want 3", n)
	}
}

func TestPlaceholderIsEscapedInSrc(t *testing.T) {
	svc := &fakeService{cars: []cars.Car{{ID: "1", Brand: "Peugeot", Model: "208", Year: 2019}}}
	h := &harness{svc: svc}
	c, err := New(svc, Options{ListImagePlaceholder: "https://via.placeholder.com/300x200?text=No+Image"})
	if err != nil {
		t.Fatal(err)
	}
	r := chi.NewRouter()
	c.RegisterRoutes(r)
	h.router = r

	body := h.get(t, "/").Body.String()
	if !strings.Contains(body, `src="https://via.placeholder.com/300x200?text=No&#43;Image"`) {
		t.Error("placeholder not rendered as the card image")
	}
}

func TestCreateRejectsNonFinitePrice(t *testing.T) {
	svc := &fakeService{}
	h := newHarness(t, svc)

	form := validForm()
	form.Set("price", "inf")
	w := h.post(t, "/cars", form)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Price (€) must be a number") {
		t.Error("missing price error")
	}
	if len(svc.created) != 0 {
		t.Errorf("backend saw %d creates, want 0", len(svc.created))
	}
}

func TestFormsRejectCrossSitePosts(t *testing.T) {
	svc := &fakeService{cars: sampleCars()}
	h := newHarness(t, svc)

	for _, target := range []string{"/cars/2/delete", "/cars"} {
		form := validForm()
		form.Set("confirm", "yes")
		form.Set("from", "list")
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Origin", "https://evil.example")
		req.Header.Set("Sec-Fetch-Site", "cross-site")
		w := httptest.NewRecorder()
		h.router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("%s: status = %d, want 403", target, w.Code)
		}
	}
	if len(svc.deleted) != 0 || len(svc.created) != 0 {
		t.Errorf("backend called: deleted=%v created=%d", svc.deleted, len(svc.created))
	}

	// The same delete from the page itself goes through.
	req := httptest.NewRequest(http.MethodPost, "http://example.com/cars/2/delete",
		strings.NewReader(url.Values{"from": {"list"}, "confirm": {"yes"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther || len(svc.deleted) != 1 {
		t.Errorf("same-origin delete: status %d, deleted %v", w.Code, svc.deleted)
	}
}

func TestCreateBackendFailure(t *testing.T) {
	svc := &fakeService{postErr: &cars.StatusError{Op: "create car", StatusCode: 500}}
	h := newHarness(t, svc)

	w := h.post(t, "/cars", validForm())
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Error while adding the car.") {
		t.Error("missing failure alert")
	}
	if !strings.Contains(body, `value="308"`) {
		t.Error("submitted values not kept")
	}
	if len(h.recorder.entries) != 0 || len(h.notifier.events) != 0 {
		t.Error("failed create was recorded")
	}
}

func TestDeleteConfirmed(t *testing.T) {
	for _, from := range []string{"list", "detail"} {
		t.Run(from, func(t *testing.T) {
			svc := &fakeService{cars: sampleCars()}
			h := newHarness(t, svc)

			w := h.post(t, "/cars/2/delete", url.Values{"from": {from}, "confirm": {"yes"}})
			if w.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want 303", w.Code)
			}
			if loc := w.Header().Get("Location"); loc != "/?notice=deleted" {
				t.Errorf("Location = %q", loc)
			}
			if len(svc.deleted) != 1 || svc.deleted[0] != "2" {
				t.Errorf("deleted = %v, want [2]", svc.deleted)
			}
			if len(h.recorder.entries) != 1 || h.recorder.entries[0].Action != activity.ActionCarDeleted {
				t.Errorf("activity = %+v", h.recorder.entries)
			}
			if len(h.notifier.events) != 1 || h.notifier.events[0].ID != "2" {
				t.Errorf("events = %+v", h.notifier.events)
			}
		})
	}
}

func TestDeleteWithoutConfirmation(t *testing.T) {
	svc := &fakeService{cars: sampleCars()}
	h := newHarness(t, svc)

	w := h.post(t, "/cars/2/delete", url.Values{"from": {"list"}, "confirm": {""}})
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Delete this car?") || !strings.Contains(body, `value="yes"`) {
		t.Error("confirmation page not rendered")
	}

	w = h.get(t, "/cars/2/delete?from=detail")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `name="from" value="detail"`) {
		t.Errorf("GET confirmation: status %d", w.Code)
	}

	if len(svc.deleted) != 0 {
		t.Errorf("deleted = %v, want none", svc.deleted)
	}
}

func TestDeleteDeclined(t *testing.T) {
	svc := &fakeService{cars: sampleCars()}
	h := newHarness(t, svc)

	w := h.post(t, "/cars/7/delete", url.Values{"from": {"detail"}, "confirm": {"no"}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/car.html?id=7" {
		t.Errorf("Location = %q", loc)
	}
	if len(svc.deleted) != 0 {
		t.Errorf("deleted = %v, want none", svc.deleted)
	}
}

func TestDeleteFailure(t *testing.T) {
	tests := []struct {
		from string
		want string
	}{
		{"list", "/?notice=delete_failed"},
		{"detail", "/car.html?id=1&notice=delete_failed"},
	}
	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			svc := &fakeService{cars: sampleCars(), delErr: errors.New("boom")}
			h := newHarness(t, svc)

			w := h.post(t, "/cars/1/delete", url.Values{"from": {tt.from}, "confirm": {"yes"}})
			if loc := w.Header().Get("Location"); loc != tt.want {
				t.Errorf("Location = %q, want %q", loc, tt.want)
			}
			if len(svc.deleted) != 1 {
				t.Errorf("backend saw %d deletes, want 1", len(svc.deleted))
			}
			if len(h.recorder.entries) != 0 {
				t.Error("failed delete was recorded")
			}
		})
	}

	h := newHarness(t, &fakeService{cars: sampleCars()})
	if body := h.get(t, "/car.html?id=1&notice=delete_failed").Body.String(); !strings.Contains(body, "Unable to delete the car.") {
		t.Error("missing delete failure notice")
	}
}

func TestNotices(t *testing.T) {
	h := newHarness(t, &fakeService{})

	if body := h.get(t, "/?notice=deleted").Body.String(); !strings.Contains(body, "Car deleted!") {
		t.Error("missing deleted notice")
	}
	body := h.get(t, "/?notice=%3Cb%3Ehi%3C%2Fb%3E").Body.String()
	if strings.Contains(body, "<b>hi</b>") || strings.Contains(body, `class="alert alert-`) {
		t.Error("unknown notice rendered")
	}
}

func TestStaticAndUnknownPages(t *testing.T) {
	h := newHarness(t, &fakeService{})

	w := h.get(t, "/static/script.js")
	if w.Code != http.StatusOK {
		t.Fatalf("script status = %d", w.Code)
	}
	js, _ := io.ReadAll(w.Body)
	if !strings.Contains(string(js), "Are you sure you want to delete this car? This cannot be undone.") {
		t.Error("script missing confirmation text")
	}

	if w := h.get(t, "/favicon.ico"); w.Code != http.StatusNotFound {
		t.Errorf("favicon status = %d, want 404", w.Code)
	}
}

func TestLiveFlag(t *testing.T) {
	c, err := New(&fakeService{}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	r := chi.NewRouter()
	c.RegisterRoutes(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if strings.Contains(w.Body.String(), "data-live") {
		t.Error("live updates advertised without a notifier")
	}
}
