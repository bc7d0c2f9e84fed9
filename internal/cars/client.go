package cars

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned by GetCar when the backend answers 404.
var ErrNotFound = errors.New("car not found")

// StatusError is returned when the backend answers with a non-success status.
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: backend returned %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
}

// Service is the set of backend operations the rest of carfront needs.
type Service interface {
	ListCars(ctx context.Context) ([]Car, error)
	GetCar(ctx context.Context, id string) (*Car, error)
	CreateCar(ctx context.Context, car NewCar) (*Car, error)
	DeleteCar(ctx context.Context, id string) error
}

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL   string
	CarsPath  string
	Timeout   time.Duration
	UserAgent string
}

// Client talks to the cars REST backend.
type Client struct {
	collectionURL string
	userAgent     string
	client        *http.Client
}

var _ Service = (*Client)(nil)

// NewClient creates a backend client. The collection URL is BaseURL
// joined with CarsPath; items live under it as /{id}.
func NewClient(cfg ClientConfig) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing backend base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend base url %q must be http or https", cfg.BaseURL)
	}

	path := "/" + strings.Trim(cfg.CarsPath, "/")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "carfront"
	}

	return &Client{
		collectionURL: base.String() + path,
		userAgent:     ua,
		client:        &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) itemURL(id string) string {
	return c.collectionURL + "/" + url.PathEscape(id)
}

// ListCars fetches every car.
func (c *Client) ListCars(ctx context.Context) ([]Car, error) {
	var list []Car
	if err := c.do(ctx, "list cars", http.MethodGet, c.collectionURL, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetCar fetches one car. It returns ErrNotFound when the backend answers 404.
func (c *Client) GetCar(ctx context.Context, id string) (*Car, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	var car Car
	err := c.do(ctx, "get car", http.MethodGet, c.itemURL(id), nil, &car)
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &car, nil
}

// CreateCar posts a new car and returns the record the backend created.
func (c *Client) CreateCar(ctx context.Context, car NewCar) (*Car, error) {
	body, err := json.Marshal(car)
	if err != nil {
		return nil, fmt.Errorf("marshal car: %w", err)
	}
	var created Car
	if err := c.do(ctx, "create car", http.MethodPost, c.collectionURL, body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteCar deletes a car. Only the status matters; the body is ignored.
func (c *Client) DeleteCar(ctx context.Context, id string) error {
	return c.do(ctx, "delete car", http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, addr string, body []byte, out any) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, addr, r)
	if err != nil {
		return fmt.Errorf("%s: building request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))
		return &StatusError{Op: op, StatusCode: res.StatusCode}
	}

	if out == nil {
		io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}
