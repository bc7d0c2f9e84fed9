package cars

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is the backend-assigned identifier of a car. Backends send it either
// as a JSON string or a JSON number; it is always kept as text.
type ID string

// UnmarshalJSON accepts both "42" and 42.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("car id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("car id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Car is a single car record as returned by the backend.
type Car struct {
	ID          ID      `json:"id"`
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	Year        int     `json:"year"`
	Price       float64 `json:"price"`
	Mileage     int     `json:"mileage"`
	Color       string  `json:"color"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// NewCar is the payload sent to the backend to create a car.
type NewCar struct {
	Brand       string  `json:"brand" validate:"required,max=100"`
	Model       string  `json:"model" validate:"required,max=100"`
	Year        int     `json:"year" validate:"required,gte=1886,lte=2100"`
	Color       string  `json:"color" validate:"required,max=50"`
	Price       float64 `json:"price" validate:"gte=0"`
	Mileage     int     `json:"mileage" validate:"gte=0"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl" validate:"omitempty,url"`
}

// Title is "brand model".
func (c Car) Title() string {
	return strings.TrimSpace(c.Brand + " " + c.Model)
}

// ImageOr returns the car's image URL when it is an absolute http(s) URL,
// otherwise the placeholder.
func (c Car) ImageOr(placeholder string) string {
	if strings.HasPrefix(c.ImageURL, "http") {
		return c.ImageURL
	}
	return placeholder
}

// DescriptionOr returns the description, or fallback when it is empty.
func (c Car) DescriptionOr(fallback string) string {
	if strings.TrimSpace(c.Description) == "" {
		return fallback
	}
	return c.Description
}

// FormatPrice renders a price without trailing zero decimals.
func FormatPrice(p float64) string {
	s := fmt.Sprintf("%.2f", p)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
