package cars

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Form field names. They match the ids of the inputs in the creation form
// and the JSON keys of NewCar.
const (
	FieldBrand       = "brand"
	FieldModel       = "model"
	FieldYear        = "year"
	FieldColor       = "color"
	FieldPrice       = "price"
	FieldMileage     = "mileage"
	FieldDescription = "description"
	FieldImageURL    = "imageUrl"
)

// FormFields lists every creation form field in display order.
var FormFields = []string{
	FieldBrand, FieldModel, FieldYear, FieldColor,
	FieldPrice, FieldMileage, FieldDescription, FieldImageURL,
}

// FormError reports invalid form fields, keyed by field name.
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return "invalid car form: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseForm reads the creation form values into a NewCar. Year and
// mileage are parsed as integers and price as a decimal, so the backend
// receives numbers rather than text. Any problem is returned as a
// *FormError; the partially parsed car is returned alongside it.
func ParseForm(values url.Values) (NewCar, error) {
	get := func(name string) string { return strings.TrimSpace(values.Get(name)) }

	car := NewCar{
		Brand:       get(FieldBrand),
		Model:       get(FieldModel),
		Color:       get(FieldColor),
		Description: get(FieldDescription),
		ImageURL:    get(FieldImageURL),
	}
	fields := make(map[string]string)

	if s := get(FieldYear); s == "" {
		fields[FieldYear] = "is required"
	} else if n, err := strconv.Atoi(s); err != nil {
		fields[FieldYear] = "must be a whole number"
	} else {
		car.Year = n
	}

	if s := get(FieldPrice); s == "" {
		fields[FieldPrice] = "is required"
	} else if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		fields[FieldPrice] = "must be a number"
	} else {
		car.Price = f
	}

	if s := get(FieldMileage); s == "" {
		fields[FieldMileage] = "is required"
	} else if n, err := strconv.Atoi(s); err != nil {
		fields[FieldMileage] = "must be a whole number"
	} else {
		car.Mileage = n
	}

	if err := validate.Struct(car); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return car, fmt.Errorf("validating car form: %w", err)
		}
		for _, fe := range verrs {
			if _, seen := fields[fe.Field()]; seen {
				continue
			}
			fields[fe.Field()] = fieldMessage(fe)
		}
	}

	if len(fields) > 0 {
		return car, &FormError{Fields: fields}
	}
	return car, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}
