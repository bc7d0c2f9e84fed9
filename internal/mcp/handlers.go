package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/carfront/internal/cars"
)

// handleListCars returns every car, one per line.
func (s *Server) handleListCars(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.cars.ListCars(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing cars failed: %v", err)), nil
	}
	if len(list) == 0 {
		return mcp.NewToolResultText("No cars available."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d car(s):\n", len(list)))
	for _, c := range list {
		sb.WriteString(fmt.Sprintf("- [%s] %d %s, %s €\n", c.ID, c.Year, c.Title(), cars.FormatPrice(c.Price)))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetCar returns the full record of one car.
func (s *Server) handleGetCar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	car, err := s.cars.GetCar(ctx, id)
	if errors.Is(err, cars.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("No car with id %q.", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetching car failed: %v", err)), nil
	}

	return mcp.NewToolResultText(formatCar(car)), nil
}

// handleCreateCar validates the arguments the same way the creation form
// does and posts the car.
func (s *Server) handleCreateCar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	values := url.Values{}
	for arg, field := range map[string]string{
		"brand":       cars.FieldBrand,
		"model":       cars.FieldModel,
		"color":       cars.FieldColor,
		"description": cars.FieldDescription,
		"image_url":   cars.FieldImageURL,
	} {
		values.Set(field, request.GetString(arg, ""))
	}
	for _, field := range []string{cars.FieldYear, cars.FieldPrice, cars.FieldMileage} {
		n, err := request.RequireFloat(field)
		if err != nil {
			return mcp.NewToolResultError("missing required parameter: " + field), nil
		}
		values.Set(field, strconv.FormatFloat(n, 'f', -1, 64))
	}

	nc, err := cars.ParseForm(values)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	created, err := s.cars.CreateCar(ctx, nc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("creating car failed: %v", err)), nil
	}
	return mcp.NewToolResultText("Car added!\n\n" + formatCar(created)), nil
}

// handleDeleteCar deletes a car when confirm is true.
func (s *Server) handleDeleteCar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}
	if !request.GetBool("confirm", false) {
		return mcp.NewToolResultError("Not deleted: set confirm to true to delete this car."), nil
	}

	if err := s.cars.DeleteCar(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Unable to delete the car: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Car deleted! (id %s)", id)), nil
}

// formatCar renders a record as the same fields the detail page shows.
func formatCar(c *cars.Car) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d %s\n", c.Year, c.Title()))
	sb.WriteString(fmt.Sprintf("ID: %s\n", c.ID))
	sb.WriteString(fmt.Sprintf("Brand: %s\n", c.Brand))
	sb.WriteString(fmt.Sprintf("Model: %s\n", c.Model))
	sb.WriteString(fmt.Sprintf("Year: %d\n", c.Year))
	sb.WriteString(fmt.Sprintf("Price: %s €\n", cars.FormatPrice(c.Price)))
	sb.WriteString(fmt.Sprintf("Mileage: %d km\n", c.Mileage))
	sb.WriteString(fmt.Sprintf("Color: %s\n", c.Color))
	if c.ImageURL != "" {
		sb.WriteString(fmt.Sprintf("Image: %s\n", c.ImageURL))
	}
	sb.WriteString("\n")
	sb.WriteString(c.DescriptionOr("No description"))
	sb.WriteString("\n")
	return sb.String()
}
