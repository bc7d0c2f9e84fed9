package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listCarsTool defines the list_cars MCP tool.
var listCarsTool = mcp.NewTool("list_cars",
	mcp.WithDescription("List every car in the catalogue with its id, brand, model, year and price."),
)

// getCarTool defines the get_car MCP tool.
var getCarTool = mcp.NewTool("get_car",
	mcp.WithDescription("Get the full record of one car."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Car id as shown by list_cars"),
	),
)

// createCarTool defines the create_car MCP tool.
var createCarTool = mcp.NewTool("create_car",
	mcp.WithDescription("Add a car to the catalogue. Returns the created record."),
	mcp.WithString("brand", mcp.Required(), mcp.Description("Manufacturer, e.g. Peugeot")),
	mcp.WithString("model", mcp.Required(), mcp.Description("Model name, e.g. 208")),
	mcp.WithNumber("year", mcp.Required(), mcp.Description("Model year")),
	mcp.WithNumber("price", mcp.Required(), mcp.Description("Price in euros")),
	mcp.WithNumber("mileage", mcp.Required(), mcp.Description("Mileage in kilometres")),
	mcp.WithString("color", mcp.Required(), mcp.Description("Body colour")),
	mcp.WithString("description", mcp.Description("Free text, Markdown allowed")),
	mcp.WithString("image_url", mcp.Description("Absolute http(s) URL of a photo")),
)

// deleteCarTool defines the delete_car MCP tool.
var deleteCarTool = mcp.NewTool("delete_car",
	mcp.WithDescription("Delete a car from the catalogue. This cannot be undone."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Car id as shown by list_cars"),
	),
	mcp.WithBoolean("confirm",
		mcp.Required(),
		mcp.Description("Must be true to actually delete"),
	),
)
