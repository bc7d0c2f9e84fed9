package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/carfront/internal/cars"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the cars backend as tools.
type Server struct {
	cars cars.Service
	mcp  *server.MCPServer
}

// NewServer creates a new MCP server backed by svc.
func NewServer(svc cars.Service) *Server {
	s := &Server{cars: svc}

	s.mcp = server.NewMCPServer(
		"carfront",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listCarsTool, s.handleListCars)
	s.mcp.AddTool(getCarTool, s.handleGetCar)
	s.mcp.AddTool(createCarTool, s.handleCreateCar)
	s.mcp.AddTool(deleteCarTool, s.handleDeleteCar)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
