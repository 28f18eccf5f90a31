package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/snipvault/snipvault/internal/core/ports"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the snippet library to AI agents.
// Every tool is read-only; execution stays behind the HTTP API.
type Server struct {
	analyzer  ports.ContentAnalyzer
	library   ports.LibraryReader
	organizer ports.LibraryOrganizer
	mcp       *server.MCPServer
}

func NewServer(analyzer ports.ContentAnalyzer, library ports.LibraryReader, organizer ports.LibraryOrganizer) *Server {
	s := &Server{
		analyzer:  analyzer,
		library:   library,
		organizer: organizer,
	}

	s.mcp = server.NewMCPServer(
		"snipvault",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(searchLibraryTool, s.handleSearchLibrary)
	s.mcp.AddTool(classifyTextTool, s.handleClassifyText)
	s.mcp.AddTool(proposeNameTool, s.handleProposeName)
	s.mcp.AddTool(organizationReportTool, s.handleOrganizationReport)
}

// Serve starts the MCP server on stdio. Stdout carries MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
