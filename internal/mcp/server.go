// ABOUTME: MCP server setup for the liftlog workout tracker.
// ABOUTME: Wraps the MCP server around a mounted Tracker and the exercise catalog.
package mcp

import (
	"context"
	"errors"

	"github.com/harperreed/liftlog/internal/catalog"
	"github.com/harperreed/liftlog/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with tracker access.
type Server struct {
	mcpServer *mcp.Server
	tracker   *tracker.Tracker
	catalog   *catalog.Catalog
}

// NewServer creates a new MCP server. The tracker must already be mounted.
func NewServer(t *tracker.Tracker, c *catalog.Catalog, version string) (*Server, error) {
	if t == nil {
		return nil, errors.New("tracker is required")
	}
	if c == nil {
		return nil, errors.New("catalog is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "liftlog",
			Version: version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		tracker:   t,
		catalog:   c,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// resolveWorkout expands an id prefix, reloading the mirror once if another
// process may have written since mount.
func (s *Server) resolveWorkout(ctx context.Context, prefix string) (string, error) {
	id, err := s.tracker.ResolveWorkoutID(prefix)
	if errors.Is(err, tracker.ErrNoMatch) {
		if lerr := s.tracker.LoadWorkouts(ctx); lerr != nil {
			return "", lerr
		}
		id, err = s.tracker.ResolveWorkoutID(prefix)
	}
	return id, err
}

func (s *Server) resolveLog(ctx context.Context, prefix string) (string, error) {
	id, err := s.tracker.ResolveLogID(prefix)
	if errors.Is(err, tracker.ErrNoMatch) {
		if lerr := s.tracker.LoadWorkoutLogs(ctx); lerr != nil {
			return "", lerr
		}
		id, err = s.tracker.ResolveLogID(prefix)
	}
	return id, err
}
