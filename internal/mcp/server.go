package mcp

import (
	"log/slog"
	"time"

	"github.com/claude/liftsheet/internal/config"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, catalog config.Catalog, loc *time.Location, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftSheet", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftSheet training log server. Log strength sets, body measurements, and calories; query session-over-session comparisons and progress."),
	)

	h := &handlers{ds: ds, catalog: catalog, loc: loc, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolLogSet, Handler: h.logSet},
		server.ServerTool{Tool: toolUndoLastSet, Handler: h.undoLastSet},
		server.ServerTool{Tool: toolGetSessionComparison, Handler: h.getSessionComparison},
		server.ServerTool{Tool: toolGetDaySummary, Handler: h.getDaySummary},
		server.ServerTool{Tool: toolGetRecentSessions, Handler: h.getRecentSessions},
		server.ServerTool{Tool: toolGetProgress, Handler: h.getProgress},
		server.ServerTool{Tool: toolLogBodyMeasurement, Handler: h.logBodyMeasurement},
		server.ServerTool{Tool: toolGetWeeklyTrend, Handler: h.getWeeklyTrend},
		server.ServerTool{Tool: toolLogCalories, Handler: h.logCalories},
		server.ServerTool{Tool: toolGetDailyCalories, Handler: h.getDailyCalories},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resDaySummary, Handler: h.daySummary},
		server.ServerResource{Resource: resCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds      DataSource
	catalog config.Catalog
	loc     *time.Location
	log     *slog.Logger
}

// --- Resource definitions ---

var resDaySummary = mcp.NewResource(
	"liftsheet://day_summary",
	"Day Summary",
	mcp.WithResourceDescription("Text summary of the most recent training session, with the heaviest set of each exercise marked"),
	mcp.WithMIMEType("application/json"),
)

var resCatalog = mcp.NewResource(
	"liftsheet://catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("Muscle groups with their exercises, known gym locations, and season date ranges"),
	mcp.WithMIMEType("application/json"),
)
