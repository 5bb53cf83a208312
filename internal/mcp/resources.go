package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/liftsheet/internal/analytics"
	"github.com/claude/liftsheet/internal/summary"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) daySummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	rows, err := h.ds.ReadAllSets(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"summary": summary.DaySummary(rows),
	}

	// Attach the default comparison when enough history exists.
	if report, err := analytics.Compare(rows, analytics.ModeGroup); err == nil {
		payload["comparison"] = report
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) exerciseCatalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(h.catalog)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
