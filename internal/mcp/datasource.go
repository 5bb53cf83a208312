package mcp

import (
	"context"

	"github.com/claude/liftsheet/internal/models"
	"github.com/claude/liftsheet/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Any storage.Store
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	AppendSet(ctx context.Context, s models.LoggedSet) error
	ReadAllSets(ctx context.Context) ([]models.LoggedSet, error)
	DeleteLastSet(ctx context.Context) error

	AppendMeasurement(ctx context.Context, m models.BodyMeasurement) error
	ReadAllMeasurements(ctx context.Context) ([]models.BodyMeasurement, error)

	AppendCalorieEntry(ctx context.Context, e models.CalorieEntry) error
	ReadAllCalorieEntries(ctx context.Context) ([]models.CalorieEntry, error)
}

// Compile-time check: every storage.Store satisfies DataSource.
var _ DataSource = (storage.Store)(nil)
