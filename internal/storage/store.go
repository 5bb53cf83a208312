// Package storage implements the append-only tabular stores behind the
// dashboard. Three backends share one contract: rows come back in
// insertion order, appends are durable once the call returns, and the
// only removal is "delete the most recently appended row".
package storage

import (
	"context"
	"errors"

	"github.com/claude/liftsheet/internal/models"
)

// ErrEmptyLog is returned by delete-last operations on an empty log.
var ErrEmptyLog = errors.New("log is empty")

// Store is the tabular data store contract. Read methods return rows in
// insertion order; that order doubles as the time-precedence signal the
// analytics layer relies on when dates collide.
type Store interface {
	AppendSet(ctx context.Context, s models.LoggedSet) error
	ReadAllSets(ctx context.Context) ([]models.LoggedSet, error)
	DeleteLastSet(ctx context.Context) error

	AppendMeasurement(ctx context.Context, m models.BodyMeasurement) error
	ReadAllMeasurements(ctx context.Context) ([]models.BodyMeasurement, error)

	AppendCalorieEntry(ctx context.Context, e models.CalorieEntry) error
	ReadAllCalorieEntries(ctx context.Context) ([]models.CalorieEntry, error)

	Close() error
}
