// Package db pkg/db/interfaces.go
package db

import (
	"context"

	"github.com/carverauto/configwatch/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/carverauto/configwatch/pkg/db Service

// Service represents all persistence operations for the monitoring engine.
// Sensitive fields (contact identifiers, configuration values, change
// old/new values) are encrypted before storage and decrypted on read.
type Service interface {
	Close() error

	// Configuration snapshot operations.

	UpsertConfiguration(ctx context.Context, name, path, value string, isCritical bool) error
	GetAllConfigurations(ctx context.Context) ([]models.Configuration, error)

	// Change log operations.

	AppendChange(ctx context.Context, name, oldValue, newValue string, acknowledged, critical bool) (int64, error)
	AcknowledgeLatestUnacknowledged(ctx context.Context, name string) (bool, error)
	QueryChanges(ctx context.Context, filter *models.ChangeFilter) ([]models.ChangeEvent, error)
	AggregateChangeCounts(ctx context.Context, windowDays int) ([]models.ChangeCount, error)

	// User settings operations.

	UpsertUserSettings(ctx context.Context, settings *models.UserSettings) error
	AllUserSettings(ctx context.Context) ([]models.UserSettings, error)
}
