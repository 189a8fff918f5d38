// Package notify defines the notification interface and implementations
// for opportunity alert delivery.
package notify

import (
	"context"

	domain "github.com/flipradar-io/flipradar/pkg/types"
)

// AlertPayload contains the data needed to send an opportunity alert.
type AlertPayload struct {
	WatchName   string
	Game        domain.Game
	Query       string
	Opportunity domain.Opportunity
}

// Notifier defines the interface for sending opportunity alerts.
type Notifier interface {
	SendAlert(ctx context.Context, alert *AlertPayload) error
	SendBatchAlert(ctx context.Context, alerts []AlertPayload, watchName string) error
}
