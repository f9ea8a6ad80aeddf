package moderation

import "context"

type LogRepository interface {
	Append(ctx context.Context, e LogEntry) error
	// ListByReport devuelve la bitácora del reporte, la más reciente primero.
	ListByReport(ctx context.Context, reportID string) ([]LogEntry, error)
}
