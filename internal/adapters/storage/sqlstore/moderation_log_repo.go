package sqlstore

import (
	"context"
	"strings"

	"huella-urbana/internal/domain/moderation"
)

type ModerationLogRepo struct {
	db *DB
}

func NewModerationLogRepo(db *DB) *ModerationLogRepo {
	return &ModerationLogRepo{db: db}
}

func (r *ModerationLogRepo) Append(ctx context.Context, e moderation.LogEntry) error {
	_, err := r.db.ExecContext(ctx, r.db.rebind(`
		INSERT INTO moderation_log (id, report_id, moderator_id, action, reason, created_at)
		VALUES (?,?,?,?,?,?)
	`),
		e.ID,
		e.ReportID,
		e.ModeratorID,
		string(e.Action),
		e.Reason,
		e.At.UTC(),
	)
	return err
}

func (r *ModerationLogRepo) ListByReport(ctx context.Context, reportID string) ([]moderation.LogEntry, error) {
	reportID = strings.TrimSpace(reportID)
	if reportID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, r.db.rebind(`
		SELECT id, report_id, moderator_id, action, reason, created_at
		FROM moderation_log
		WHERE report_id = ?
		ORDER BY created_at DESC, id DESC
	`), reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]moderation.LogEntry, 0)
	for rows.Next() {
		var e moderation.LogEntry
		var action string
		if err := rows.Scan(
			&e.ID,
			&e.ReportID,
			&e.ModeratorID,
			&action,
			&e.Reason,
			&e.At,
		); err != nil {
			return nil, err
		}
		e.Action = moderation.Action(action)
		e.At = e.At.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
