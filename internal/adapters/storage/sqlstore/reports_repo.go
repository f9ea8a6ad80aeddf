package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"huella-urbana/internal/domain/reports"
)

type ReportsRepo struct {
	db *DB
}

func NewReportsRepo(db *DB) *ReportsRepo {
	return &ReportsRepo{db: db}
}

const reportColumns = `
	id, title, incident_date, incident_time,
	animal_type, dog_count, severity, description,
	address, sector, latitude, longitude,
	reporter_name, reporter_email, reporter_phone, anonymous,
	user_id, status, moderator_id, moderated_at, moderation_comment,
	created_at, updated_at`

func (r *ReportsRepo) Create(ctx context.Context, rep reports.Report) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, r.db.rebind(`
		INSERT INTO reports (`+reportColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`),
		rep.ID,
		rep.Title,
		dateOnly(rep.Date),
		rep.Time,
		string(rep.AnimalType),
		rep.DogCount,
		string(rep.Severity),
		rep.Description,
		rep.Address,
		string(rep.Sector),
		rep.Latitude,
		rep.Longitude,
		rep.ReporterName,
		rep.ReporterEmail,
		rep.ReporterPhone,
		rep.Anonymous,
		rep.UserID,
		string(rep.Status),
		rep.ModeratorID,
		toNullTime(rep.ModeratedAt),
		rep.ModerationComment,
		rep.CreatedAt.UTC(),
		rep.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}

	for _, p := range rep.Photos {
		_, err := tx.ExecContext(ctx, r.db.rebind(`
			INSERT INTO report_photos (
				id, report_id, storage_key, url, content_type,
				size_bytes, width, height, sort_order, uploaded_at
			) VALUES (?,?,?,?,?,?,?,?,?,?)
		`),
			p.ID,
			rep.ID,
			p.Key,
			p.URL,
			p.ContentType,
			p.Size,
			p.Width,
			p.Height,
			p.Order,
			p.UploadedAt.UTC(),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *ReportsRepo) GetByID(ctx context.Context, id string) (reports.Report, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return reports.Report{}, reports.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, r.db.rebind(`SELECT `+reportColumns+` FROM reports WHERE id = ?`), id)
	rep, err := scanReport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reports.Report{}, reports.ErrNotFound
		}
		return reports.Report{}, err
	}

	photos, err := r.photosFor(ctx, []string{rep.ID})
	if err != nil {
		return reports.Report{}, err
	}
	rep.Photos = photos[rep.ID]
	return rep, nil
}

func (r *ReportsRepo) List(ctx context.Context, f reports.ListFilter) ([]reports.Report, error) {
	where, args := whereClause(f)
	q := `SELECT ` + reportColumns + ` FROM reports` + where +
		` ORDER BY incident_date DESC, created_at DESC, id ASC`
	if f.Limit > 0 {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, max(f.Offset, 0))
	}

	rows, err := r.db.QueryContext(ctx, r.db.rebind(q), args...)
	if err != nil {
		return nil, err
	}

	out := make([]reports.Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	// cerrar antes de la segunda query: sqlite usa una sola conexión
	_ = rows.Close()

	if len(out) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(out))
	for _, rep := range out {
		ids = append(ids, rep.ID)
	}
	photos, err := r.photosFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Photos = photos[out[i].ID]
	}
	return out, nil
}

func (r *ReportsRepo) Count(ctx context.Context, f reports.ListFilter) (int, error) {
	where, args := whereClause(f)
	var n int
	err := r.db.QueryRowContext(ctx, r.db.rebind(`SELECT COUNT(*) FROM reports`+where), args...).Scan(&n)
	return n, err
}

func (r *ReportsRepo) CountByStatus(ctx context.Context) (map[reports.Status]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM reports GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[reports.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[reports.Status(status)] = n
	}
	return out, rows.Err()
}

func (r *ReportsRepo) UpdateModeration(ctx context.Context, rep reports.Report) error {
	res, err := r.db.ExecContext(ctx, r.db.rebind(`
		UPDATE reports
		SET
			status = ?,
			moderator_id = ?,
			moderated_at = ?,
			moderation_comment = ?,
			updated_at = ?
		WHERE id = ?
	`),
		string(rep.Status),
		rep.ModeratorID,
		toNullTime(rep.ModeratedAt),
		rep.ModerationComment,
		rep.UpdatedAt.UTC(),
		rep.ID,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return reports.ErrNotFound
	}
	return nil
}

func (r *ReportsRepo) photosFor(ctx context.Context, ids []string) (map[string][]reports.Photo, error) {
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	q := `
		SELECT id, report_id, storage_key, url, content_type,
			size_bytes, width, height, sort_order, uploaded_at
		FROM report_photos
		WHERE report_id IN (` + placeholders(len(ids)) + `)
		ORDER BY report_id, sort_order ASC`

	rows, err := r.db.QueryContext(ctx, r.db.rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]reports.Photo, len(ids))
	for rows.Next() {
		var p reports.Photo
		if err := rows.Scan(
			&p.ID,
			&p.ReportID,
			&p.Key,
			&p.URL,
			&p.ContentType,
			&p.Size,
			&p.Width,
			&p.Height,
			&p.Order,
			&p.UploadedAt,
		); err != nil {
			return nil, err
		}
		p.UploadedAt = p.UploadedAt.UTC()
		out[p.ReportID] = append(out[p.ReportID], p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(s scanner) (reports.Report, error) {
	var (
		rep                              reports.Report
		animal, severity, sector, status string
		moderatedAt                      sql.NullTime
	)
	if err := s.Scan(
		&rep.ID,
		&rep.Title,
		&rep.Date,
		&rep.Time,
		&animal,
		&rep.DogCount,
		&severity,
		&rep.Description,
		&rep.Address,
		&sector,
		&rep.Latitude,
		&rep.Longitude,
		&rep.ReporterName,
		&rep.ReporterEmail,
		&rep.ReporterPhone,
		&rep.Anonymous,
		&rep.UserID,
		&status,
		&rep.ModeratorID,
		&moderatedAt,
		&rep.ModerationComment,
		&rep.CreatedAt,
		&rep.UpdatedAt,
	); err != nil {
		return reports.Report{}, err
	}

	rep.AnimalType = reports.AnimalType(animal)
	rep.Severity = reports.Severity(severity)
	rep.Sector = reports.Sector(sector)
	rep.Status = reports.Status(status)
	rep.Date = dateOnly(rep.Date)
	rep.CreatedAt = rep.CreatedAt.UTC()
	rep.UpdatedAt = rep.UpdatedAt.UTC()
	if moderatedAt.Valid {
		t := moderatedAt.Time.UTC()
		rep.ModeratedAt = &t
	}
	return rep, nil
}

func whereClause(f reports.ListFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Severity != "" {
		conds = append(conds, "severity = ?")
		args = append(args, string(f.Severity))
	}
	if f.Animal != "" {
		conds = append(conds, "animal_type = ?")
		args = append(args, string(f.Animal))
	}
	if f.Anonymous != nil {
		conds = append(conds, "anonymous = ?")
		args = append(args, *f.Anonymous)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// dateOnly deja la fecha a medianoche UTC (la columna es DATE).
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
