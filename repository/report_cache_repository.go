package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"roadwatch/models"
)

type ReportCacheRepository struct {
	db *sql.DB
}

func NewReportCacheRepository(db *sql.DB) *ReportCacheRepository {
	return &ReportCacheRepository{db: db}
}

// ReplaceAll swaps the cached snapshot for the given list. The stored
// order is the input order so a later List round-trips it unchanged.
func (r *ReportCacheRepository) ReplaceAll(ctx context.Context, reports []models.Report, refreshedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM report_cache`); err != nil {
		_ = tx.Rollback()
		return err
	}
	for i, rep := range reports {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO report_cache
             (position, id, caption, road_name, landmark, zip_code, city, address, street,
              image_url, submitted_by_name, submitted_by_email, created_at, review)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, rep.ID, rep.Caption,
			rep.Location.RoadName, rep.Location.Landmark, rep.Location.ZipCode,
			rep.Location.City, rep.Location.Address, rep.Location.Street,
			rep.ImageURL, rep.SubmittedBy.Name, rep.SubmittedBy.Email,
			rep.CreatedAt.UTC().Format(time.RFC3339), string(rep.Review)); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO report_cache_meta (id, refreshed_at) VALUES (1, ?)
         ON CONFLICT(id) DO UPDATE SET refreshed_at = excluded.refreshed_at`,
		refreshedAt.UTC().Format(time.RFC3339)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// List returns the cached snapshot in stored order and the time it was
// taken. A never-filled cache yields an empty list and zero time.
func (r *ReportCacheRepository) List(ctx context.Context) ([]models.Report, time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var refreshedAt time.Time
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT refreshed_at FROM report_cache_meta WHERE id = 1`).Scan(&raw)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, err
	}
	if raw != "" {
		refreshedAt, _ = time.Parse(time.RFC3339, raw)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, caption, road_name, landmark, zip_code, city, address, street,
                image_url, submitted_by_name, submitted_by_email, created_at, review
         FROM report_cache ORDER BY position`)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	var out []models.Report
	for rows.Next() {
		var rep models.Report
		var createdAt, review string
		if err := rows.Scan(&rep.ID, &rep.Caption,
			&rep.Location.RoadName, &rep.Location.Landmark, &rep.Location.ZipCode,
			&rep.Location.City, &rep.Location.Address, &rep.Location.Street,
			&rep.ImageURL, &rep.SubmittedBy.Name, &rep.SubmittedBy.Email,
			&createdAt, &review); err != nil {
			return nil, time.Time{}, err
		}
		rep.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		rep.Review = models.ReviewState(review)
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}
	return out, refreshedAt, nil
}
