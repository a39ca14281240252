package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	domain "github.com/vifapro/vifa-history/internal/domain/history"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		return nil, err
	}
	return db, nil
}

// SettingsRepository: advisory index parameter run di PostgreSQL
type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Init buat tabel settings kalau belum ada
func (r *SettingsRepository) Init(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS settings (
 id TEXT PRIMARY KEY,
 video_name TEXT,
 timestamp TEXT,
 fps_awal DOUBLE PRECISION NULL,
 fps_baru DOUBLE PRECISION NULL,
 ssim_thresh DOUBLE PRECISION NULL,
 z_thresh DOUBLE PRECISION NULL
);
`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

// Insert tambah satu baris settings (append-only)
func (r *SettingsRepository) Insert(ctx context.Context, row domain.SettingsRow) error {
	const q = `
INSERT INTO settings(id, video_name, timestamp, fps_awal, fps_baru, ssim_thresh, z_thresh)
VALUES ($1,$2,$3,$4,$5,$6,$7);
`
	_, err := r.db.ExecContext(ctx, q,
		string(row.ID), row.VideoName, row.Timestamp.Format(time.RFC3339),
		nullFloat(row.FPSAwal), nullFloat(row.FPSBaru),
		nullFloat(row.SSIMThreshold), nullFloat(row.ZThreshold),
	)
	return err
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
