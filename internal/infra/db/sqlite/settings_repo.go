package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	domain "github.com/vifapro/vifa-history/internal/domain/history"
)

// Connect buka database sqlite lokal (file analysis_settings.db)
func Connect(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// satu file lokal, satu koneksi cukup
	db.SetMaxOpenConns(1)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		return nil, err
	}
	return db, nil
}

// SettingsRepository: advisory index parameter run di sqlite, backend default
type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Init buat tabel settings kalau belum ada
func (r *SettingsRepository) Init(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS settings
(id TEXT PRIMARY KEY, video_name TEXT, timestamp TEXT,
 fps_awal REAL, fps_baru REAL, ssim_thresh REAL, z_thresh REAL);
`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

// Insert tambah satu baris settings (append-only)
func (r *SettingsRepository) Insert(ctx context.Context, row domain.SettingsRow) error {
	const q = `
INSERT INTO settings(id, video_name, timestamp, fps_awal, fps_baru, ssim_thresh, z_thresh)
VALUES (?,?,?,?,?,?,?);
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
