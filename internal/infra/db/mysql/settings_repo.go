package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"

	domain "github.com/vifapro/vifa-history/internal/domain/history"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		return nil, err
	}
	return db, nil
}

// SettingsRepository: advisory index parameter run di MySQL, untuk deployment
// yang sudah punya server MySQL
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
 id VARCHAR(64) PRIMARY KEY,
 video_name TEXT,
 timestamp VARCHAR(64),
 fps_awal DOUBLE NULL,
 fps_baru DOUBLE NULL,
 ssim_thresh DOUBLE NULL,
 z_thresh DOUBLE NULL
);
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
