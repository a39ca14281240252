package history

import (
	"context"
	"time"
)

// Repository port (interface untuk persistence koleksi riwayat).
// Implementasi menulis ulang seluruh dokumen pada tiap mutasi dan
// self-heal kalau dokumen rusak; lihat jsonstore.
type Repository interface {
	// LoadAll memuat seluruh koleksi, urut sesuai penyimpanan.
	LoadAll() ([]Analysis, error)
	// Append menambah satu entri dan menulis ulang koleksi.
	Append(a *Analysis) error
	// Get mencari entri by ID; nil kalau tidak ada.
	Get(id AnalysisID) (*Analysis, error)
	// Remove menghapus entri by ID dan menulis ulang koleksi;
	// false kalau entri tidak ditemukan.
	Remove(id AnalysisID) (bool, error)
	// Reset mengosongkan koleksi.
	Reset() error
}

// ArtifactStore port (interface untuk penyimpanan artefak visual)
type ArtifactStore interface {
	// Root path folder artefak (satu subfolder per record).
	Root() string
	// SaveAll menyalin artefak yang resolvable dari result ke folder
	// milik id dan mengembalikan map nama logis -> path tersimpan.
	// Source yang tidak ada di disk dilewati tanpa error.
	SaveAll(result *Result, id AnalysisID) (folder string, saved map[string]string, err error)
	// RemoveFolder menghapus folder artefak milik satu record.
	RemoveFolder(folder string) error
	// RemoveAll menghapus seluruh root artefak lalu membuatnya lagi kosong.
	RemoveAll() error
}

// SettingsRow: baris denormalisasi untuk advisory index
type SettingsRow struct {
	ID            AnalysisID
	VideoName     string
	Timestamp     time.Time
	FPSAwal       *float64
	FPSBaru       *float64
	SSIMThreshold *float64
	ZThreshold    *float64
}

// SettingsIndex port: index relasional sekunder, non-otoritatif.
// Error Insert boleh di-log lalu dibuang oleh caller; JSON store
// tetap source of truth.
type SettingsIndex interface {
	Insert(ctx context.Context, row SettingsRow) error
}

// Renderer port: transformasi murni record -> dokumen HTML
type Renderer interface {
	Render(a *Analysis) (string, error)
}

// Packager port: bundel record + laporan + artefak jadi bytes arsip
type Packager interface {
	Pack(a *Analysis) ([]byte, error)
}

// ExportUploader port (interface untuk push bundle ekspor ke object storage)
type ExportUploader interface {
	UploadExport(ctx context.Context, key string, data []byte) (string, error)
}
