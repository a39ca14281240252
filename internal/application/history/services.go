package history

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/vifapro/vifa-history/internal/application"
	domain "github.com/vifapro/vifa-history/internal/domain/history"
)

// Service implements use-cases untuk riwayat analisis.
// Semua operasi sinkron dan single-process: save/delete menulis ulang seluruh
// dokumen JSON tanpa locking, jadi penulis paralel harus diserialisasi caller.
type Service struct {
	Repo      domain.Repository
	Artifacts domain.ArtifactStore
	Settings  domain.SettingsIndex
	Packager  domain.Packager
	Renderer  domain.Renderer
	Uploader  domain.ExportUploader
	Clock     application.Clock
}

// Command untuk simpan hasil analisis
type SaveCommand struct {
	Result         *domain.Result
	VideoName      string
	AdditionalInfo map[string]any
}

//
// ==== USE CASES ====
//

// Save simpan hasil analisis: generate ID baru, salin artefak, rakit record,
// tulis ke koleksi JSON, lalu insert baris advisory ke settings index.
// Insert index best-effort: gagal cuma di-log, JSON store tetap source of truth.
func (s *Service) Save(ctx context.Context, cmd SaveCommand) (domain.AnalysisID, error) {
	id := domain.AnalysisID(uuid.New().String())
	now := s.Clock.Now()

	folder, saved, err := s.Artifacts.SaveAll(cmd.Result, id)
	if err != nil {
		return "", err
	}

	info := cmd.AdditionalInfo
	if info == nil {
		info = map[string]any{}
	}

	entry := &domain.Analysis{
		ID:                     id,
		Timestamp:              now,
		VideoName:              cmd.VideoName,
		ArtifactsFolder:        folder,
		PreservationHash:       cmd.Result.PreservationHash,
		Summary:                cmd.Result.Summary,
		Metadata:               cmd.Result.Metadata,
		ForensicEvidenceMatrix: cmd.Result.ForensicEvidenceMatrix,
		LocalizationDetails:    cmd.Result.LocalizationDetails,
		PipelineAssessment:     cmd.Result.PipelineAssessment,
		Localizations:          cmd.Result.Localizations,
		LocalizationsCount:     len(cmd.Result.Localizations),
		AnomalyTypes:           domain.CountAnomalyTypes(cmd.Result.Localizations),
		SavedArtifacts:         saved,
		AdditionalInfo:         info,
		ReportPaths: domain.ReportPaths{
			PDF:  cmd.Result.PDFReportPath,
			HTML: cmd.Result.HTMLReportPath,
			JSON: cmd.Result.JSONReportPath,
		},
	}

	if err := s.Repo.Append(entry); err != nil {
		return "", err
	}

	if s.Settings != nil {
		row := domain.SettingsRow{
			ID:            id,
			VideoName:     cmd.VideoName,
			Timestamp:     now,
			FPSAwal:       floatFromInfo(info, "fps_awal"),
			FPSBaru:       floatFromInfo(info, "fps_baru"),
			SSIMThreshold: floatFromInfo(info, "ssim_threshold"),
			ZThreshold:    floatFromInfo(info, "z_threshold"),
		}
		if err := s.Settings.Insert(ctx, row); err != nil {
			// advisory index, non-otoritatif: jangan propagate
			log.Printf("settings index insert failed (advisory) id=%s: %v", id, err)
		}
	}

	return id, nil
}

// LoadHistory muat seluruh riwayat, urut sesuai penyimpanan
func (s *Service) LoadHistory() ([]domain.Analysis, error) {
	return s.Repo.LoadAll()
}

// Get ambil 1 record by ID; nil kalau tidak ada
func (s *Service) Get(id domain.AnalysisID) (*domain.Analysis, error) {
	return s.Repo.Get(id)
}

// Delete hapus satu record beserta folder artefaknya. False kalau ID tidak
// ditemukan. Record yang hilang dari koleksi JSON dihitung sukses meskipun
// penghapusan folder gagal; kegagalan folder di-log terpisah.
func (s *Service) Delete(id domain.AnalysisID) (bool, error) {
	entry, err := s.Repo.Get(id)
	if err != nil {
		return false, err
	}
	if entry == nil {
		return false, nil
	}

	if err := s.Artifacts.RemoveFolder(entry.ArtifactsFolder); err != nil {
		log.Printf("artifact folder removal failed id=%s folder=%s: %v", id, entry.ArtifactsFolder, err)
	}

	return s.Repo.Remove(id)
}

// DeleteAll hapus SEMUA riwayat dan seluruh artefaknya; tidak bisa diurungkan.
// Mengembalikan jumlah entri yang terhapus.
func (s *Service) DeleteAll() (int, error) {
	records, err := s.Repo.LoadAll()
	if err != nil {
		return 0, err
	}
	count := len(records)

	if err := s.Artifacts.RemoveAll(); err != nil {
		return 0, err
	}
	if err := s.Repo.Reset(); err != nil {
		return 0, err
	}
	return count, nil
}

// Report render laporan HTML satu record
func (s *Service) Report(id domain.AnalysisID) (string, error) {
	entry, err := s.Repo.Get(id)
	if err != nil {
		return "", err
	}
	if entry == nil {
		return "", domain.ErrNotFound
	}
	return s.Renderer.Render(entry)
}

// Export bundel satu record (JSON + HTML + artefak) jadi arsip zip
func (s *Service) Export(id domain.AnalysisID) ([]byte, error) {
	entry, err := s.Repo.Get(id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	return s.Packager.Pack(entry)
}

// ExportAndUpload bundel lalu push arsip ke object storage yang dikonfigurasi
func (s *Service) ExportAndUpload(ctx context.Context, id domain.AnalysisID) (string, error) {
	if s.Uploader == nil {
		return "", fmt.Errorf("export uploader not configured")
	}
	data, err := s.Export(id)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("exports/%s.zip", id)
	return s.Uploader.UploadExport(ctx, key, data)
}

// helper: ambil nilai numerik opsional dari additional_info
func floatFromInfo(info map[string]any, key string) *float64 {
	switch v := info[key].(type) {
	case float64:
		return &v
	case float32:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	default:
		return nil
	}
}
