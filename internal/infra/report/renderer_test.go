package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/vifapro/vifa-history/internal/domain/history"
)

func sampleRecord() *domain.Analysis {
	return &domain.Analysis{
		ID:               "d6f1e2a3-0000-0000-0000-000000000001",
		Timestamp:        time.Date(2025, 6, 14, 9, 45, 12, 0, time.UTC),
		VideoName:        "bukti_cctv.mp4",
		PreservationHash: "aabbccddeeff00112233445566778899aabbccdd",
		ForensicEvidenceMatrix: map[string]any{
			"conclusion": map[string]any{
				"reliability_assessment": "Keandalan Bukti: Tinggi",
				"primary_findings": []any{
					map[string]any{
						"finding":        "Duplikasi frame terdeteksi",
						"confidence":     "Tinggi",
						"interpretation": "Segmen 1.0s-2.5s diulang.",
					},
				},
			},
		},
		Localizations: []domain.Localization{
			{
				Event:      "anomaly_duplication",
				StartTS:    1.0,
				EndTS:      2.5,
				Duration:   1.5,
				Confidence: "High",
				Metrics: map[string]any{
					"ssim_drop":    0.42,
					"phash_match":  0.97,
					"flow_z_score": 3.1,
				},
			},
		},
		SavedArtifacts: map[string]string{
			"kmeans_temporal": "/data/artifacts/id/kmeans_plot.png",
			"anomaly_frame_0": "/data/artifacts/id/sample_anomaly_frame_0.jpg",
		},
	}
}

func TestRenderDeterministic(t *testing.T) {
	record := sampleRecord()

	first, err := Render(record)
	require.NoError(t, err)
	second, err := Render(record)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderHeader(t *testing.T) {
	html, err := Render(sampleRecord())
	require.NoError(t, err)

	assert.Contains(t, html, "Laporan Analisis Forensik Video")
	assert.Contains(t, html, "bukti_cctv.mp4")
	assert.Contains(t, html, "14 June 2025, 09:45:12")
	// hash dipotong 20 karakter
	assert.Contains(t, html, "aabbccddeeff00112233...")
	assert.NotContains(t, html, "445566778899")
	// reliabilitas "Tinggi" dapat badge hijau
	assert.Contains(t, html, "#28a745")
	assert.Contains(t, html, "Keandalan Bukti: Tinggi")
}

func TestRenderReliabilityColors(t *testing.T) {
	assert.Equal(t, "#28a745", reliabilityColor("Keandalan Tinggi"))
	assert.Equal(t, "#ffc107", reliabilityColor("Sedang saja"))
	assert.Equal(t, "#dc3545", reliabilityColor("Rendah"))
	assert.Equal(t, "#dc3545", reliabilityColor("N/A"))
}

func TestRenderSections(t *testing.T) {
	html, err := Render(sampleRecord())
	require.NoError(t, err)

	// urutan seksi tetap
	sections := []string{
		"Ringkasan Eksekutif",
		"CATATAN PENTING",
		"Temuan Utama",
		"Metodologi DFRWS",
		"Visualisasi Analisis Utama",
		"Analisis Matriks Keandalan Bukti Forensik (FERM)",
		"Detail Peristiwa Anomali",
		"Kesimpulan",
	}
	last := -1
	for _, s := range sections {
		idx := strings.Index(html, s)
		require.GreaterOrEqual(t, idx, 0, "section %q missing", s)
		assert.Greater(t, idx, last, "section %q out of order", s)
		last = idx
	}

	// enam tahap DFRWS
	for _, phase := range []string{"Identifikasi", "Preservasi", "Pengumpulan", "Pemeriksaan", "Analisis", "Pelaporan"} {
		assert.Contains(t, html, phase)
	}
}

func TestRenderVisualsOnlyWhenStored(t *testing.T) {
	html, err := Render(sampleRecord())
	require.NoError(t, err)

	// kmeans tersimpan, muncul sebagai path relatif bundle
	assert.Contains(t, html, "artifacts/kmeans_plot.png")
	assert.Contains(t, html, "Klasterisasi Warna K-Means Sepanjang Waktu")
	// ssim tidak tersimpan, bloknya hilang
	assert.NotContains(t, html, "Analisis Structural Similarity Index (SSIM)")
	assert.NotContains(t, html, "ssim_temporal")
}

func TestRenderAnomalyDetails(t *testing.T) {
	html, err := Render(sampleRecord())
	require.NoError(t, err)

	assert.Contains(t, html, "Peristiwa #1: Duplikasi Frame")
	assert.Contains(t, html, "1.00s - 2.50s (Durasi: 1.50s)")
	assert.Contains(t, html, "High")
	assert.Contains(t, html, "artifacts/sample_anomaly_frame_0.jpg")
	// metrik diratakan, label Title Case
	assert.Contains(t, html, "Ssim Drop: 0.42")
	assert.Contains(t, html, "Phash Match: 0.97")
	assert.Contains(t, html, "Flow Z Score: 3.1")
	// kesimpulan cabang ada-anomali
	assert.Contains(t, html, "Sistem telah mendeteksi 1 peristiwa anomali")
}

func TestRenderNoAnomalies(t *testing.T) {
	record := sampleRecord()
	record.Localizations = nil

	html, err := Render(record)
	require.NoError(t, err)

	assert.Contains(t, html, "Tidak Ditemukan Anomali Signifikan")
	assert.Contains(t, html, "Sistem tidak mendeteksi adanya peristiwa anomali")
	assert.NotContains(t, html, "Detail Peristiwa Anomali")
}

func TestRenderUnknownAnomalyKind(t *testing.T) {
	record := sampleRecord()
	record.Localizations = []domain.Localization{{Event: "anomaly_ghosting"}}

	html, err := Render(record)
	require.NoError(t, err)

	assert.Contains(t, html, "Anomali Lain")
	// confidence kosong ditampilkan N/A
	assert.Contains(t, html, "Tingkat Kepercayaan:</strong> N/A")
}

func TestRenderMissingFERM(t *testing.T) {
	record := sampleRecord()
	record.ForensicEvidenceMatrix = nil

	html, err := Render(record)
	require.NoError(t, err)

	assert.Contains(t, html, "N/A")
	assert.Contains(t, html, "#dc3545")
	assert.NotContains(t, html, "Temuan Utama")
}
