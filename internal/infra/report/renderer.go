package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"path/filepath"
	"sort"
	"strings"
	"time"

	domain "github.com/vifapro/vifa-history/internal/domain/history"
)

//go:embed report.tmpl
var reportTemplate string

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"seconds": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(reportTemplate))

// HTMLRenderer implementasi port Renderer di atas template embedded
type HTMLRenderer struct{}

func (HTMLRenderer) Render(a *domain.Analysis) (string, error) { return Render(a) }

// Render membangun laporan HTML komprehensif dari satu record riwayat:
// seluruh tahap DFRWS beserta visualisasi kunci. Fungsi murni: tanpa I/O,
// deterministik untuk record yang sama.
func Render(a *domain.Analysis) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, buildData(a)); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

type visual struct {
	Title string
	Desc  string
	Src   string
}

type finding struct {
	Finding        string
	Confidence     string
	Interpretation string
}

type phase struct {
	Name string
	Icon string
	Desc string
}

type metric struct {
	Label string
	Value string
}

type event struct {
	Number        int
	Desc          domain.AnomalyDescription
	StartTS       float64
	EndTS         float64
	Duration      float64
	Confidence    string
	EvidenceImage string
	Metrics       []metric
}

type reportData struct {
	VideoName          string
	Timestamp          string
	HashPrefix         string
	Reliability        string
	ReliabilityColor   string
	PrimaryFindings    []finding
	Phases             []phase
	TimelineVisuals    []visual
	EnhancedVisuals    []visual
	FERMVisuals        []visual
	Events             []event
	LocalizationsCount int
}

// dfrwsPhases: enam tahap metodologi DFRWS, konten tetap
var dfrwsPhases = []phase{
	{"Identifikasi", "🔍", "Mengidentifikasi bukti potensial (video) dan metadata-nya."},
	{"Preservasi", "🛡️", "Menjaga integritas bukti dengan hash SHA-256 dan penyimpanan frame asli."},
	{"Pengumpulan", "📥", "Ekstraksi frame, normalisasi warna, dan penghitungan pHash."},
	{"Pemeriksaan", "🔬", "Analisis temporal, K-Means, Error Level Analysis, dan SIFT+RANSAC."},
	{"Analisis", "📈", "Localization Tampering dan Forensic Evidence Reliability Matrix (FERM)."},
	{"Pelaporan", "📄", "Dokumentasi sistematis temuan dengan visualisasi dan penjelasan."},
}

var timelineVisuals = []visual{
	{"Klasterisasi Warna K-Means Sepanjang Waktu",
		"Menunjukkan perpindahan antar klaster warna yang dapat mengindikasikan perubahan adegan atau diskontinuitas.",
		"kmeans_temporal"},
	{"Analisis Structural Similarity Index (SSIM)",
		"Menampilkan perubahan kemiripan struktural antar frame berurutan. Penurunan tajam mengindikasikan diskontinuitas.",
		"ssim_temporal"},
	{"Analisis Aliran Optik (Optical Flow)",
		"Mengukur pergerakan piksel antar frame. Lonjakan besar menandakan gerakan abnormal yang mungkin akibat manipulasi.",
		"optical_flow_temporal"},
}

var enhancedVisuals = []visual{
	{"Peta Lokalisasi Tampering",
		"Visualisasi komprehensif yang menunjukkan lokasi, durasi, dan tingkat kepercayaan peristiwa anomali dalam video.",
		"enhanced_localization_map"},
	{"Infografis Penjelasan Anomali",
		"Penjelasan visual tentang berbagai jenis anomali, metode deteksinya, dan implikasi forensiknya.",
		"anomaly_infographic"},
}

var fermVisuals = []visual{
	{"Kekuatan Bukti FERM",
		"Menunjukkan efektivitas relatif dari berbagai metode deteksi untuk setiap jenis anomali.",
		"ferm_evidence_strength"},
	{"Faktor-faktor Reliabilitas FERM",
		"Menampilkan faktor-faktor yang berkontribusi positif atau negatif terhadap penilaian keandalan bukti.",
		"ferm_reliability"},
}

func buildData(a *domain.Analysis) reportData {
	reliability := a.Reliability()

	data := reportData{
		VideoName:          a.VideoName,
		Timestamp:          formatTimestamp(a.Timestamp),
		HashPrefix:         hashPrefix(a.PreservationHash),
		Reliability:        reliability,
		ReliabilityColor:   reliabilityColor(reliability),
		Phases:             dfrwsPhases,
		TimelineVisuals:    resolveVisuals(a, timelineVisuals),
		EnhancedVisuals:    resolveVisuals(a, enhancedVisuals),
		FERMVisuals:        resolveVisuals(a, fermVisuals),
		LocalizationsCount: len(a.Localizations),
	}

	for _, f := range a.PrimaryFindings() {
		data.PrimaryFindings = append(data.PrimaryFindings, finding{
			Finding:        stringField(f, "finding"),
			Confidence:     stringFieldOr(f, "confidence", "N/A"),
			Interpretation: stringField(f, "interpretation"),
		})
	}

	evidence := evidenceImage(a)
	for i, loc := range a.Localizations {
		data.Events = append(data.Events, event{
			Number:        i + 1,
			Desc:          domain.DescribeAnomaly(loc.Kind()),
			StartTS:       loc.StartTS,
			EndTS:         loc.EndTS,
			Duration:      loc.Duration,
			Confidence:    confidenceOrNA(loc.Confidence),
			EvidenceImage: evidence,
			Metrics:       flattenMetrics(loc.Metrics),
		})
	}

	return data
}

// reliabilityColor memetakan label kualitatif ke warna badge:
// "Tinggi" hijau, "Sedang" kuning, selain itu merah (low/warning)
func reliabilityColor(reliability string) string {
	switch {
	case strings.Contains(reliability, "Tinggi"):
		return "#28a745"
	case strings.Contains(reliability, "Sedang"):
		return "#ffc107"
	default:
		return "#dc3545"
	}
}

func formatTimestamp(ts time.Time) string {
	return ts.Format("02 January 2006, 15:04:05")
}

func hashPrefix(hash string) string {
	if hash == "" {
		return "N/A"
	}
	if len(hash) > 20 {
		hash = hash[:20]
	}
	return hash + "..."
}

// resolveVisuals menyaring blok visual yang artefaknya tersimpan dan mengganti
// key jadi path relatif di dalam bundle ekspor
func resolveVisuals(a *domain.Analysis, candidates []visual) []visual {
	var out []visual
	for _, v := range candidates {
		if path, ok := a.SavedArtifacts[v.Src]; ok {
			v.Src = "artifacts/" + filepath.Base(path)
			out = append(out, v)
		}
	}
	return out
}

// evidenceImage ambil contoh frame anomali pertama yang tersimpan
func evidenceImage(a *domain.Analysis) string {
	for _, key := range []string{"anomaly_frame_0", "anomaly_frame_1", "anomaly_frame_2"} {
		if path, ok := a.SavedArtifacts[key]; ok {
			return "artifacts/" + filepath.Base(path)
		}
	}
	return ""
}

// flattenMetrics meratakan metrik teknis jadi label/nilai, urut by key supaya
// output render deterministik
func flattenMetrics(metrics map[string]any) []metric {
	if len(metrics) == 0 {
		return nil
	}
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]metric, 0, len(keys))
	for _, k := range keys {
		out = append(out, metric{
			Label: titleCase(strings.ReplaceAll(k, "_", " ")),
			Value: fmt.Sprintf("%v", metrics[k]),
		})
	}
	return out
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func confidenceOrNA(c string) string {
	if c == "" {
		return "N/A"
	}
	return c
}

func stringField(m map[string]any, key string) string {
	return stringFieldOr(m, key, "")
}

func stringFieldOr(m map[string]any, key, fallback string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return fallback
}
