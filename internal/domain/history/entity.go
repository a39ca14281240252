package history

import (
	"strings"
	"time"
)

// ID tipe untuk entri riwayat analisis
type AnalysisID string

// Jenis anomali yang dikenali sistem
type AnomalyType string

const (
	AnomalyDuplication   AnomalyType = "duplication"
	AnomalyInsertion     AnomalyType = "insertion"
	AnomalyDiscontinuity AnomalyType = "discontinuity"
)

// EventPrefix dipakai engine hulu pada tag event ("anomaly_duplication", dst.)
const EventPrefix = "anomaly_"

// AnomalyCounts value object: rekap jumlah tiap jenis anomali pada saat save
type AnomalyCounts struct {
	Duplication   int `json:"duplication"`
	Insertion     int `json:"insertion"`
	Discontinuity int `json:"discontinuity"`
}

// Localization: satu peristiwa anomali dengan jendela waktu dan confidence
type Localization struct {
	Event      string         `json:"event"`
	StartTS    float64        `json:"start_ts"`
	EndTS      float64        `json:"end_ts"`
	Duration   float64        `json:"duration"`
	Confidence string         `json:"confidence,omitempty"`
	Metrics    map[string]any `json:"metrics,omitempty"`
	Image      string         `json:"image,omitempty"`
}

// Kind mengembalikan tag event tanpa prefix "anomaly_"
func (l Localization) Kind() string {
	return strings.TrimPrefix(l.Event, EventPrefix)
}

// ReportPaths: path laporan pdf/html/json yang dihasilkan engine (bukan HTML
// yang dirender subsistem ini)
type ReportPaths struct {
	PDF  string `json:"pdf,omitempty"`
	HTML string `json:"html,omitempty"`
	JSON string `json:"json,omitempty"`
}

// Aggregate Root: Analysis, satu run analisis forensik yang sudah dipersist
type Analysis struct {
	ID                     AnalysisID        `json:"id"`
	Timestamp              time.Time         `json:"timestamp"`
	VideoName              string            `json:"video_name"`
	ArtifactsFolder        string            `json:"artifacts_folder"`
	PreservationHash       string            `json:"preservation_hash"`
	Summary                any               `json:"summary"`
	Metadata               any               `json:"metadata"`
	ForensicEvidenceMatrix map[string]any    `json:"forensic_evidence_matrix,omitempty"`
	LocalizationDetails    any               `json:"localization_details,omitempty"`
	PipelineAssessment     any               `json:"pipeline_assessment,omitempty"`
	Localizations          []Localization    `json:"localizations"`
	LocalizationsCount     int               `json:"localizations_count"`
	AnomalyTypes           AnomalyCounts     `json:"anomaly_types"`
	SavedArtifacts         map[string]string `json:"saved_artifacts"`
	AdditionalInfo         map[string]any    `json:"additional_info"`
	ReportPaths            ReportPaths       `json:"report_paths"`
}

// Reliability membaca conclusion.reliability_assessment dari FERM,
// "N/A" kalau tidak ada
func (a *Analysis) Reliability() string {
	conclusion, ok := a.ForensicEvidenceMatrix["conclusion"].(map[string]any)
	if !ok {
		return "N/A"
	}
	if s, ok := conclusion["reliability_assessment"].(string); ok && s != "" {
		return s
	}
	return "N/A"
}

// PrimaryFindings membaca conclusion.primary_findings dari FERM
func (a *Analysis) PrimaryFindings() []map[string]any {
	conclusion, ok := a.ForensicEvidenceMatrix["conclusion"].(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := conclusion["primary_findings"].([]any)
	if !ok {
		return nil
	}
	var out []map[string]any
	for _, f := range raw {
		if m, ok := f.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Result: DTO hasil analisis dari engine hulu (ForensikVideo). Hanya field
// yang dikonsumsi subsistem riwayat; jangan coupling ke struct internal engine.
type Result struct {
	PreservationHash       string
	Summary                any
	Metadata               any
	ForensicEvidenceMatrix map[string]any
	LocalizationDetails    any
	PipelineAssessment     any
	Localizations          []Localization
	Plots                  map[string]string
	PDFReportPath          string
	HTMLReportPath         string
	JSONReportPath         string
}
