package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	apphistory "github.com/vifapro/vifa-history/internal/application/history"
	domain "github.com/vifapro/vifa-history/internal/domain/history"
	"github.com/vifapro/vifa-history/internal/infra/artifacts"
	"github.com/vifapro/vifa-history/internal/middleware"
)

type Router struct {
	svc          *apphistory.Service
	artifactRoot string
}

func NewRouter(svc *apphistory.Service, healthCheckers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{svc: svc, artifactRoot: svc.Artifacts.Root()}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	mux.Get("/health", middleware.HealthHandler(healthCheckers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/analyses", r.wrap(r.handleSave))
		rt.Get("/analyses", r.wrap(r.handleList))
		rt.Delete("/analyses", r.wrap(r.handleDeleteAll))
		rt.Get("/analyses/{id}", r.wrap(r.handleGet))
		rt.Delete("/analyses/{id}", r.wrap(r.handleDelete))
		rt.Get("/analyses/{id}/report", r.wrap(r.handleReport))
		rt.Get("/analyses/{id}/export", r.wrap(r.handleExport))
		rt.Post("/analyses/{id}/export/upload", r.wrap(r.handleExportUpload))
		rt.Get("/artifacts/data-uri", r.wrap(r.handleArtifactDataURI))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// POST /v1/analyses
func (r *Router) handleSave(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		VideoName      string         `json:"video_name"`
		AdditionalInfo map[string]any `json:"additional_info"`
		Result         struct {
			PreservationHash       string                `json:"preservation_hash"`
			Summary                any                   `json:"summary"`
			Metadata               any                   `json:"metadata"`
			ForensicEvidenceMatrix map[string]any        `json:"forensic_evidence_matrix"`
			LocalizationDetails    any                   `json:"localization_details"`
			PipelineAssessment     any                   `json:"pipeline_assessment"`
			Localizations          []domain.Localization `json:"localizations"`
			Plots                  map[string]string     `json:"plots"`
			PDFReportPath          string                `json:"pdf_report_path"`
			HTMLReportPath         string                `json:"html_report_path"`
			JSONReportPath         string                `json:"json_report_path"`
		} `json:"result"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	if body.VideoName == "" {
		return fmt.Errorf("video_name is required")
	}

	cmd := apphistory.SaveCommand{
		Result: &domain.Result{
			PreservationHash:       body.Result.PreservationHash,
			Summary:                body.Result.Summary,
			Metadata:               body.Result.Metadata,
			ForensicEvidenceMatrix: body.Result.ForensicEvidenceMatrix,
			LocalizationDetails:    body.Result.LocalizationDetails,
			PipelineAssessment:     body.Result.PipelineAssessment,
			Localizations:          body.Result.Localizations,
			Plots:                  body.Result.Plots,
			PDFReportPath:          body.Result.PDFReportPath,
			HTMLReportPath:         body.Result.HTMLReportPath,
			JSONReportPath:         body.Result.JSONReportPath,
		},
		VideoName:      middleware.SanitizeString(body.VideoName),
		AdditionalInfo: body.AdditionalInfo,
	}

	id, err := r.svc.Save(req.Context(), cmd)
	if err != nil {
		return err
	}
	middleware.IncrementSaved()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(map[string]any{"id": id})
}

// GET /v1/analyses
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	list, err := r.svc.LoadHistory()
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/analyses/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return domain.ErrNotFound
	}
	entry, err := r.svc.Get(domain.AnalysisID(id))
	if err != nil {
		return err
	}
	if entry == nil {
		return domain.ErrNotFound
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(entry)
}

// DELETE /v1/analyses/{id}
func (r *Router) handleDelete(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	deleted, err := r.svc.Delete(domain.AnalysisID(id))
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	middleware.IncrementDeleted(1)
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{"deleted": true, "id": id})
}

// DELETE /v1/analyses
func (r *Router) handleDeleteAll(w http.ResponseWriter, req *http.Request) error {
	count, err := r.svc.DeleteAll()
	if err != nil {
		return err
	}
	middleware.IncrementDeleted(count)
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{"deleted_count": count})
}

// GET /v1/analyses/{id}/report
func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	html, err := r.svc.Report(domain.AnalysisID(id))
	if err != nil {
		return err
	}
	middleware.IncrementReports()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = w.Write([]byte(html))
	return err
}

// GET /v1/analyses/{id}/export
func (r *Router) handleExport(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	data, err := r.svc.Export(domain.AnalysisID(id))
	if err != nil {
		return err
	}
	middleware.IncrementExports()
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "analysis_"+id+".zip"))
	_, err = w.Write(data)
	return err
}

// POST /v1/analyses/{id}/export/upload
func (r *Router) handleExportUpload(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	url, err := r.svc.ExportAndUpload(req.Context(), domain.AnalysisID(id))
	if err != nil {
		return err
	}
	middleware.IncrementExports()
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{"id": id, "url": url})
}

// GET /v1/artifacts/data-uri?path=<stored artifact path>
func (r *Router) handleArtifactDataURI(w http.ResponseWriter, req *http.Request) error {
	path := req.URL.Query().Get("path")
	if err := middleware.ValidateArtifactPath(r.artifactRoot, path); err != nil {
		return err
	}
	uri, ok := artifacts.DataURI(path)
	if !ok {
		return domain.ErrNotFound
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{"data_uri": uri})
}
