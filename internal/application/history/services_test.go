package history

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/vifapro/vifa-history/internal/domain/history"
	"github.com/vifapro/vifa-history/internal/infra/artifacts"
	"github.com/vifapro/vifa-history/internal/infra/export"
	"github.com/vifapro/vifa-history/internal/infra/jsonstore"
	"github.com/vifapro/vifa-history/internal/infra/report"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// fakeSettingsIndex merekam insert, bisa dipaksa gagal
type fakeSettingsIndex struct {
	rows []domain.SettingsRow
	err  error
}

func (f *fakeSettingsIndex) Insert(_ context.Context, row domain.SettingsRow) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, row)
	return nil
}

func newService(t *testing.T) (*Service, *fakeSettingsIndex) {
	t.Helper()
	dir := t.TempDir()

	repo, err := jsonstore.New(filepath.Join(dir, "analysis_history.json"))
	require.NoError(t, err)
	store, err := artifacts.New(filepath.Join(dir, "analysis_artifacts"))
	require.NoError(t, err)

	settings := &fakeSettingsIndex{}
	renderer := report.HTMLRenderer{}
	return &Service{
		Repo:      repo,
		Artifacts: store,
		Settings:  settings,
		Renderer:  renderer,
		Packager:  export.ZipPackager{Renderer: renderer},
		Clock:     fixedClock{t: time.Date(2025, 6, 14, 9, 45, 0, 0, time.UTC)},
	}, settings
}

func sampleCommand(t *testing.T) SaveCommand {
	t.Helper()
	src := t.TempDir()
	plot := filepath.Join(src, "kmeans_plot.png")
	require.NoError(t, os.WriteFile(plot, []byte("plot"), 0o644))

	return SaveCommand{
		Result: &domain.Result{
			PreservationHash: "aabbccddeeff00112233445566778899",
			Summary:          map[string]any{"total_frames": 1200},
			Localizations: []domain.Localization{
				{Event: "anomaly_duplication", StartTS: 1.0, EndTS: 2.5, Duration: 1.5, Confidence: "High"},
			},
			Plots: map[string]string{"kmeans_temporal": plot},
		},
		VideoName: "bukti_cctv.mp4",
		AdditionalInfo: map[string]any{
			"fps_awal":       30.0,
			"fps_baru":       25.0,
			"ssim_threshold": 0.85,
			"z_threshold":    3.0,
		},
	}
}

func TestSaveThenGetRoundtrip(t *testing.T) {
	svc, _ := newService(t)
	cmd := sampleCommand(t)

	id, err := svc.Save(context.Background(), cmd)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := svc.Get(id)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "bukti_cctv.mp4", got.VideoName)
	assert.Equal(t, cmd.Result.PreservationHash, got.PreservationHash)
	assert.Equal(t, cmd.Result.Localizations, got.Localizations)
	assert.Equal(t, 1, got.LocalizationsCount)
	assert.Equal(t, domain.AnomalyCounts{Duplication: 1}, got.AnomalyTypes)
	assert.Equal(t, time.Date(2025, 6, 14, 9, 45, 0, 0, time.UTC), got.Timestamp)

	// folder artefak record harus ada dan berisi plot tersalin
	assert.DirExists(t, got.ArtifactsFolder)
	assert.FileExists(t, got.SavedArtifacts["kmeans_temporal"])
}

func TestSaveWritesAdvisoryRow(t *testing.T) {
	svc, settings := newService(t)

	id, err := svc.Save(context.Background(), sampleCommand(t))
	require.NoError(t, err)

	require.Len(t, settings.rows, 1)
	row := settings.rows[0]
	assert.Equal(t, id, row.ID)
	assert.Equal(t, "bukti_cctv.mp4", row.VideoName)
	require.NotNil(t, row.FPSAwal)
	assert.Equal(t, 30.0, *row.FPSAwal)
	require.NotNil(t, row.ZThreshold)
	assert.Equal(t, 3.0, *row.ZThreshold)
}

func TestSaveSwallowsAdvisoryFailure(t *testing.T) {
	svc, settings := newService(t)
	settings.err = errors.New("index down")

	id, err := svc.Save(context.Background(), sampleCommand(t))
	require.NoError(t, err)

	// JSON store tetap source of truth
	got, err := svc.Get(id)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestSaveWithoutAdditionalInfo(t *testing.T) {
	svc, settings := newService(t)
	cmd := sampleCommand(t)
	cmd.AdditionalInfo = nil

	id, err := svc.Save(context.Background(), cmd)
	require.NoError(t, err)

	got, err := svc.Get(id)
	require.NoError(t, err)
	assert.NotNil(t, got.AdditionalInfo)

	require.Len(t, settings.rows, 1)
	assert.Nil(t, settings.rows[0].FPSAwal)
}

func TestGetUnknownID(t *testing.T) {
	svc, _ := newService(t)
	got, err := svc.Get("tidak-ada")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteUnknownID(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Save(context.Background(), sampleCommand(t))
	require.NoError(t, err)

	deleted, err := svc.Delete("tidak-ada")
	require.NoError(t, err)
	assert.False(t, deleted)

	records, err := svc.LoadHistory()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestDeleteRemovesRecordAndArtifacts(t *testing.T) {
	svc, _ := newService(t)
	id1, err := svc.Save(context.Background(), sampleCommand(t))
	require.NoError(t, err)
	id2, err := svc.Save(context.Background(), sampleCommand(t))
	require.NoError(t, err)

	entry, err := svc.Get(id1)
	require.NoError(t, err)
	folder := entry.ArtifactsFolder

	deleted, err := svc.Delete(id1)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoDirExists(t, folder)

	records, err := svc.LoadHistory()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, id2, records[0].ID)
}

func TestDeleteAll(t *testing.T) {
	svc, _ := newService(t)
	for i := 0; i < 3; i++ {
		_, err := svc.Save(context.Background(), sampleCommand(t))
		require.NoError(t, err)
	}

	count, err := svc.DeleteAll()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	records, err := svc.LoadHistory()
	require.NoError(t, err)
	assert.Empty(t, records)

	// root artefak ada dan kosong
	entries, err := os.ReadDir(svc.Artifacts.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReport(t *testing.T) {
	svc, _ := newService(t)
	id, err := svc.Save(context.Background(), sampleCommand(t))
	require.NoError(t, err)

	html, err := svc.Report(id)
	require.NoError(t, err)
	assert.Contains(t, html, "bukti_cctv.mp4")

	_, err = svc.Report("tidak-ada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExport(t *testing.T) {
	svc, _ := newService(t)
	id, err := svc.Save(context.Background(), sampleCommand(t))
	require.NoError(t, err)

	data, err := svc.Export(id)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["analysis_report.json"])
	assert.True(t, names["analysis_report.html"])
	assert.True(t, names["artifacts/kmeans_plot.png"])
	assert.Len(t, names, 3)
}

func TestExportUnknownID(t *testing.T) {
	svc, _ := newService(t)
	data, err := svc.Export("tidak-ada")
	assert.Nil(t, data)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExportAndUploadWithoutUploader(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.ExportAndUpload(context.Background(), "x")
	assert.Error(t, err)
}
