package artifacts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/vifapro/vifa-history/internal/domain/history"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSaveAllCopiesResolvableSources(t *testing.T) {
	src := t.TempDir()
	store, err := New(filepath.Join(t.TempDir(), "artifacts"))
	require.NoError(t, err)

	plot := writeFile(t, src, "kmeans_plot.png", "plot-data")
	frame := writeFile(t, src, "frame_12.jpg", "frame-data")
	pdf := writeFile(t, src, "laporan.pdf", "pdf-data")

	result := &domain.Result{
		Plots: map[string]string{
			"kmeans_temporal": plot,
			"ssim_temporal":   filepath.Join(src, "tidak_ada.png"), // hilang, dilewati
		},
		Localizations: []domain.Localization{
			{Event: "anomaly_duplication", Image: frame},
		},
		PDFReportPath: pdf,
	}

	folder, saved, err := store.SaveAll(result, "id-1")
	require.NoError(t, err)

	assert.DirExists(t, folder)
	assert.Equal(t, filepath.Join(store.Root(), "id-1"), folder)

	// plot hilang tidak menghasilkan entri
	assert.NotContains(t, saved, "ssim_temporal")

	assert.Equal(t, filepath.Join(folder, "kmeans_plot.png"), saved["kmeans_temporal"])
	assert.Equal(t, filepath.Join(folder, "sample_anomaly_frame_0.jpg"), saved["anomaly_frame_0"])
	assert.Equal(t, filepath.Join(folder, "laporan.pdf"), saved["pdf_report"])

	data, err := os.ReadFile(saved["kmeans_temporal"])
	require.NoError(t, err)
	assert.Equal(t, "plot-data", string(data))
}

func TestSaveAllLimitsAnomalyFrames(t *testing.T) {
	src := t.TempDir()
	store, err := New(filepath.Join(t.TempDir(), "artifacts"))
	require.NoError(t, err)

	var locs []domain.Localization
	// event pertama tanpa image resolvable, lalu 5 event dengan image
	locs = append(locs, domain.Localization{Event: "anomaly_duplication"})
	for i := 0; i < 5; i++ {
		img := writeFile(t, src, "frame_"+string(rune('a'+i))+".jpg", "x")
		locs = append(locs, domain.Localization{Event: "anomaly_discontinuity", Image: img})
	}

	_, saved, err := store.SaveAll(&domain.Result{Localizations: locs}, "id-2")
	require.NoError(t, err)

	// maksimal 3 contoh frame, urut encounter
	assert.Contains(t, saved, "anomaly_frame_0")
	assert.Contains(t, saved, "anomaly_frame_1")
	assert.Contains(t, saved, "anomaly_frame_2")
	assert.NotContains(t, saved, "anomaly_frame_3")

	frames := 0
	for key := range saved {
		if strings.HasPrefix(key, "anomaly_frame_") {
			frames++
		}
	}
	assert.Equal(t, 3, frames)
}

func TestSaveAllEmptyResult(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "artifacts"))
	require.NoError(t, err)

	folder, saved, err := store.SaveAll(&domain.Result{}, "id-3")
	require.NoError(t, err)
	assert.DirExists(t, folder)
	assert.Empty(t, saved)
}

func TestRemoveFolder(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "artifacts"))
	require.NoError(t, err)

	folder, _, err := store.SaveAll(&domain.Result{}, "id-4")
	require.NoError(t, err)

	require.NoError(t, store.RemoveFolder(folder))
	assert.NoDirExists(t, folder)

	// folder yang sudah tidak ada bukan error
	assert.NoError(t, store.RemoveFolder(folder))
	assert.NoError(t, store.RemoveFolder(""))
}

func TestRemoveAllRecreatesRoot(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "artifacts"))
	require.NoError(t, err)

	_, _, err = store.SaveAll(&domain.Result{}, "id-5")
	require.NoError(t, err)

	require.NoError(t, store.RemoveAll())

	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDataURI(t *testing.T) {
	dir := t.TempDir()
	png := writeFile(t, dir, "plot.PNG", "png-bytes")
	jpg := writeFile(t, dir, "frame.jpg", "jpg-bytes")

	uri, ok := DataURI(png)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	uri, ok = DataURI(jpg)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))

	_, ok = DataURI(filepath.Join(dir, "tidak_ada.png"))
	assert.False(t, ok)
}
