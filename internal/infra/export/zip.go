package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	domain "github.com/vifapro/vifa-history/internal/domain/history"
)

// Nama entri tetap di dalam bundle ekspor
const (
	jsonEntryName  = "analysis_report.json"
	htmlEntryName  = "analysis_report.html"
	artifactPrefix = "artifacts/"
)

// ZipPackager implementasi port Packager berbasis arsip zip
type ZipPackager struct {
	Renderer domain.Renderer
}

// Pack membundel satu record jadi arsip zip: record sebagai JSON terformat,
// laporan HTML hasil render, dan semua file di folder artefak record.
// Struktur folder artefak diratakan ke prefix artifacts/ pakai nama file saja;
// aman karena artifact store hanya menghasilkan file flat dengan nama unik.
func (p ZipPackager) Pack(a *domain.Analysis) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	recordJSON, err := json.MarshalIndent(a, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	if err := writeEntry(zw, jsonEntryName, recordJSON); err != nil {
		return nil, err
	}

	html, err := p.Renderer.Render(a)
	if err != nil {
		return nil, err
	}
	if err := writeEntry(zw, htmlEntryName, []byte(html)); err != nil {
		return nil, err
	}

	if err := addArtifacts(zw, a.ArtifactsFolder); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write entry %s: %w", name, err)
	}
	return nil
}

func addArtifacts(zw *zip.Writer, folder string) error {
	if folder == "" {
		return nil
	}
	if info, err := os.Stat(folder); err != nil || !info.IsDir() {
		return nil
	}
	return filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open artifact %s: %w", path, err)
		}
		defer f.Close()

		w, err := zw.Create(artifactPrefix + filepath.Base(path))
		if err != nil {
			return fmt.Errorf("create artifact entry: %w", err)
		}
		_, err = io.Copy(w, f)
		return err
	})
}
