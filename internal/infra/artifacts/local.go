package artifacts

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	domain "github.com/vifapro/vifa-history/internal/domain/history"
)

// Maksimal contoh frame anomali yang disalin per record
const maxAnomalyFrames = 3

// Store menyalin artefak visual (plot, contoh frame, laporan engine) ke satu
// folder per record di bawah root.
type Store struct {
	root string
}

// New membuat store dan memastikan root folder artefak ada.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact root: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Root() string { return s.root }

// SaveAll menyalin artefak yang resolvable dari result ke folder milik id.
// Source yang tidak ada di disk dilewati diam-diam; result dari engine memang
// boleh terisi sebagian.
func (s *Store) SaveAll(result *domain.Result, id domain.AnalysisID) (string, map[string]string, error) {
	folder := filepath.Join(s.root, string(id))
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", nil, fmt.Errorf("create artifact folder: %w", err)
	}

	saved := make(map[string]string)

	// plot: nama file asli dipertahankan, key pakai nama logis plot
	for name, src := range result.Plots {
		if !fileExists(src) {
			continue
		}
		dst := filepath.Join(folder, filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			return "", nil, err
		}
		saved[name] = dst
	}

	// contoh frame anomali: 3 pertama yang punya image resolvable,
	// urut sesuai encounter (bukan confidence)
	frames := 0
	for _, loc := range result.Localizations {
		if frames >= maxAnomalyFrames {
			break
		}
		if loc.Image == "" || !fileExists(loc.Image) {
			continue
		}
		dst := filepath.Join(folder, fmt.Sprintf("sample_anomaly_frame_%d.jpg", frames))
		if err := copyFile(loc.Image, dst); err != nil {
			return "", nil, err
		}
		saved[fmt.Sprintf("anomaly_frame_%d", frames)] = dst
		frames++
	}

	// laporan yang dihasilkan engine
	reports := []struct {
		key string
		src string
	}{
		{"pdf_report", result.PDFReportPath},
		{"html_report", result.HTMLReportPath},
		{"json_report", result.JSONReportPath},
	}
	for _, r := range reports {
		if r.src == "" || !fileExists(r.src) {
			continue
		}
		dst := filepath.Join(folder, filepath.Base(r.src))
		if err := copyFile(r.src, dst); err != nil {
			return "", nil, err
		}
		saved[r.key] = dst
	}

	return folder, saved, nil
}

// RemoveFolder menghapus folder artefak milik satu record.
func (s *Store) RemoveFolder(folder string) error {
	if folder == "" {
		return nil
	}
	if info, err := os.Stat(folder); err != nil || !info.IsDir() {
		return nil
	}
	return os.RemoveAll(folder)
}

// RemoveAll menghapus seluruh root artefak lalu membuatnya lagi kosong.
func (s *Store) RemoveAll() error {
	if err := os.RemoveAll(s.root); err != nil {
		return err
	}
	return os.MkdirAll(s.root, 0o755)
}

// DataURI mengonversi file gambar artefak jadi data URI base64 untuk
// ditampilkan inline di web. MIME dipilih dari ekstensi: .png -> image/png,
// selain itu dianggap JPEG. ("", false) untuk path yang tidak terbaca.
func DataURI(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	mime := "image/jpeg"
	if strings.EqualFold(filepath.Ext(path), ".png") {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), true
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copy artifact %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("copy artifact %s: %w", src, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy artifact %s: %w", src, err)
	}
	return out.Close()
}
