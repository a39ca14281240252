package middleware

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Validasi input untuk endpoint riwayat

var analysisIDPattern = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)

// ValidateAnalysisID cek format ID analisis (UUID v4)
func ValidateAnalysisID(id string) error {
	if id == "" {
		return fmt.Errorf("analysis ID cannot be empty")
	}
	if !analysisIDPattern.MatchString(strings.ToLower(id)) {
		return fmt.Errorf("invalid analysis ID format")
	}
	return nil
}

// ValidateArtifactPath pastikan path artefak berada di bawah root; menolak
// path traversal untuk endpoint data-uri
func ValidateArtifactPath(root, path string) error {
	if path == "" {
		return fmt.Errorf("artifact path cannot be empty")
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("artifact path outside artifact root")
	}
	return nil
}

// SanitizeString buang null byte dan karakter kontrol dari input bebas
// (nama video dari klien)
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}
