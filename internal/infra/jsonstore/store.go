package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"

	domain "github.com/vifapro/vifa-history/internal/domain/history"
)

// Store: koleksi riwayat dalam satu dokumen JSON. Tiap mutasi memuat seluruh
// koleksi, mengubahnya di memori, lalu menulis ulang seluruh file. Skala
// koleksi kecil dan single-process, jadi pola rewrite utuh ini disengaja;
// tidak ada locking, penulis paralel bisa saling menimpa (last write wins).
type Store struct {
	path string
}

// New membuat store dan memastikan file koleksi ada (list kosong kalau belum).
func New(path string) (*Store, error) {
	s := &Store{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write([]domain.Analysis{}); err != nil {
			return nil, fmt.Errorf("init history file: %w", err)
		}
	}
	return s, nil
}

// LoadAll memuat seluruh koleksi. File hilang atau JSON rusak di-reset jadi
// koleksi kosong (self-heal); isi yang tidak terbaca dibuang diam-diam.
func (s *Store) LoadAll() ([]domain.Analysis, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return s.heal()
	}
	var records []domain.Analysis
	if err := json.Unmarshal(data, &records); err != nil {
		return s.heal()
	}
	if records == nil {
		records = []domain.Analysis{}
	}
	return records, nil
}

func (s *Store) heal() ([]domain.Analysis, error) {
	if err := s.write([]domain.Analysis{}); err != nil {
		return nil, fmt.Errorf("reset history file: %w", err)
	}
	return []domain.Analysis{}, nil
}

// Append menambah satu entri di akhir koleksi.
func (s *Store) Append(a *domain.Analysis) error {
	records, err := s.LoadAll()
	if err != nil {
		return err
	}
	records = append(records, *a)
	return s.write(records)
}

// Get scan linear cari ID persis; nil kalau tidak ada.
func (s *Store) Get(id domain.AnalysisID) (*domain.Analysis, error) {
	records, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, nil
}

// Remove menghapus entri by ID; false kalau tidak ditemukan.
func (s *Store) Remove(id domain.AnalysisID) (bool, error) {
	records, err := s.LoadAll()
	if err != nil {
		return false, err
	}
	kept := records[:0]
	found := false
	for _, r := range records {
		if r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return false, nil
	}
	return true, s.write(kept)
}

// Reset mengosongkan koleksi.
func (s *Store) Reset() error {
	return s.write([]domain.Analysis{})
}

func (s *Store) write(records []domain.Analysis) error {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
