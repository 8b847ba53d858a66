package history

// JSON-file diagnosis history, used when the service runs without a
// SQLite database (demo mode, field laptop). Append-only from the
// caller's point of view; the whole file is rewritten on save.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sndercer/compressor-ai-diagnosis/models"
	"github.com/sndercer/compressor-ai-diagnosis/utils"
)

// Store persists diagnosis records to a single JSON file.
type Store struct {
	path string
	mu   sync.RWMutex
}

// NewStore builds a store writing to the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// loadInternal loads all records from the JSON file (without lock)
func (s *Store) loadInternal() ([]models.DiagnosisRecord, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return []models.DiagnosisRecord{}, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("error reading history file: %v", err)
	}

	if len(data) == 0 {
		return []models.DiagnosisRecord{}, nil
	}

	var records []models.DiagnosisRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("error unmarshaling history: %v", err)
	}

	return records, nil
}

// Load returns all stored diagnosis records.
func (s *Store) Load() ([]models.DiagnosisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadInternal()
}

// Save appends a new diagnosis record to the JSON file.
func (s *Store) Save(record *models.DiagnosisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadInternal()
	if err != nil {
		return err
	}

	if record.ID == 0 {
		record.ID = time.Now().UnixNano()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	records = append(records, *record)

	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := utils.CreateFolder(dir); err != nil {
			return fmt.Errorf("error creating directory: %v", err)
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling history: %v", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("error writing history file: %v", err)
	}

	return nil
}
