package history

import (
	"path/filepath"
	"testing"

	"github.com/sndercer/compressor-ai-diagnosis/models"
)

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "nested", "history.json"))

	records, err := store.Load()
	if err != nil {
		t.Fatalf("Load on missing file returned error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history, got %d records", len(records))
	}

	first := &models.DiagnosisRecord{
		Kind:       "fault",
		Label:      "compressor_overload",
		Confidence: 0.78,
		Provenance: "enhanced",
	}
	if err := store.Save(first); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if first.ID == 0 {
		t.Error("Save should assign an id")
	}
	if first.Timestamp.IsZero() {
		t.Error("Save should assign a timestamp")
	}

	second := &models.DiagnosisRecord{
		Kind:        "refrigerant",
		Label:       "low",
		UrgencyName: "urgent",
		TotalScore:  55,
		Provenance:  "rules",
	}
	if err := store.Save(second); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	records, err = store.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Label != "compressor_overload" || records[1].TotalScore != 55 {
		t.Errorf("records not preserved: %+v", records)
	}
}
