package diagnosis

import "testing"

func TestDefaultLabelTable(t *testing.T) {
	t.Parallel()

	table := DefaultLabelTable()
	if table.Len() != len(defaultLabels) {
		t.Fatalf("table has %d labels, expected %d", table.Len(), len(defaultLabels))
	}

	for i, label := range defaultLabels {
		if got := table.LabelFor(i); got != label {
			t.Errorf("LabelFor(%d) = %s, want %s", i, got, label)
		}
		idx, ok := table.IndexOf(label)
		if !ok || idx != i {
			t.Errorf("IndexOf(%s) = %d,%v, want %d,true", label, idx, ok, i)
		}
	}
}

func TestUnknownClassSafety(t *testing.T) {
	t.Parallel()

	table := DefaultLabelTable()

	for _, idx := range []int{-1, table.Len(), 99} {
		label := table.LabelFor(idx)
		if !IsUnknown(label) {
			t.Errorf("LabelFor(%d) = %s, expected an unknown-class label", idx, label)
		}
		if label == LabelCompressorNormal {
			t.Errorf("out-of-range index %d must never map to a normal label", idx)
		}
	}

	if got := table.LabelFor(99); got != "unknown_class_99" {
		t.Errorf("LabelFor(99) = %s, want unknown_class_99", got)
	}
}

func TestNewLabelTableValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewLabelTable(nil); err == nil {
		t.Error("empty label list must be rejected")
	}
	if _, err := NewLabelTable([]string{"a", ""}); err == nil {
		t.Error("blank label must be rejected")
	}
	if _, err := NewLabelTable([]string{"a", "b", "a"}); err == nil {
		t.Error("duplicate label must be rejected")
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	if got := DisplayName(LabelRefrigerantLow); got != "Refrigerant low" {
		t.Errorf("DisplayName(refrigerant_low) = %q", got)
	}
	if got := DisplayName("unknown_class_7"); got != "Unknown fault class" {
		t.Errorf("DisplayName(unknown_class_7) = %q", got)
	}
	if got := DisplayName("custom_label"); got != "custom_label" {
		t.Errorf("DisplayName(custom_label) = %q", got)
	}
}
