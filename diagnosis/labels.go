package diagnosis

// Fault label taxonomy
//
// The classifier emits raw class indices; this table maps them to the
// closed fault enumeration. Indices without an entry map to an explicit
// unknown label instead of silently defaulting to a real class.

import (
	"fmt"
	"strings"
)

// FaultLabel is one value from the closed fault enumeration.
type FaultLabel string

const (
	LabelCompressorNormal      FaultLabel = "compressor_normal"
	LabelCompressorOverload    FaultLabel = "compressor_overload"
	LabelCompressorBearingWear FaultLabel = "compressor_bearing_wear"
	LabelCompressorValveFault  FaultLabel = "compressor_valve_fault"
	LabelFanNormal             FaultLabel = "fan_normal"
	LabelFanImbalance          FaultLabel = "fan_imbalance"
	LabelFanBearingWear        FaultLabel = "fan_bearing_wear"
	LabelRefrigerantNormal     FaultLabel = "refrigerant_normal"
	LabelRefrigerantLow        FaultLabel = "refrigerant_low"
	LabelRefrigerantLeak       FaultLabel = "refrigerant_leak"
	LabelVibrationMount        FaultLabel = "vibration_mount"
	LabelElectricalNoise       FaultLabel = "electrical_noise"
)

const unknownLabelPrefix = "unknown_class_"

var defaultLabels = []FaultLabel{
	LabelCompressorNormal,
	LabelCompressorOverload,
	LabelCompressorBearingWear,
	LabelCompressorValveFault,
	LabelFanNormal,
	LabelFanImbalance,
	LabelFanBearingWear,
	LabelRefrigerantNormal,
	LabelRefrigerantLow,
	LabelRefrigerantLeak,
	LabelVibrationMount,
	LabelElectricalNoise,
}

var displayNames = map[FaultLabel]string{
	LabelCompressorNormal:      "Compressor normal",
	LabelCompressorOverload:    "Compressor overload",
	LabelCompressorBearingWear: "Compressor bearing wear",
	LabelCompressorValveFault:  "Compressor valve fault",
	LabelFanNormal:             "Fan normal",
	LabelFanImbalance:          "Fan imbalance",
	LabelFanBearingWear:        "Fan bearing wear",
	LabelRefrigerantNormal:     "Refrigerant flow normal",
	LabelRefrigerantLow:        "Refrigerant low",
	LabelRefrigerantLeak:       "Refrigerant leak",
	LabelVibrationMount:        "Mount vibration",
	LabelElectricalNoise:       "Electrical noise",
}

// LabelTable is an immutable bidirectional index<->label mapping,
// validated when constructed.
type LabelTable struct {
	labels []FaultLabel
	index  map[FaultLabel]int
}

// NewLabelTable builds and validates a table from an ordered label list.
func NewLabelTable(labels []string) (*LabelTable, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("label table is empty")
	}

	table := &LabelTable{
		labels: make([]FaultLabel, len(labels)),
		index:  make(map[FaultLabel]int, len(labels)),
	}
	for i, raw := range labels {
		label := FaultLabel(strings.TrimSpace(raw))
		if label == "" {
			return nil, fmt.Errorf("label at index %d is empty", i)
		}
		if _, dup := table.index[label]; dup {
			return nil, fmt.Errorf("duplicate label %q", label)
		}
		table.labels[i] = label
		table.index[label] = i
	}
	return table, nil
}

// DefaultLabelTable returns the table over the built-in fault enumeration.
func DefaultLabelTable() *LabelTable {
	raw := make([]string, len(defaultLabels))
	for i, l := range defaultLabels {
		raw[i] = string(l)
	}
	table, err := NewLabelTable(raw)
	if err != nil {
		// defaultLabels is a compile-time constant set; this cannot happen
		panic(err)
	}
	return table
}

// Len returns the number of known classes.
func (t *LabelTable) Len() int { return len(t.labels) }

// LabelFor maps a raw class index to its label. Out-of-range indices get
// an explicit unknown label.
func (t *LabelTable) LabelFor(idx int) FaultLabel {
	if idx < 0 || idx >= len(t.labels) {
		return FaultLabel(fmt.Sprintf("%s%d", unknownLabelPrefix, idx))
	}
	return t.labels[idx]
}

// IndexOf returns the class index for a label.
func (t *LabelTable) IndexOf(label FaultLabel) (int, bool) {
	idx, ok := t.index[label]
	return idx, ok
}

// Labels returns a copy of the ordered label list.
func (t *LabelTable) Labels() []FaultLabel {
	return append([]FaultLabel(nil), t.labels...)
}

// IsUnknown reports whether the label is an unknown-class placeholder.
func IsUnknown(label FaultLabel) bool {
	return strings.HasPrefix(string(label), unknownLabelPrefix)
}

// DisplayName returns the human-readable name for a label.
func DisplayName(label FaultLabel) string {
	if name, ok := displayNames[label]; ok {
		return name
	}
	if IsUnknown(label) {
		return "Unknown fault class"
	}
	return string(label)
}
