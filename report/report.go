package report

// Plain-text service report rendering, handed to the technician or
// attached to a customer record.

import (
	"fmt"
	"strings"
	"time"

	"github.com/sndercer/compressor-ai-diagnosis/diagnosis"
	"github.com/sndercer/compressor-ai-diagnosis/models"
)

const reportTimeLayout = "2006-01-02 15:04:05 MST"

// Render formats a stored diagnosis record as a service report.
func Render(record *models.DiagnosisRecord, customer *models.Customer) string {
	var b strings.Builder

	b.WriteString("=== Compressor Diagnosis Report ===\n")
	fmt.Fprintf(&b, "Date: %s\n", record.Timestamp.Format(reportTimeLayout))
	if customer != nil {
		fmt.Fprintf(&b, "Customer: %s\n", customer.Name)
		if customer.Equipment != "" {
			fmt.Fprintf(&b, "Equipment: %s\n", customer.Equipment)
		}
	}
	if record.DeviceID != "" {
		fmt.Fprintf(&b, "Device: %s\n", record.DeviceID)
	}
	b.WriteString("\n")

	switch record.Kind {
	case "refrigerant":
		fmt.Fprintf(&b, "Refrigerant check: %s\n", record.Label)
		fmt.Fprintf(&b, "Urgency: %s (score %d/100)\n", record.UrgencyName, record.TotalScore)
		if record.RecommendedAction != "" {
			fmt.Fprintf(&b, "Recommended action: %s\n", record.RecommendedAction)
		}
	default:
		fmt.Fprintf(&b, "Detected condition: %s\n", record.DisplayName)
	}
	fmt.Fprintf(&b, "Confidence: %.0f%%\n", record.Confidence*100)
	if record.Provenance == string(diagnosis.ProvenanceMock) {
		b.WriteString("NOTE: produced in demo mode without a trained model\n")
	}

	if record.Notes != "" {
		fmt.Fprintf(&b, "\nTechnician notes: %s\n", record.Notes)
	}

	return b.String()
}

// Filename suggests a per-day report file name.
func Filename(record *models.DiagnosisRecord) string {
	ts := record.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return fmt.Sprintf("diagnosis_%s_%d.txt", ts.Format("20060102"), record.ID)
}
