package notify

// Alert message formatting for diagnosis results. Rendering only; the
// delivery channel (SMS gateway, messenger webhook) is configured by the
// operator and receives the formatted text.

import (
	"fmt"
	"strings"

	"github.com/sndercer/compressor-ai-diagnosis/diagnosis"
)

var urgencyHeadlines = map[diagnosis.UrgencyTier]string{
	diagnosis.UrgencyCritical:  "CRITICAL: immediate action required",
	diagnosis.UrgencyUrgent:    "URGENT: service needed soon",
	diagnosis.UrgencyAttention: "ATTENTION: monitor the equipment",
	diagnosis.UrgencyNormal:    "Normal: no action needed",
}

// VerdictMessage renders a refrigerant diagnosis verdict as an alert body.
func VerdictMessage(equipment string, verdict *diagnosis.DiagnosisVerdict) string {
	var b strings.Builder

	headline, ok := urgencyHeadlines[verdict.Urgency]
	if !ok {
		headline = "Diagnosis result"
	}
	fmt.Fprintf(&b, "[%s]\n", headline)
	if equipment != "" {
		fmt.Fprintf(&b, "Equipment: %s\n", equipment)
	}
	fmt.Fprintf(&b, "Refrigerant level: %s (score %d/100, confidence %.0f%%)\n",
		verdict.Level, verdict.TotalScore, verdict.Confidence*100)
	fmt.Fprintf(&b, "Action: %s\n", verdict.RecommendedAction)

	for _, line := range verdict.Breakdown {
		if line.Severity == diagnosis.SeverityDanger || line.Severity == diagnosis.SeverityWarning {
			fmt.Fprintf(&b, "- %s\n", line.Message)
		}
	}

	return b.String()
}

// PredictionMessage renders a fault prediction as an alert body. Mock
// results are labeled so they are never mistaken for a real diagnosis.
func PredictionMessage(equipment string, pred *diagnosis.Prediction) string {
	var b strings.Builder

	if equipment != "" {
		fmt.Fprintf(&b, "Equipment: %s\n", equipment)
	}
	fmt.Fprintf(&b, "Detected: %s (confidence %.0f%%)\n", pred.DisplayName, pred.Confidence*100)
	if pred.Provenance == diagnosis.ProvenanceMock {
		b.WriteString("NOTE: demo result, no trained model was available\n")
	}

	return b.String()
}
