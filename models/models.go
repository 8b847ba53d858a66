package models

import (
	"encoding/json"
	"time"
)

// RecordData is an uploaded audio capture. Audio holds base64-encoded
// WAV bytes as sent by the recording client.
type RecordData struct {
	Audio      string  `json:"audio"`
	Duration   float64 `json:"duration"`
	Channels   int     `json:"channels"`
	SampleRate int     `json:"sampleRate"`
	SampleSize int     `json:"sampleSize"`
	DeviceID   string  `json:"deviceId,omitempty"`
}

// DiagnosisRecord represents a stored diagnosis result with metadata
type DiagnosisRecord struct {
	ID                int64           `json:"id"`
	Timestamp         time.Time       `json:"timestamp"`
	DeviceID          string          `json:"deviceId,omitempty"`
	CustomerID        *int64          `json:"customerId,omitempty"`
	Kind              string          `json:"kind"` // "fault" or "refrigerant"
	Label             string          `json:"label,omitempty"`
	DisplayName       string          `json:"displayName,omitempty"`
	Confidence        float64         `json:"confidence"`
	Provenance        string          `json:"provenance"`
	UrgencyName       string          `json:"urgencyName,omitempty"`
	TotalScore        int             `json:"totalScore,omitempty"`
	RecommendedAction string          `json:"recommendedAction,omitempty"`
	Breakdown         json.RawMessage `json:"breakdown,omitempty"`
	RecordingPath     string          `json:"recordingPath,omitempty"`
	Notes             string          `json:"notes,omitempty"`
}

// Customer is a service customer whose equipment gets diagnosed.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Equipment string    `json:"equipment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
