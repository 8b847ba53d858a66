package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/mdobak/go-xerrors"

	"github.com/sndercer/compressor-ai-diagnosis/db"
	"github.com/sndercer/compressor-ai-diagnosis/diagnosis"
	"github.com/sndercer/compressor-ai-diagnosis/history"
	"github.com/sndercer/compressor-ai-diagnosis/models"
	"github.com/sndercer/compressor-ai-diagnosis/notify"
	"github.com/sndercer/compressor-ai-diagnosis/utils"
)

type apiError struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode JSON response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiError{Message: message})
}

// diagnosisServer holds the request-scoped collaborators. The engine and
// stores are built once at startup and shared read-only.
type diagnosisServer struct {
	engine       *diagnosis.Engine
	sqlite       *db.SQLiteClient // nil when running file-only
	history      *history.Store
	recordingDir string // empty disables upload persistence
	logger       *slog.Logger
}

func newDiagnosisServer(engine *diagnosis.Engine, sqlite *db.SQLiteClient, hist *history.Store, recordingDir string) *diagnosisServer {
	return &diagnosisServer{
		engine:       engine,
		sqlite:       sqlite,
		history:      hist,
		recordingDir: recordingDir,
		logger:       utils.GetLogger(),
	}
}

// persistRecord stores a record in SQLite when available, otherwise in
// the JSON history file. Persistence failure never fails the diagnosis.
func (s *diagnosisServer) persistRecord(ctx context.Context, record *models.DiagnosisRecord) {
	if s.sqlite != nil {
		id, err := s.sqlite.StoreDiagnosis(record)
		if err == nil {
			record.ID = id
			return
		}
		s.logger.ErrorContext(ctx, "failed to store diagnosis in sqlite", slog.Any("error", xerrors.New(err)))
	}
	if s.history != nil {
		if err := s.history.Save(record); err != nil {
			s.logger.ErrorContext(ctx, "failed to store diagnosis in history file", slog.Any("error", xerrors.New(err)))
		}
	}
}

type diagnoseRequest struct {
	Recording models.RecordData `json:"recording"`
}

type diagnoseResponse struct {
	Prediction diagnosis.Prediction `json:"prediction"`
	RecordID   int64                `json:"recordId,omitempty"`
	Message    string               `json:"message"`
}

func (s *diagnosisServer) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req diagnoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(req.Recording.Audio) == "" {
		writeJSONError(w, http.StatusBadRequest, "recording audio is required")
		return
	}

	audio, err := diagnosis.PrepareAudioSample(req.Recording, s.recordingDir)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to prepare audio sample", slog.Any("error", xerrors.New(err)))
		writeJSONError(w, http.StatusBadRequest, "could not decode audio recording")
		return
	}

	pred, err := s.engine.Predict(audio)
	if err != nil {
		s.logger.ErrorContext(ctx, "prediction failed", slog.Any("error", xerrors.New(err)))
		switch {
		case errors.Is(err, diagnosis.ErrInvalidAudio):
			writeJSONError(w, http.StatusBadRequest, "invalid audio recording")
		case errors.Is(err, diagnosis.ErrClassifierUnavailable):
			writeJSONError(w, http.StatusServiceUnavailable, "no classifier available")
		default:
			writeJSONError(w, http.StatusInternalServerError, "diagnosis failed")
		}
		return
	}

	record := &models.DiagnosisRecord{
		DeviceID:      req.Recording.DeviceID,
		Kind:          "fault",
		Label:         string(pred.Label),
		DisplayName:   pred.DisplayName,
		Confidence:    pred.Confidence,
		Provenance:    string(pred.Provenance),
		RecordingPath: audio.Persisted,
	}
	s.persistRecord(ctx, record)

	writeJSON(w, http.StatusOK, diagnoseResponse{
		Prediction: pred,
		RecordID:   record.ID,
		Message:    notify.PredictionMessage(req.Recording.DeviceID, &pred),
	})
}

type refrigerantRequest struct {
	Recording    models.RecordData           `json:"recording"`
	Observations *diagnosis.FieldObservation `json:"observations,omitempty"`
}

type refrigerantResponse struct {
	Verdict  diagnosis.DiagnosisVerdict `json:"verdict"`
	RecordID int64                      `json:"recordId,omitempty"`
	Message  string                     `json:"message"`
}

func (s *diagnosisServer) handleRefrigerantDiagnose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req refrigerantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(req.Recording.Audio) == "" {
		writeJSONError(w, http.StatusBadRequest, "recording audio is required")
		return
	}

	audio, err := diagnosis.PrepareAudioSample(req.Recording, s.recordingDir)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to prepare audio sample", slog.Any("error", xerrors.New(err)))
		writeJSONError(w, http.StatusBadRequest, "could not decode audio recording")
		return
	}

	verdict, err := s.engine.DiagnoseRefrigerant(audio, req.Observations)
	if err != nil {
		s.logger.ErrorContext(ctx, "refrigerant diagnosis failed", slog.Any("error", xerrors.New(err)))
		if errors.Is(err, diagnosis.ErrInvalidAudio) {
			writeJSONError(w, http.StatusBadRequest, "invalid audio recording")
		} else {
			writeJSONError(w, http.StatusInternalServerError, "diagnosis failed")
		}
		return
	}

	breakdown, _ := json.Marshal(verdict.Breakdown)
	record := &models.DiagnosisRecord{
		Timestamp:         verdict.DiagnosedAt,
		DeviceID:          req.Recording.DeviceID,
		Kind:              "refrigerant",
		Label:             verdict.Level,
		Confidence:        verdict.Confidence,
		Provenance:        string(verdict.Provenance),
		UrgencyName:       verdict.UrgencyName,
		TotalScore:        verdict.TotalScore,
		RecommendedAction: verdict.RecommendedAction,
		Breakdown:         breakdown,
		RecordingPath:     audio.Persisted,
	}
	s.persistRecord(ctx, record)

	writeJSON(w, http.StatusOK, refrigerantResponse{
		Verdict:  verdict,
		RecordID: record.ID,
		Message:  notify.VerdictMessage(req.Recording.DeviceID, &verdict),
	})
}

func (s *diagnosisServer) handleAnalyzeBands(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req diagnoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(req.Recording.Audio) == "" {
		writeJSONError(w, http.StatusBadRequest, "recording audio is required")
		return
	}

	audio, err := diagnosis.PrepareAudioSample(req.Recording, "")
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to prepare audio sample", slog.Any("error", xerrors.New(err)))
		writeJSONError(w, http.StatusBadRequest, "could not decode audio recording")
		return
	}

	analysis, err := diagnosis.AnalyzeBands(audio)
	if err != nil {
		s.logger.ErrorContext(ctx, "band analysis failed", slog.Any("error", xerrors.New(err)))
		writeJSONError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

func (s *diagnosisServer) handleListDiagnoses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSONError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	deviceID := r.URL.Query().Get("device")

	var (
		records []models.DiagnosisRecord
		err     error
	)
	switch {
	case s.sqlite != nil && deviceID != "":
		records, err = s.sqlite.GetDiagnosesByDevice(deviceID, limit)
	case s.sqlite != nil:
		records, err = s.sqlite.GetDiagnoses(limit)
	default:
		records, err = s.history.Load()
		if err == nil {
			records = filterHistory(records, deviceID, limit)
		}
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load diagnoses", slog.Any("error", xerrors.New(err)))
		writeJSONError(w, http.StatusInternalServerError, "failed to load diagnoses")
		return
	}
	if records == nil {
		records = []models.DiagnosisRecord{}
	}

	writeJSON(w, http.StatusOK, records)
}

// filterHistory applies the device filter and limit to the append-ordered
// history slice, newest first, so both storage backends answer alike.
func filterHistory(records []models.DiagnosisRecord, deviceID string, limit int) []models.DiagnosisRecord {
	filtered := make([]models.DiagnosisRecord, 0, limit)
	for i := len(records) - 1; i >= 0 && len(filtered) < limit; i-- {
		if deviceID != "" && records[i].DeviceID != deviceID {
			continue
		}
		filtered = append(filtered, records[i])
	}
	return filtered
}

func (s *diagnosisServer) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"fusionMode": s.engine.Mode(),
		"threshold":  s.engine.Threshold(),
		"models":     s.engine.ModelInfo(),
	})
}

type customerRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Equipment string `json:"equipment"`
}

func (s *diagnosisServer) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	if s.sqlite == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "customer registry requires database storage")
		return
	}

	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := s.sqlite.RegisterCustomer(req.Name, req.Phone, req.Equipment)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to register customer", slog.Any("error", xerrors.New(err)))
		writeJSONError(w, http.StatusInternalServerError, "failed to register customer")
		return
	}

	customer, _, err := s.sqlite.GetCustomer(id)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to load registered customer")
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

func (s *diagnosisServer) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	if s.sqlite == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "customer registry requires database storage")
		return
	}

	customers, err := s.sqlite.ListCustomers()
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to list customers", slog.Any("error", xerrors.New(err)))
		writeJSONError(w, http.StatusInternalServerError, "failed to list customers")
		return
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	writeJSON(w, http.StatusOK, customers)
}

func (s *diagnosisServer) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	if s.sqlite == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "customer registry requires database storage")
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	customer, found, err := s.sqlite.GetCustomer(id)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to load customer")
		return
	}
	if !found {
		writeJSONError(w, http.StatusNotFound, "customer not found")
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (s *diagnosisServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
