package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sndercer/compressor-ai-diagnosis/configs"
	"github.com/sndercer/compressor-ai-diagnosis/db"
	"github.com/sndercer/compressor-ai-diagnosis/diagnosis"
	"github.com/sndercer/compressor-ai-diagnosis/history"
	"github.com/sndercer/compressor-ai-diagnosis/utils"
)

// loadModel loads one model bundle, tolerating absence: a missing model
// degrades the engine to its remaining paths rather than failing startup.
func loadModel(path, kind string) *diagnosis.ModelBundle {
	logger := utils.GetLogger()
	if path == "" {
		return nil
	}
	bundle, err := diagnosis.LoadModelBundle(path)
	if err != nil {
		logger.Warn("model bundle unavailable",
			slog.String("kind", kind),
			slog.String("path", path),
			slog.Any("error", err))
		return nil
	}
	log.Printf("Loaded %s model %q (%d trees, %d classes)",
		kind, bundle.Name, bundle.Info().TreeCount, bundle.Info().ClassCount)
	return bundle
}

func buildEngine(cfg *configs.Config) (*diagnosis.Engine, error) {
	enhanced := loadModel(cfg.Model.EnhancedPath, "enhanced")
	basic := loadModel(cfg.Model.BasicPath, "basic")

	var mock *diagnosis.MockGenerator
	if cfg.Model.AllowMock {
		mock = diagnosis.NewMockGenerator()
	}
	if enhanced == nil && basic == nil && mock == nil {
		return nil, fmt.Errorf("no models loaded and mock generation disabled")
	}

	return diagnosis.NewEngine(diagnosis.EngineConfig{
		Mode:      diagnosis.FusionMode(cfg.Fusion.Mode),
		Threshold: cfg.Fusion.Threshold,
		Enhanced:  enhanced,
		Basic:     basic,
		Mock:      mock,
		Rules:     cfg.Rules,
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func newRouter(server *diagnosisServer) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", server.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/model", server.handleModelInfo).Methods(http.MethodGet)
	api.HandleFunc("/diagnose", server.handleDiagnose).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/refrigerant/diagnose", server.handleRefrigerantDiagnose).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/audio/analyze", server.handleAnalyzeBands).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/diagnoses", server.handleListDiagnoses).Methods(http.MethodGet)
	api.HandleFunc("/customers", server.handleCreateCustomer).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/customers", server.handleListCustomers).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id:[0-9]+}", server.handleGetCustomer).Methods(http.MethodGet)

	router.PathPrefix("/").Handler(http.FileServer(http.Dir("static")))
	return router
}

func serve(cfg *configs.Config) {
	engine, err := buildEngine(cfg)
	if err != nil {
		log.Fatalf("failed to build diagnosis engine: %v", err)
	}

	var sqlite *db.SQLiteClient
	if cfg.Storage.SQLitePath != "" {
		sqlite, err = db.NewSQLiteClient(cfg.Storage.SQLitePath)
		if err != nil {
			log.Printf("WARNING: sqlite unavailable (%v), falling back to JSON history", err)
			sqlite = nil
		}
	}
	if sqlite != nil {
		defer sqlite.Close()
	}

	hist := history.NewStore(cfg.Storage.HistoryPath)
	recordingDir := ""
	if cfg.Audio.SaveRecordings {
		recordingDir = cfg.Audio.RecordingDir
	}
	server := newDiagnosisServer(engine, sqlite, hist, recordingDir)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      newRouter(server),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	log.Printf("Starting HTTP server on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatalf("HTTP server ListenAndServe: %v", err)
	}
}
