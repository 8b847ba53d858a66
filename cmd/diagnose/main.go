package main

// Command-line diagnosis of a single WAV recording, for field use
// without the HTTP server.

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sndercer/compressor-ai-diagnosis/configs"
	"github.com/sndercer/compressor-ai-diagnosis/diagnosis"
	"github.com/sndercer/compressor-ai-diagnosis/models"
	"github.com/sndercer/compressor-ai-diagnosis/report"
)

func main() {
	audioPath := flag.String("audio", "", "Path to the WAV recording (required)")
	configFile := flag.String("config", "", "Path to config file (YAML)")
	kind := flag.String("kind", "fault", "Diagnosis kind: fault or refrigerant")
	fusionMode := flag.String("fusion", "", "Fusion mode override: legacy, enhanced or hybrid")
	cooling := flag.String("cooling", "", "Field observation: cooling performance (good/fair/poor/very_poor)")
	compressorTemp := flag.String("temp", "", "Field observation: compressor temperature (normal/warm/hot/very_hot)")
	frost := flag.String("frost", "", "Field observation: frost formation (none/light/moderate/heavy)")
	cycling := flag.String("cycling", "", "Field observation: cycling frequency (normal/frequent)")
	asJSON := flag.Bool("json", false, "Print the raw result as JSON")
	reportPath := flag.String("report", "", "Optional path to write a service report")
	flag.Parse()

	if *audioPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := configs.Load(*configFile)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *fusionMode != "" {
		cfg.Fusion.Mode = *fusionMode
	}

	audio, err := diagnosis.LoadAudioFile(*audioPath)
	if err != nil {
		log.Fatalf("failed to load audio: %v", err)
	}
	fmt.Printf("Loaded %s: %.2fs at %dHz\n", *audioPath, audio.Duration, audio.SampleRate)

	engine, err := buildEngine(cfg)
	if err != nil {
		log.Fatalf("failed to build engine: %v", err)
	}

	switch *kind {
	case "fault":
		pred, err := engine.Predict(audio)
		if err != nil {
			log.Fatalf("diagnosis failed: %v", err)
		}
		if *asJSON {
			printJSON(pred)
			return
		}
		fmt.Printf("\nResult:     %s\n", pred.DisplayName)
		fmt.Printf("Label:      %s\n", pred.Label)
		fmt.Printf("Confidence: %.1f%%\n", pred.Confidence*100)
		fmt.Printf("Source:     %s\n", pred.Provenance)
		if pred.Provenance == diagnosis.ProvenanceMock {
			fmt.Println("\nNOTE: no trained model was available; this is a demo result.")
		}
		writeReport(*reportPath, &models.DiagnosisRecord{
			Timestamp:   time.Now(),
			Kind:        "fault",
			Label:       string(pred.Label),
			DisplayName: pred.DisplayName,
			Confidence:  pred.Confidence,
			Provenance:  string(pred.Provenance),
		})

	case "refrigerant":
		obs := collectObservations(*cooling, *compressorTemp, *frost, *cycling)
		verdict, err := engine.DiagnoseRefrigerant(audio, obs)
		if err != nil {
			log.Fatalf("diagnosis failed: %v", err)
		}
		if *asJSON {
			printJSON(verdict)
			return
		}
		fmt.Printf("\nRefrigerant level: %s\n", verdict.Level)
		fmt.Printf("Urgency:           %s (score %d/100)\n", verdict.UrgencyName, verdict.TotalScore)
		fmt.Printf("Confidence:        %.1f%%\n", verdict.Confidence*100)
		fmt.Printf("Action:            %s\n", verdict.RecommendedAction)
		fmt.Println("\nBreakdown:")
		for _, line := range verdict.Breakdown {
			fmt.Printf("  [%s] %s\n", line.Severity, line.Message)
		}
		writeReport(*reportPath, &models.DiagnosisRecord{
			Timestamp:         verdict.DiagnosedAt,
			Kind:              "refrigerant",
			Label:             verdict.Level,
			Confidence:        verdict.Confidence,
			Provenance:        string(verdict.Provenance),
			UrgencyName:       verdict.UrgencyName,
			TotalScore:        verdict.TotalScore,
			RecommendedAction: verdict.RecommendedAction,
		})

	default:
		log.Fatalf("unknown diagnosis kind %q (use fault or refrigerant)", *kind)
	}
}

func buildEngine(cfg *configs.Config) (*diagnosis.Engine, error) {
	var enhanced, basic *diagnosis.ModelBundle
	if cfg.Model.EnhancedPath != "" {
		if bundle, err := diagnosis.LoadModelBundle(cfg.Model.EnhancedPath); err == nil {
			enhanced = bundle
		} else {
			log.Printf("enhanced model unavailable: %v", err)
		}
	}
	if cfg.Model.BasicPath != "" {
		if bundle, err := diagnosis.LoadModelBundle(cfg.Model.BasicPath); err == nil {
			basic = bundle
		} else {
			log.Printf("basic model unavailable: %v", err)
		}
	}

	var mock *diagnosis.MockGenerator
	if cfg.Model.AllowMock {
		mock = diagnosis.NewMockGenerator()
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

func collectObservations(cooling, temp, frost, cycling string) *diagnosis.FieldObservation {
	if cooling == "" && temp == "" && frost == "" && cycling == "" {
		return nil
	}
	return &diagnosis.FieldObservation{
		CoolingPerformance:    diagnosis.CoolingPerformance(cooling),
		CompressorTemperature: diagnosis.CompressorTemperature(temp),
		FrostFormation:        diagnosis.FrostFormation(frost),
		CyclingFrequency:      diagnosis.CyclingFrequency(cycling),
	}
}

func writeReport(path string, record *models.DiagnosisRecord) {
	if path == "" {
		return
	}
	if err := os.WriteFile(path, []byte(report.Render(record, nil)), 0644); err != nil {
		log.Fatalf("failed to write report: %v", err)
	}
	fmt.Printf("\nReport written to %s\n", path)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal result: %v", err)
	}
	fmt.Println(string(data))
}
