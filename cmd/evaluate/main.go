package main

// Model evaluation against a labeled recording set. The data directory
// holds one subdirectory per fault label, each containing WAV files:
//
//   data/
//     compressor_normal/*.wav
//     refrigerant_low/*.wav
//     ...

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sndercer/compressor-ai-diagnosis/diagnosis"
	"github.com/sndercer/compressor-ai-diagnosis/utils"
)

// ClassMetrics tracks per-class performance
type ClassMetrics struct {
	ClassName     string  `json:"className"`
	TotalSamples  int     `json:"totalSamples"`
	CorrectCount  int     `json:"correctCount"`
	Accuracy      float64 `json:"accuracy"`
	AvgConfidence float64 `json:"avgConfidence"`
}

// EvaluationReport contains the full evaluation results
type EvaluationReport struct {
	Timestamp       time.Time                 `json:"timestamp"`
	ModelPath       string                    `json:"modelPath"`
	TotalSamples    int                       `json:"totalSamples"`
	CorrectCount    int                       `json:"correctCount"`
	OverallAccuracy float64                   `json:"overallAccuracy"`
	AvgConfidence   float64                   `json:"avgConfidence"`
	ClassMetrics    []ClassMetrics            `json:"classMetrics"`
	ConfusionMatrix map[string]map[string]int `json:"confusionMatrix"`
	ProcessingTime  time.Duration             `json:"processingTime"`
}

func main() {
	modelPath := flag.String("model", utils.GetEnv("DIAG_MODEL_PATH", "models/enhanced_model.json"), "Path to the model bundle")
	dataDir := flag.String("data", "", "Directory of labeled recordings (required)")
	reportPath := flag.String("report", "", "Optional path to write the JSON report")
	verbose := flag.Bool("v", false, "Print per-file results")
	flag.Parse()

	if *dataDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	bundle, err := diagnosis.LoadModelBundle(*modelPath)
	if err != nil {
		log.Fatalf("failed to load model: %v", err)
	}
	info := bundle.Info()
	fmt.Printf("Model: %s (%s features, %d trees, %d classes)\n",
		*modelPath, info.Mode, info.TreeCount, info.ClassCount)

	report, err := evaluate(bundle, *dataDir, *verbose)
	if err != nil {
		log.Fatalf("evaluation failed: %v", err)
	}
	report.ModelPath = *modelPath

	printReport(report)

	if *reportPath != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			log.Fatalf("failed to marshal report: %v", err)
		}
		if err := os.WriteFile(*reportPath, data, 0644); err != nil {
			log.Fatalf("failed to write report: %v", err)
		}
		fmt.Printf("\nReport written to %s\n", *reportPath)
	}
}

func evaluate(bundle *diagnosis.ModelBundle, dataDir string, verbose bool) (*EvaluationReport, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	report := &EvaluationReport{
		Timestamp:       time.Now(),
		ConfusionMatrix: make(map[string]map[string]int),
	}
	perClass := make(map[string]*ClassMetrics)
	var confidenceSum float64
	start := time.Now()

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		trueLabel := entry.Name()

		files, err := filepath.Glob(filepath.Join(dataDir, trueLabel, "*.wav"))
		if err != nil {
			return nil, err
		}

		metrics := &ClassMetrics{ClassName: trueLabel}
		perClass[trueLabel] = metrics
		var classConfidence float64

		for _, file := range files {
			audio, err := diagnosis.LoadAudioFile(file)
			if err != nil {
				log.Printf("skipping %s: %v", file, err)
				continue
			}

			features, err := diagnosis.Extract(audio, bundle.Mode)
			if err != nil {
				log.Printf("skipping %s: %v", file, err)
				continue
			}

			predicted, confidence, err := bundle.ScoreClassifier(features)
			if err != nil {
				return nil, fmt.Errorf("scoring %s: %w", file, err)
			}

			metrics.TotalSamples++
			report.TotalSamples++
			classConfidence += confidence
			confidenceSum += confidence

			if report.ConfusionMatrix[trueLabel] == nil {
				report.ConfusionMatrix[trueLabel] = make(map[string]int)
			}
			report.ConfusionMatrix[trueLabel][string(predicted)]++

			correct := string(predicted) == trueLabel
			if correct {
				metrics.CorrectCount++
				report.CorrectCount++
			}

			if verbose {
				marker := "OK "
				if !correct {
					marker = "MISS"
				}
				fmt.Printf("  [%s] %s -> %s (%.1f%%)\n",
					marker, filepath.Base(file), predicted, confidence*100)
			}
		}

		if metrics.TotalSamples > 0 {
			metrics.Accuracy = float64(metrics.CorrectCount) / float64(metrics.TotalSamples)
			metrics.AvgConfidence = classConfidence / float64(metrics.TotalSamples)
		}
	}

	report.ProcessingTime = time.Since(start)
	if report.TotalSamples > 0 {
		report.OverallAccuracy = float64(report.CorrectCount) / float64(report.TotalSamples)
		report.AvgConfidence = confidenceSum / float64(report.TotalSamples)
	}

	classNames := make([]string, 0, len(perClass))
	for name := range perClass {
		classNames = append(classNames, name)
	}
	sort.Strings(classNames)
	for _, name := range classNames {
		report.ClassMetrics = append(report.ClassMetrics, *perClass[name])
	}

	return report, nil
}

func printReport(report *EvaluationReport) {
	fmt.Printf("\n%s\n", strings.Repeat("=", 50))
	fmt.Printf("Samples:   %d\n", report.TotalSamples)
	fmt.Printf("Correct:   %d\n", report.CorrectCount)
	fmt.Printf("Accuracy:  %.1f%%\n", report.OverallAccuracy*100)
	fmt.Printf("Avg conf:  %.1f%%\n", report.AvgConfidence*100)
	fmt.Printf("Duration:  %s\n", report.ProcessingTime.Round(time.Millisecond))

	fmt.Println("\nPer-class:")
	for _, m := range report.ClassMetrics {
		fmt.Printf("  %-28s %3d samples, %.1f%% accuracy, %.1f%% avg confidence\n",
			m.ClassName, m.TotalSamples, m.Accuracy*100, m.AvgConfidence*100)
	}
}
