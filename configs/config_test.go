package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sndercer/compressor-ai-diagnosis/diagnosis"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != 5005 {
		t.Errorf("default port = %d, want 5005", cfg.Server.Port)
	}
	if cfg.Fusion.Mode != string(diagnosis.FusionHybrid) {
		t.Errorf("default fusion mode = %q, want hybrid", cfg.Fusion.Mode)
	}
	if cfg.Fusion.Threshold != diagnosis.DefaultFusionThreshold {
		t.Errorf("default threshold = %v, want %v", cfg.Fusion.Threshold, diagnosis.DefaultFusionThreshold)
	}

	want := diagnosis.DefaultRuleConfig()
	if cfg.Rules != want {
		t.Errorf("default rules differ from tuned constants:\n got %+v\nwant %+v", cfg.Rules, want)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diagnosis.yaml")
	content := []byte(`
server:
  port: 9090
fusion:
  mode: enhanced
  threshold: 0.75
rules:
  critical_score: 80
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Fusion.Mode != "enhanced" {
		t.Errorf("fusion mode = %q, want enhanced", cfg.Fusion.Mode)
	}
	if cfg.Fusion.Threshold != 0.75 {
		t.Errorf("threshold = %v, want 0.75", cfg.Fusion.Threshold)
	}
	if cfg.Rules.CriticalScore != 80 {
		t.Errorf("critical score = %d, want 80", cfg.Rules.CriticalScore)
	}
	// untouched rule constants keep their defaults
	if cfg.Rules.LowBandHigh != diagnosis.DefaultRuleConfig().LowBandHigh {
		t.Errorf("low band threshold = %v, want default", cfg.Rules.LowBandHigh)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		return cfg
	}

	cfg := base()
	cfg.Server.Port = 0
	if err := Validate(cfg); err == nil {
		t.Error("zero port must be rejected")
	}

	cfg = base()
	cfg.Fusion.Mode = "psychic"
	if err := Validate(cfg); err == nil {
		t.Error("unknown fusion mode must be rejected")
	}

	cfg = base()
	cfg.Fusion.Threshold = 1.5
	if err := Validate(cfg); err == nil {
		t.Error("out-of-range threshold must be rejected")
	}

	cfg = base()
	cfg.Rules.UrgentScore = cfg.Rules.CriticalScore
	if err := Validate(cfg); err == nil {
		t.Error("non-decreasing breakpoints must be rejected")
	}
}
