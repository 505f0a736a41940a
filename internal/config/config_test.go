package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Defaults.CapitalHKD != 2_000_000 {
		t.Errorf("capital default = %v, want 2000000", cfg.Defaults.CapitalHKD)
	}
	if cfg.Defaults.IBFxRate != 0.128 {
		t.Errorf("ib fx default = %v, want 0.128", cfg.Defaults.IBFxRate)
	}
	if cfg.Defaults.FutuFxRate != 0.12785 {
		t.Errorf("futu fx default = %v, want 0.12785", cfg.Defaults.FutuFxRate)
	}
	if cfg.Defaults.PreferentialRatePct != 3.5 {
		t.Errorf("preferential default = %v, want 3.5", cfg.Defaults.PreferentialRatePct)
	}
	if cfg.API.Port != 8750 {
		t.Errorf("api port default = %v, want 8750", cfg.API.Port)
	}
	if cfg.Sources.CacheTTLSec != 300 {
		t.Errorf("cache ttl default = %v, want 300", cfg.Sources.CacheTTLSec)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
defaults:
  capital_hkd: 500000
  currency: HKD
sources:
  effr_url: http://localhost:9999/effr
api:
  port: 9100
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Defaults.CapitalHKD != 500_000 {
		t.Errorf("capital = %v, want 500000 (file override)", cfg.Defaults.CapitalHKD)
	}
	if cfg.Defaults.Currency != "HKD" {
		t.Errorf("currency = %q, want HKD", cfg.Defaults.Currency)
	}
	// Untouched keys keep their defaults.
	if cfg.Defaults.FutuReturnUSDPct != 4.8491 {
		t.Errorf("futu usd return = %v, want default 4.8491", cfg.Defaults.FutuReturnUSDPct)
	}
	if cfg.Sources.EFFRURL != "http://localhost:9999/effr" {
		t.Errorf("effr url = %q", cfg.Sources.EFFRURL)
	}
	if cfg.API.Port != 9100 {
		t.Errorf("api port = %v, want 9100", cfg.API.Port)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestConfig_Inputs(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	in := cfg.Inputs()
	if err := in.Validate(); err != nil {
		t.Errorf("default inputs invalid: %v", err)
	}
	if in.CapitalHKD != cfg.Defaults.CapitalHKD || in.FutuReturnHKD != cfg.Defaults.FutuReturnHKDPct {
		t.Errorf("Inputs mapping mismatch: %+v", in)
	}
}
