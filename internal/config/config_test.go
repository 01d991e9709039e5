package config

import (
	"testing"

	"github.com/ironsheep/docscan-mcp/internal/imaging"
)

var allKeys = []string{
	"DOCSCAN_LOG_LEVEL",
	"DOCSCAN_LOG_FORMAT",
	"DOCSCAN_LOG_FILE",
	"DOCSCAN_DETECT_MAX_DIM",
	"DOCSCAN_INTERPOLATION",
	"DOCSCAN_OCR_LANGUAGE",
	"DOCSCAN_TESSDATA_PREFIX",
	"DOCSCAN_MAX_SESSIONS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("got %+v, want %+v", *cfg, *Default())
	}
	if cfg.InterpolationMode() != imaging.Bilinear {
		t.Errorf("interpolation: got %v, want bilinear", cfg.InterpolationMode())
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOCSCAN_LOG_LEVEL", "DEBUG")
	t.Setenv("DOCSCAN_LOG_FORMAT", "json")
	t.Setenv("DOCSCAN_LOG_FILE", "/tmp/docscan.log")
	t.Setenv("DOCSCAN_DETECT_MAX_DIM", " 0 ")
	t.Setenv("DOCSCAN_INTERPOLATION", "nearest")
	t.Setenv("DOCSCAN_OCR_LANGUAGE", "deu")
	t.Setenv("DOCSCAN_TESSDATA_PREFIX", "/usr/share/tessdata")
	t.Setenv("DOCSCAN_MAX_SESSIONS", "8")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	want := Config{
		LogLevel:       "debug",
		LogFormat:      "json",
		LogFile:        "/tmp/docscan.log",
		DetectMaxDim:   0,
		Interpolation:  "nearest",
		OCRLanguage:    "deu",
		TessdataPrefix: "/usr/share/tessdata",
		MaxSessions:    8,
	}
	if *cfg != want {
		t.Errorf("got %+v, want %+v", *cfg, want)
	}
	if cfg.InterpolationMode() != imaging.Nearest {
		t.Errorf("interpolation: got %v, want nearest", cfg.InterpolationMode())
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown level", "DOCSCAN_LOG_LEVEL", "verbose"},
		{"unknown format", "DOCSCAN_LOG_FORMAT", "xml"},
		{"non numeric max dim", "DOCSCAN_DETECT_MAX_DIM", "large"},
		{"negative max dim", "DOCSCAN_DETECT_MAX_DIM", "-1"},
		{"unknown interpolation", "DOCSCAN_INTERPOLATION", "cubic"},
		{"zero sessions", "DOCSCAN_MAX_SESSIONS", "0"},
		{"too many sessions", "DOCSCAN_MAX_SESSIONS", "100000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := LoadFromEnv(); err == nil {
				t.Errorf("%s=%q: expected error", tt.key, tt.value)
			}
		})
	}
}
