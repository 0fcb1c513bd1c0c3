package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheetgrid.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Decode.Mode != "standard" {
		t.Errorf("Decode.Mode = %q, want %q", cfg.Decode.Mode, "standard")
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %q, want %q", cfg.Output.Format, "json")
	}
	if cfg.Decode.DelimiterRune() != 0 {
		t.Errorf("DelimiterRune() = %q, want 0", cfg.Decode.DelimiterRune())
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"
format = "json"

[decode]
mode = "verbose"
delimiter = "\t"
candidates = ["utf-8", "shift_jis"]
max_input_bytes = 1048576
date_pattern = "yyyy-MM-dd"

[output]
format = "csv"
pretty = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Decode.DelimiterRune() != '\t' {
		t.Errorf("DelimiterRune() = %q, want tab", cfg.Decode.DelimiterRune())
	}
	if !slices.Equal(cfg.Decode.Candidates, []string{"utf-8", "shift_jis"}) {
		t.Errorf("Candidates = %v", cfg.Decode.Candidates)
	}
	if cfg.Decode.MaxInputBytes != 1048576 || cfg.Decode.DatePattern != "yyyy-MM-dd" {
		t.Errorf("Decode = %+v", cfg.Decode)
	}
	if cfg.Output.Format != "csv" || !cfg.Output.Pretty {
		t.Errorf("Output = %+v", cfg.Output)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[output]\npretty = true\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "info" || cfg.Output.Format != "json" || !cfg.Output.Pretty {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvEncoding, "utf-16le")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "error" || cfg.Decode.Encoding != "utf-16le" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"bad level", "[log]\nlevel = \"loud\"\n", "validation"},
		{"bad output format", "[output]\nformat = \"xml\"\n", "validation"},
		{"long delimiter", "[decode]\ndelimiter = \";;\"\n", "validation"},
		{"negative limit", "[decode]\nmax_input_bytes = -1\n", "validation"},
		{"bad date pattern", "[decode]\ndate_pattern = \"'open\"\n", "validation"},
		{"unknown key", "[decode]\nsheet = \"x\"\n", "unknown keys"},
		{"syntax", "[log\n", "config load"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("error %q does not mention %q", err, tt.errText)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
