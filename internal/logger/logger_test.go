package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dbsmedya/goslim/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string // String representation of zapcore.Level
	}{
		{"debug", "debug"},
		{"info", "info"},
		{"", "info"}, // empty defaults to info
		{"warn", "warn"},
		{"error", "error"},
		{"unknown", "info"}, // unknown defaults to info
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level := parseLevel(tt.input)
			if level.String() != tt.expected {
				t.Errorf("parseLevel(%q) = %v, expected %v", tt.input, level.String(), tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.LoggingConfig
	}{
		{
			name: "json format info level",
			cfg:  &config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
		},
		{
			name: "text format debug level",
			cfg:  &config.LoggingConfig{Level: "debug", Format: "text", Output: "stdout"},
		},
		{
			name: "stderr output",
			cfg:  &config.LoggingConfig{Level: "error", Format: "json", Output: "stderr"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New() returned error: %v", err)
			}
			if log == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goslim.log")

	log, err := New(&config.LoggingConfig{Level: "info", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	log.Infow("pipeline started", "files", 2)
	_ = log.Sync()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected log file to be created: %v", err)
	}
}

func TestNew_UnopenableFileOutput(t *testing.T) {
	// Parent directory does not exist, so the log file cannot be opened
	path := filepath.Join(t.TempDir(), "missing", "goslim.log")

	_, err := New(&config.LoggingConfig{Level: "info", Format: "json", Output: path})
	if err == nil {
		t.Fatal("expected error for unopenable log file")
	}
}

func TestNewDefault(t *testing.T) {
	log := NewDefault()
	if log == nil {
		t.Fatal("NewDefault() returned nil")
	}
}

func TestContextMethods(t *testing.T) {
	log := NewDefault()

	if l := log.WithItem("shop"); l == nil {
		t.Error("WithItem returned nil")
	}
	if l := log.WithPhase("import"); l == nil {
		t.Error("WithPhase returned nil")
	}
	if l := log.WithDatabase("shop_temp"); l == nil {
		t.Error("WithDatabase returned nil")
	}
	if l := log.WithFields(map[string]interface{}{"a": 1, "b": "x"}); l == nil {
		t.Error("WithFields returned nil")
	}
}
