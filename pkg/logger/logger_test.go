package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevelFiltering(t *testing.T) {
	originalLogger := Logger
	t.Cleanup(func() {
		Logger = originalLogger
		SetLogLevel(INFO)
	})

	var buf bytes.Buffer
	Logger = slog.New(slog.NewTextHandler(&buf, nil))

	SetLogLevel(INFO)
	Debug("debug message should be filtered")
	Info("info message should appear")
	Warn("warn message should appear")

	output := buf.String()
	if strings.Contains(output, "debug message should be filtered") {
		t.Fatalf("debug message was logged at INFO level:\n%s", output)
	}
	if !strings.Contains(output, "info message should appear") {
		t.Fatalf("info message was not logged:\n%s", output)
	}
	if !strings.Contains(output, "warn message should appear") {
		t.Fatalf("warn message was not logged:\n%s", output)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DEBUG, false},
		{" INFO ", INFO, false},
		{"warning", WARN, false},
		{"error", ERROR, false},
		{"loud", INFO, true},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLogLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestConfigureWritesToFile(t *testing.T) {
	originalLogger := Logger
	t.Cleanup(func() {
		Logger = originalLogger
		SetLogLevel(INFO)
	})

	path := filepath.Join(t.TempDir(), "logs", "impostor.log")
	var out bytes.Buffer
	if err := Configure(Options{Level: "error", File: path, Output: &out}); err != nil {
		t.Fatalf("Configure returned error: %v", err)
	}

	Info("filtered")
	Error("kept")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if strings.Contains(string(data), "filtered") || !strings.Contains(string(data), "kept") {
		t.Fatalf("unexpected log file contents: %s", data)
	}
	if !strings.Contains(out.String(), "kept") {
		t.Fatalf("expected primary output to receive the message, got %s", out.String())
	}
}
