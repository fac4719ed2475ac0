package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "valid csv config",
			config:  Config{Backend: "csv", DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "valid sqlite config",
			config:  Config{Backend: "sqlite", DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "csv with empty DataDir is valid at config level",
			config:  Config{Backend: "csv", DataDir: ""},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigFileNames(t *testing.T) {
	var c Config
	if got := c.EntriesName(); got != DefaultEntriesFile {
		t.Errorf("EntriesName() = %q, want %q", got, DefaultEntriesFile)
	}
	if got := c.ReferenceName(); got != DefaultReferenceFile {
		t.Errorf("ReferenceName() = %q, want %q", got, DefaultReferenceFile)
	}

	c = Config{EntriesFile: "shows.csv", ReferenceFile: "chars.json"}
	if got := c.EntriesName(); got != "shows.csv" {
		t.Errorf("EntriesName() = %q, want shows.csv", got)
	}
	if got := c.ReferenceName(); got != "chars.json" {
		t.Errorf("ReferenceName() = %q, want chars.json", got)
	}
}
