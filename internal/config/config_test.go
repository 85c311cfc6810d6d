package config

import (
	"testing"

	"github.com/arjunvg/devclean/internal/deleter"
	"github.com/arjunvg/devclean/internal/protection"
)

func TestParseProtectionLevel(t *testing.T) {
	tests := []struct {
		input       string
		expected    protection.ProtectionLevel
		expectError bool
	}{
		{"none", protection.None, false},
		{"warn", protection.Warn, false},
		{"block", protection.Block, false},
		{"paranoid", protection.Paranoid, false},
		{"invalid", protection.Block, true},
		{"", protection.Block, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProtectionLevel(tt.input)
			if tt.expectError {
				if err == nil {
					t.Errorf("ParseProtectionLevel(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseProtectionLevel(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseProtectionLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseDeleteMethod(t *testing.T) {
	tests := []struct {
		input       string
		expected    deleter.Method
		expectError bool
	}{
		{"trash", deleter.Trash, false},
		{"permanent", deleter.Permanent, false},
		{"dry-run", deleter.DryRun, false},
		{"invalid", deleter.DryRun, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDeleteMethod(tt.input)
			if tt.expectError {
				if err == nil {
					t.Errorf("ParseDeleteMethod(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseDeleteMethod(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseDeleteMethod(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg == nil {
		t.Fatal("NewDefaultConfig() returned nil")
	}
	if cfg.Protection != protection.Block {
		t.Errorf("expected default protection level Block, got %v", cfg.Protection)
	}
	if cfg.DeleteVia != deleter.Trash {
		t.Errorf("expected default delete method Trash, got %v", cfg.DeleteVia)
	}
	if !cfg.Interactive {
		t.Error("expected Interactive to default to true")
	}
	if cfg.Force {
		t.Error("expected Force to default to false")
	}
	if !cfg.UseCache {
		t.Error("expected UseCache to default to true")
	}
	if !cfg.Scan.MaxDepthEnabled || cfg.Scan.MaxDepth != 6 {
		t.Errorf("expected default scan depth of 6, got enabled=%v depth=%d", cfg.Scan.MaxDepthEnabled, cfg.Scan.MaxDepth)
	}
}

func TestConfig_Modification(t *testing.T) {
	cfg := NewDefaultConfig()

	cfg.Protection = protection.Paranoid
	cfg.DeleteVia = deleter.Permanent
	cfg.Force = true
	cfg.Interactive = false
	cfg.Verbose = true
	cfg.Scan.Roots = []string{"/tmp/a", "/tmp/b"}

	if cfg.Protection != protection.Paranoid {
		t.Error("Protection modification failed")
	}
	if cfg.DeleteVia != deleter.Permanent {
		t.Error("DeleteVia modification failed")
	}
	if !cfg.Force {
		t.Error("Force modification failed")
	}
	if cfg.Interactive {
		t.Error("Interactive modification failed")
	}
	if !cfg.Verbose {
		t.Error("Verbose modification failed")
	}
	if len(cfg.Scan.Roots) != 2 {
		t.Error("Scan.Roots modification failed")
	}
}
