// Package config holds the structured configuration types the CLI
// collaborator populates from flags (or, in principle, a file or env -
// loading itself is the collaborator's job, not the core's: TOML/viper
// config loading is an explicit Non-goal of the core, spec.md §12). The
// types here are plain data; nothing in this package parses a file.
package config

import (
	"fmt"

	"github.com/arjunvg/devclean/internal/deleter"
	"github.com/arjunvg/devclean/internal/model"
	"github.com/arjunvg/devclean/internal/protection"
)

// ParseProtectionLevel converts a CLI flag value to a ProtectionLevel.
func ParseProtectionLevel(s string) (protection.ProtectionLevel, error) {
	switch s {
	case "none":
		return protection.None, nil
	case "warn":
		return protection.Warn, nil
	case "block":
		return protection.Block, nil
	case "paranoid":
		return protection.Paranoid, nil
	default:
		return protection.Block, fmt.Errorf("invalid protection level: %s (must be none, warn, block, or paranoid)", s)
	}
}

// ParseDeleteMethod converts a CLI flag value to a deleter.Method.
func ParseDeleteMethod(s string) (deleter.Method, error) {
	switch s {
	case "trash":
		return deleter.Trash, nil
	case "permanent":
		return deleter.Permanent, nil
	case "dry-run":
		return deleter.DryRun, nil
	default:
		return deleter.DryRun, fmt.Errorf("invalid delete method: %s (must be trash, permanent, or dry-run)", s)
	}
}

// Config is the CLI collaborator's runtime configuration: the union of
// what the scanner, protection gate and deletion executor each need,
// gathered in one place so cmd/devclean only has to wire one struct
// through its subcommands.
type Config struct {
	Scan        model.ScanConfig
	Protection  protection.ProtectionLevel
	DeleteVia   deleter.Method
	Force       bool
	Interactive bool
	Verbose     bool
	UseCache    bool
}

// NewDefaultConfig returns a Config with sensible defaults: Block
// protection, trash deletion, interactive confirmation on, cache reuse
// on.
func NewDefaultConfig() *Config {
	return &Config{
		Scan: model.ScanConfig{
			MaxDepth:        6,
			MaxDepthEnabled: true,
		},
		Protection:  protection.Block,
		DeleteVia:   deleter.Trash,
		Force:       false,
		Interactive: true,
		Verbose:     false,
		UseCache:    true,
	}
}
