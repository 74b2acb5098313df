// Tests for CLI flag wiring
package main

import "testing"

func TestFlattenConfigUsesItsOwnDepth(t *testing.T) {
	modeName = "flattened"
	strategyName = "path"
	maxDepth = 7     // normalize-side rejection cap
	flattenDepth = 2 // flatten-side truncation
	defer func() {
		modeName, strategyName = "", ""
		maxDepth, flattenDepth = 0, 0
	}()

	cfg, err := flattenConfig()
	if err != nil {
		t.Fatalf("Failed to build config: %v", err)
	}

	// Truncation depth must come from its own flag, not the normalize cap,
	// or any tree deep enough to truncate would be rejected before flattening
	if cfg.MaxDepth != 2 {
		t.Errorf("Expected flatten depth 2, got %d", cfg.MaxDepth)
	}
}

func TestFlattenConfigRejectsUnknownNames(t *testing.T) {
	modeName = "sideways"
	strategyName = "path"
	defer func() { modeName, strategyName = "", "" }()

	if _, err := flattenConfig(); err == nil {
		t.Error("Expected error for unknown mode")
	}

	modeName = "flattened"
	strategyName = "osmosis"
	if _, err := flattenConfig(); err == nil {
		t.Error("Expected error for unknown strategy")
	}
}
