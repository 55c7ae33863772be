//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Sample builds the CLI and generates a post offline with the echo provider,
// exercising all four stages without an API key.
func Sample() error {
	mg.Deps(Init, Build)
	bin := filepath.Join(binDir, binName)
	if err := sh.RunV(bin, "generate", "--provider", "echo", "--show-stages", "--raw", "Sustainable Living Tips"); err != nil {
		return fmt.Errorf("sample generation: %w", err)
	}
	return nil
}

// Serve builds the CLI and serves the HTTP API on :8080.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "serve")
}
