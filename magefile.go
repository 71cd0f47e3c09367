//go:build mage

package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default runs the full verification pipeline.
var Default = All

// All formats, vets, tests, and builds the pr-agent binary.
func All() {
	mg.SerialDeps(Format, Vet, Test, Build)
}

// Format rewrites sources with gofmt.
func Format() error {
	return sh.RunV("go", "fmt", "./...")
}

// Vet runs static analysis.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Test runs all package tests. The local provider tests build throwaway git
// repositories, so a git binary must be on PATH.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Build compiles the pr-agent binary with the release version linked in.
func Build() error {
	ldflags := fmt.Sprintf("-X github.com/patryk-kowalski-ds/pr-agent/internal/version.version=%s", buildVersion())
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", "pr-agent", "./cmd/pr-agent")
}

// buildVersion derives the version from the nearest tag. Untagged or locally
// modified checkouts get a -dirty suffix so stray binaries are identifiable.
func buildVersion() string {
	const fallback = "v0.0.0"

	tag, err := sh.Output("git", "describe", "--tags", "--abbrev=0")
	if err != nil {
		return fallback
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fallback
	}

	if worktreeDirty() || !headIsTagged() {
		return tag + "-dirty"
	}
	return tag
}

func worktreeDirty() bool {
	out, err := sh.Output("git", "status", "--porcelain")
	return err == nil && strings.TrimSpace(out) != ""
}

func headIsTagged() bool {
	err := sh.Run("git", "describe", "--tags", "--exact-match")
	return err == nil
}
