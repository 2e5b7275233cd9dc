// Package resolver turns the command-line input into something a host can load.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Kind is the type of input.
type Kind int

const (
	// Manifest is a YAML or JSON type-model file.
	Manifest Kind = iota + 1
	// GoModule is a directory inside a Go module.
	GoModule
)

func (k Kind) String() string {
	switch k {
	case Manifest:
		return "manifest"
	case GoModule:
		return "go-module"
	default:
		return "unknown"
	}
}

// Input is a resolved input.
type Input struct {
	Kind Kind
	// Path is the manifest file, or the Go module root.
	Path string
	// Dir is the directory the user named (the module root or below it).
	Dir string
}

// Resolve classifies input as a manifest file or a Go module directory.
func Resolve(ctx context.Context, input string, logger *slog.Logger) (Input, error) {
	if err := ctx.Err(); err != nil {
		return Input{}, err
	}

	absPath, err := filepath.Abs(input)
	if err != nil {
		return Input{}, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return Input{}, fmt.Errorf("stat %s: %w", absPath, err)
	}

	if !info.IsDir() {
		if !isManifest(absPath) {
			return Input{}, fmt.Errorf("%s is neither a directory nor a .yaml/.yml/.json manifest", absPath)
		}
		logger.Info("resolved manifest", "input", input, "manifest", absPath)
		return Input{Kind: Manifest, Path: absPath, Dir: filepath.Dir(absPath)}, nil
	}

	modRoot, err := findModuleRoot(absPath)
	if err != nil {
		return Input{}, err
	}
	logger.Info("resolved local directory", "input", input, "module_root", modRoot)
	return Input{Kind: GoModule, Path: modRoot, Dir: absPath}, nil
}

func isManifest(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

func findModuleRoot(dir string) (string, error) {
	current := dir
	for {
		goMod := filepath.Join(current, "go.mod")
		if _, err := os.Stat(goMod); err == nil {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no go.mod found in %s or any parent directory", dir)
		}
		current = parent
	}
}
