package e2e

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// binaryName is the command built from the module root.
const binaryName = "bookgen"

// FindBinary returns a prebuilt binary: BOOKGEN_BINARY when set, otherwise
// bin/bookgen under the module root. It does not search PATH, so a stale
// install never shadows the tree under test.
func FindBinary() (string, error) {
	if binary := os.Getenv("BOOKGEN_BINARY"); binary != "" {
		if _, err := os.Stat(binary); err != nil {
			return "", fmt.Errorf("BOOKGEN_BINARY: %w", err)
		}
		return binary, nil
	}

	root, err := moduleRoot()
	if err != nil {
		return "", err
	}
	candidate := filepath.Join(root, "bin", binaryName)
	if _, err := os.Stat(candidate); err != nil {
		return "", fmt.Errorf("no prebuilt binary at %s: %w", candidate, err)
	}
	return candidate, nil
}

// BuildBinary compiles the module's main package into dir and returns the
// binary path. It fails when the go tool is not available.
func BuildBinary(dir string) (string, error) {
	goTool, err := exec.LookPath("go")
	if err != nil {
		return "", fmt.Errorf("go tool not found: %w", err)
	}
	root, err := moduleRoot()
	if err != nil {
		return "", err
	}

	out := filepath.Join(dir, binaryName)
	cmd := exec.Command(goTool, "build", "-o", out, ".")
	cmd.Dir = root
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("go build failed: %w\n%s", err, strings.TrimSpace(string(output)))
	}
	return out, nil
}

// moduleRoot walks up from the working directory to the directory holding go.mod.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found above the test directory")
		}
		dir = parent
	}
}
