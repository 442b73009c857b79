// Package testutil provides test helpers for CLI tests.
package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// WriteFile creates a file with the given content in the specified directory,
// creating parent directories. name may use forward slashes.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// WriteRegistry writes a manifest named registry.json and its source files
// into a fresh temp dir and returns the manifest path. Source keys are
// manifest-relative paths such as "registry/ui/Table.tsx".
func WriteRegistry(t *testing.T, manifest string, sources map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range sources {
		WriteFile(t, root, rel, content)
	}
	return WriteFile(t, root, "registry.json", manifest)
}

// ClearEnv sets each variable to the empty string for the duration of the
// test, and points HOME at a temp dir so no user config is picked up.
func ClearEnv(t *testing.T, names ...string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, name := range names {
		t.Setenv(name, "")
	}
}

// SnapshotDir records every path under dir with its size and modification
// time. Two equal snapshots mean nothing under dir was written.
func SnapshotDir(t *testing.T, dir string) map[string]string {
	t.Helper()
	snap := map[string]string{}
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		snap[path] = info.ModTime().String() + "/" + info.Mode().String() + "/" + strconv.FormatInt(info.Size(), 10)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to walk %s: %v", dir, err)
	}
	return snap
}
