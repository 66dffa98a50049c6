package fallback

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kalbhor/reap/internal/ignore"
)

// ===== Section 1: end-to-end listing =====

func TestRunListsMatchesAndTotal(t *testing.T) {
	root := t.TempDir()
	mustMkdirWithFile(t, filepath.Join(root, "proj", "node_modules"), "a.js", 1024)
	mustMkdirWithFile(t, filepath.Join(root, "other", "node_modules"), "b.js", 2048)

	var buf bytes.Buffer
	emptyIgnore, err := ignore.Build("")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	err = Run(&buf, Options{
		Root:            root,
		Pattern:         "node_modules",
		Ignore:          emptyIgnore,
		DiscoverWorkers: 2,
		SizeWorkers:     2,
		Quiet:           true,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	out := buf.String()
	if strings.Count(out, "node_modules") < 2 {
		t.Errorf("expected both matches listed, got:\n%s", out)
	}
	if !strings.Contains(out, "2 matches") {
		t.Errorf("expected a 2-match total line, got:\n%s", out)
	}
	if !strings.Contains(out, "KiB") {
		t.Errorf("expected a human-readable total, got:\n%s", out)
	}
}

func TestRunReportsDiscoveryError(t *testing.T) {
	var buf bytes.Buffer
	emptyIgnore, _ := ignore.Build("")

	err := Run(&buf, Options{
		Root:        filepath.Join(t.TempDir(), "does-not-exist"),
		Pattern:     "x",
		Ignore:      emptyIgnore,
		SizeWorkers: 1,
		Quiet:       true,
	})
	if err == nil {
		t.Fatalf("expected an error for a nonexistent root")
	}
	if !strings.Contains(buf.String(), "discovery error") {
		t.Errorf("expected discovery error banner in output, got:\n%s", buf.String())
	}
}

func mustMkdirWithFile(t *testing.T, dir, name string, size int) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), make([]byte, size), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}
