package sizecalc

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// ===== Section 1: helpers =====

func writeFile(t *testing.T, path string, n int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, make([]byte, n), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// ===== Section 2: basic sum =====

func TestComputeOneSumsRegularFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.bin"), 100)
	writeFile(t, filepath.Join(root, "sub", "b.bin"), 200)

	msg := computeOne(root)
	if msg.Err != nil {
		t.Fatalf("unexpected error: %v", msg.Err)
	}
	if msg.Size != 300 {
		t.Errorf("got size %d, want 300", msg.Size)
	}
}

func TestComputeOneUnreadableSubtreeYieldsPartial(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.bin"), 100)
	locked := filepath.Join(root, "locked")
	if err := os.MkdirAll(locked, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(locked, "b.bin"), 9999)
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	defer func() { _ = os.Chmod(locked, 0o755) }()

	msg := computeOne(root)
	if msg.Err != nil {
		t.Fatalf("unreadable subtree must not fail the whole computation: %v", msg.Err)
	}
	if msg.Size != 100 {
		t.Errorf("got size %d, want partial total 100", msg.Size)
	}
}

// ===== Section 3: pool wiring =====

func TestPoolSubmitAndDrain(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.bin"), 1024)

	p := New(2)
	p.Submit(root)
	p.Close()

	select {
	case msg := <-p.Results():
		if msg.Path != root || msg.Size != 1024 {
			t.Errorf("unexpected result: %+v", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result")
	}

	if _, ok := <-p.Results(); ok {
		t.Errorf("expected Results channel to close after one job")
	}
}

// ===== Section 4: parent mtime =====

func TestParentModTime(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "node_modules")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	mt, ok := ParentModTime(child)
	if !ok {
		t.Fatalf("expected parent mtime to be readable")
	}
	parentInfo, err := os.Stat(root)
	if err != nil {
		t.Fatalf("stat parent: %v", err)
	}
	if !mt.Equal(parentInfo.ModTime()) {
		t.Errorf("got %v, want parent mtime %v", mt, parentInfo.ModTime())
	}
}
