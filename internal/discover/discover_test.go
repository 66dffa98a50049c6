package discover

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/kalbhor/reap/internal/ignore"
	"github.com/kalbhor/reap/internal/model"
)

// ===== Section 1: helpers =====

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
}

func collect(out chan model.DiscoveryMsg) (found []string, terminal model.DiscoveryMsg) {
	for msg := range out {
		switch msg.Kind {
		case model.DiscoveryFound:
			found = append(found, msg.Path)
		default:
			terminal = msg
			return
		}
	}
	return
}

// ===== Section 2: E1 discovery basic =====

func TestStreamDiscoveryBasic(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "node_modules", "project1/node_modules", "other")

	emptySet, _ := ignore.Build("")
	out := make(chan model.DiscoveryMsg, 32)
	go func() {
		Stream(root, "node_modules", emptySet, 4, out)
		close(out)
	}()

	found, terminal := collect(out)
	sort.Strings(found)

	want := []string{
		filepath.Join(root, "node_modules"),
		filepath.Join(root, "project1", "node_modules"),
	}
	sort.Strings(want)

	if len(found) != len(want) {
		t.Fatalf("got %d matches, want %d: %v", len(found), len(want), found)
	}
	for i := range want {
		if found[i] != want[i] {
			t.Errorf("match %d: got %s want %s", i, found[i], want[i])
		}
	}
	if terminal.Kind != model.DiscoveryComplete {
		t.Errorf("expected terminal Complete, got kind %v err %v", terminal.Kind, terminal.Error)
	}
}

// ===== Section 3: E2 nested suppression =====

func TestStreamNestedSuppression(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "node_modules/node_modules/node_modules")

	emptySet, _ := ignore.Build("")
	out := make(chan model.DiscoveryMsg, 32)
	go func() {
		Stream(root, "node_modules", emptySet, 4, out)
		close(out)
	}()

	found, terminal := collect(out)
	if len(found) != 1 {
		t.Fatalf("expected exactly 1 match, got %d: %v", len(found), found)
	}
	if found[0] != filepath.Join(root, "node_modules") {
		t.Errorf("unexpected match: %s", found[0])
	}
	if terminal.Kind != model.DiscoveryComplete {
		t.Errorf("expected terminal Complete, got %v", terminal)
	}
}

// ===== Section 4: E3 ignore with regex =====

func TestStreamIgnoreWithRegex(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "cache", "temp_dir", "other")

	set, err := ignore.Build(`.*cache$,^temp.*`)
	if err != nil {
		t.Fatalf("build ignore set: %v", err)
	}

	out := make(chan model.DiscoveryMsg, 32)
	go func() {
		Stream(root, "other", set, 4, out)
		close(out)
	}()

	found, terminal := collect(out)
	if len(found) != 1 || found[0] != filepath.Join(root, "other") {
		t.Fatalf("unexpected matches: %v", found)
	}
	if terminal.Kind != model.DiscoveryComplete {
		t.Errorf("expected terminal Complete, got %v", terminal)
	}
}

// ===== Section 5: error paths =====

func TestStreamRootInvalid(t *testing.T) {
	out := make(chan model.DiscoveryMsg, 4)
	emptySet, _ := ignore.Build("")
	go func() {
		Stream(filepath.Join(t.TempDir(), "does-not-exist"), "x", emptySet, 4, out)
		close(out)
	}()

	_, terminal := collect(out)
	if terminal.Kind != model.DiscoveryError {
		t.Fatalf("expected DiscoveryError, got %v", terminal.Kind)
	}
}

func TestStreamPatternEmpty(t *testing.T) {
	root := t.TempDir()
	out := make(chan model.DiscoveryMsg, 4)
	emptySet, _ := ignore.Build("")
	go func() {
		Stream(root, "", emptySet, 4, out)
		close(out)
	}()

	_, terminal := collect(out)
	if terminal.Kind != model.DiscoveryError {
		t.Fatalf("expected DiscoveryError, got %v", terminal.Kind)
	}
}

func TestStreamSkipsUnreadableSubtree(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "locked", "node_modules")
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	defer func() { _ = os.Chmod(locked, 0o755) }()

	emptySet, _ := ignore.Build("")
	out := make(chan model.DiscoveryMsg, 32)
	go func() {
		Stream(root, "node_modules", emptySet, 4, out)
		close(out)
	}()

	found, terminal := collect(out)
	if len(found) != 1 {
		t.Fatalf("expected the one readable match, got %v", found)
	}
	if terminal.Kind != model.DiscoveryComplete {
		t.Errorf("a subtree permission error must not surface as a terminal Error, got %v", terminal)
	}
}
