package filesystem

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/docketworks/platform/errors"
)

func TestOpenDir_Missing(t *testing.T) {
	_, err := OpenDir(filepath.Join(t.TempDir(), "absent"))
	if errors.CodeOf(err) != errors.CodeNotFound {
		t.Fatalf("expected not_found for missing directory, got %v", err)
	}
}

func TestOpenDir_NotADirectory(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "file.txt")
	if err := os.WriteFile(testFile, []byte("x"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	_, err := OpenDir(testFile)
	if errors.CodeOf(err) != errors.CodeNotFound {
		t.Fatalf("expected not_found for non-directory, got %v", err)
	}
}

func TestDir_EmptyDirectory(t *testing.T) {
	d, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	defer d.Close()

	if d.Next() {
		t.Fatalf("empty directory yielded entry %q", d.Entry().Name)
	}
	if d.Err() != nil {
		t.Fatalf("clean exhaustion should leave Err nil, got %v", d.Err())
	}

	// Further calls stay settled.
	if d.Next() {
		t.Fatal("Next after exhaustion returned true")
	}
	if d.Err() != nil {
		t.Fatalf("Err changed after repeated Next: %v", d.Err())
	}
}

func TestDir_SingleFile(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "only.txt"), []byte("abc"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	d, err := OpenDir(tempDir)
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	defer d.Close()

	if !d.Next() {
		t.Fatalf("expected one entry, got none (err %v)", d.Err())
	}
	e := d.Entry()
	if e.Name != "only.txt" {
		t.Errorf("entry name = %q, want only.txt", e.Name)
	}
	if e.IsDir {
		t.Error("file reported as directory")
	}
	if e.Size != 3 {
		t.Errorf("entry size = %d, want 3", e.Size)
	}
	if e.ModTime.IsZero() {
		t.Error("expected a modification time")
	}

	if d.Next() {
		t.Fatalf("unexpected second entry %q", d.Entry().Name)
	}
	if d.Err() != nil {
		t.Fatalf("clean exhaustion should leave Err nil, got %v", d.Err())
	}
}

func TestDir_MixedEntries(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "a.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, "b.txt"), []byte("xy"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.Mkdir(filepath.Join(tempDir, "sub"), 0755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	d, err := OpenDir(tempDir)
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	defer d.Close()

	byName := map[string]Entry{}
	var names []string
	for d.Next() {
		e := d.Entry()
		byName[e.Name] = e
		names = append(names, e.Name)
	}
	if d.Err() != nil {
		t.Fatalf("iteration failed: %v", d.Err())
	}

	sort.Strings(names)
	if len(names) != 3 || names[0] != "a.txt" || names[1] != "b.txt" || names[2] != "sub" {
		t.Fatalf("unexpected entries %v", names)
	}
	if !byName["sub"].IsDir {
		t.Error("sub not reported as directory")
	}
	if byName["b.txt"].Size != 2 {
		t.Errorf("b.txt size = %d, want 2", byName["b.txt"].Size)
	}
}

func TestDir_CloseSemantics(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "f.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	d, err := OpenDir(tempDir)
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}

	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := d.Close(); errors.CodeOf(err) != errors.CodeInvalidArgument {
		t.Errorf("second Close: expected invalid_argument, got %v", err)
	}

	if d.Next() {
		t.Fatal("Next succeeded on a closed cursor")
	}
	if d.Err() == nil {
		t.Fatal("Next on a closed cursor should surface an error via Err")
	}
}
