package dynlib

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docketworks/platform/errors"
	"github.com/docketworks/platform/resource"
)

// addModule is the smallest useful library: one exported function "add"
// taking two i32 words and returning their sum.
var addModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00, // magic, version
	0x01, 0x07, 0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f, // type (i32, i32) -> i32
	0x03, 0x02, 0x01, 0x00, // one function of type 0
	0x07, 0x07, 0x01, 0x03, 0x61, 0x64, 0x64, 0x00, 0x00, // export "add"
	0x0a, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b, // local.get 0, local.get 1, i32.add
}

func writeAddModule(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "add.wasm")
	if err := os.WriteFile(path, addModule, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadCallUnload(t *testing.T) {
	ctx := context.Background()

	lib, err := Load(ctx, writeAddModule(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if lib.Name() != "add.wasm" {
		t.Errorf("Name = %q, want add.wasm", lib.Name())
	}

	sym, err := lib.Symbol("add")
	if err != nil {
		t.Fatalf("Symbol: %v", err)
	}
	if sym.Name() != "add" {
		t.Errorf("symbol Name = %q", sym.Name())
	}

	results, err := sym.Call(ctx, 40, 2)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(results) != 1 || results[0] != 42 {
		t.Fatalf("add(40, 2) = %v, want [42]", results)
	}

	if err := lib.Unload(ctx); err != nil {
		t.Fatalf("Unload: %v", err)
	}

	if err := lib.Unload(ctx); err == nil || !strings.Contains(err.Error(), "after close") {
		t.Errorf("second Unload = %v, want the closed error", err)
	}
	if _, err := lib.Symbol("add"); err == nil || !strings.Contains(err.Error(), "after close") {
		t.Errorf("Symbol after unload = %v, want the closed error", err)
	}
	if _, err := sym.Call(ctx, 1, 2); err == nil || !strings.Contains(err.Error(), "after close") {
		t.Errorf("Call after unload = %v, want the closed error", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.wasm"))
	if errors.CodeOf(err) != errors.CodeNotFound {
		t.Fatalf("expected not_found for a missing file, got %v", err)
	}
}

func TestLoadInvalidModule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wasm")
	if err := os.WriteFile(path, []byte("not a module"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Load(context.Background(), path)
	if errors.CodeOf(err) != errors.CodeNotFound {
		t.Fatalf("a corrupt module should also report not_found, got %v", err)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	if _, err := Load(context.Background(), ""); errors.CodeOf(err) != errors.CodeInvalidArgument {
		t.Fatalf("expected invalid_argument, got %v", err)
	}
}

func TestSymbolNotFound(t *testing.T) {
	ctx := context.Background()
	lib, err := Load(ctx, writeAddModule(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer lib.Unload(ctx)

	if _, err := lib.Symbol("multiply"); errors.CodeOf(err) != errors.CodeNotFound {
		t.Fatalf("unexported symbol: expected not_found, got %v", err)
	}
	if _, err := lib.Symbol(""); errors.CodeOf(err) != errors.CodeInvalidArgument {
		t.Fatalf("empty symbol name: %v", err)
	}
}

func TestSymbols(t *testing.T) {
	ctx := context.Background()
	lib, err := Load(ctx, writeAddModule(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer lib.Unload(ctx)

	names := lib.Symbols()
	if len(names) != 1 || names[0] != "add" {
		t.Fatalf("Symbols = %v, want [add]", names)
	}
}

func TestCallArgumentMismatch(t *testing.T) {
	ctx := context.Background()
	lib, err := Load(ctx, writeAddModule(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer lib.Unload(ctx)

	sym, err := lib.Symbol("add")
	if err != nil {
		t.Fatalf("Symbol: %v", err)
	}
	if _, err := sym.Call(ctx, 1); errors.CodeOf(err) != errors.CodeInvalidArgument {
		t.Fatalf("one argument for a two-argument symbol: %v", err)
	}
}

func TestIsolatedEngines(t *testing.T) {
	ctx := context.Background()
	path := writeAddModule(t)

	a, err := Load(ctx, path)
	if err != nil {
		t.Fatalf("Load a: %v", err)
	}
	b, err := Load(ctx, path)
	if err != nil {
		t.Fatalf("Load b: %v", err)
	}
	defer b.Unload(ctx)

	if err := a.Unload(ctx); err != nil {
		t.Fatalf("Unload a: %v", err)
	}

	// Unloading one library must not disturb the other.
	sym, err := b.Symbol("add")
	if err != nil {
		t.Fatalf("Symbol: %v", err)
	}
	results, err := sym.Call(ctx, 20, 22)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if results[0] != 42 {
		t.Fatalf("add(20, 22) = %v", results)
	}
}

func TestLibraryTracked(t *testing.T) {
	ctx := context.Background()
	before := resource.Default().LiveByKind()[resource.KindLibrary]

	lib, err := Load(ctx, writeAddModule(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := resource.Default().LiveByKind()[resource.KindLibrary]; got != before+1 {
		t.Fatalf("live libraries = %d, want %d", got, before+1)
	}

	if err := lib.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := resource.Default().LiveByKind()[resource.KindLibrary]; got != before {
		t.Fatalf("live libraries after close = %d, want %d", got, before)
	}
}
