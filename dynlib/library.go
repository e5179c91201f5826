package dynlib

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/docketworks/platform/errors"
	"github.com/docketworks/platform/resource"
)

// Library is one loaded module running on its own isolated engine.
type Library struct {
	mu      sync.Mutex
	name    string
	runtime wazero.Runtime
	module  api.Module
	handle  resource.Handle
	closed  bool
}

// Symbol is an exported function resolved from a Library. It stays
// valid until the owning library is unloaded.
type Symbol struct {
	lib  *Library
	name string
	fn   api.Function
}

// Load reads a WebAssembly module from path and instantiates it as a
// dynamic library. Every load failure reports not_found: like dlopen,
// the caller learns the library is unusable, not which decode stage
// rejected it. The cause chain keeps the underlying error for logs.
func Load(ctx context.Context, path string) (*Library, error) {
	const op = "dynlib.load"

	if path == "" {
		return nil, errors.Invalid(op, "path must not be empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, loadFailure(op, path, err)
	}

	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig())

	compiled, err := rt.CompileModule(ctx, raw)
	if err != nil {
		rt.Close(ctx)
		return nil, loadFailure(op, path, err)
	}

	name := filepath.Base(path)
	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		rt.Close(ctx)
		return nil, loadFailure(op, path, err)
	}

	lib := &Library{
		name:    name,
		runtime: rt,
		module:  mod,
		handle:  resource.Default().Register(resource.KindLibrary, path),
	}
	Logger().Debug("library loaded",
		zap.String("path", path),
		zap.Int("exports", len(lib.exportNames())))
	return lib, nil
}

func loadFailure(op, path string, cause error) error {
	return errors.New(errors.CodeNotFound, op).
		Path(path).
		Cause(cause).
		Detail("library not loadable").
		Build()
}

// Name reports the file name the library was loaded from.
func (l *Library) Name() string {
	return l.name
}

// Symbol resolves an exported function by name.
func (l *Library) Symbol(name string) (*Symbol, error) {
	const op = "dynlib.symbol"

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, errors.Closed(op, "library")
	}
	if name == "" {
		return nil, errors.Invalid(op, "symbol name must not be empty")
	}

	fn := l.module.ExportedFunction(name)
	if fn == nil {
		return nil, errors.New(errors.CodeNotFound, op).
			Detail("symbol %q not exported by %s", name, l.name).
			Build()
	}
	return &Symbol{lib: l, name: name, fn: fn}, nil
}

// Symbols lists the library's exported function names in sorted order.
func (l *Library) Symbols() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	names := l.exportNames()
	sort.Strings(names)
	return names
}

func (l *Library) exportNames() []string {
	defs := l.module.ExportedFunctionDefinitions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	return names
}

// Unload tears the engine down and releases the tracker entry. Symbols
// resolved from the library are invalidated with it.
func (l *Library) Unload(ctx context.Context) error {
	const op = "dynlib.unload"

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return errors.Closed(op, "library")
	}
	l.closed = true
	l.mu.Unlock()

	resource.Default().Release(l.handle)
	Logger().Debug("library unloaded", zap.String("name", l.name))

	if err := l.runtime.Close(ctx); err != nil {
		return errors.Wrap(errors.CodeError, op, err, "engine shutdown failed")
	}
	return nil
}

// Close releases the library with a background context, satisfying the
// platform Resource contract.
func (l *Library) Close() error {
	return l.Unload(context.Background())
}

// Name reports the symbol's export name.
func (s *Symbol) Name() string {
	return s.name
}

// Call invokes the symbol with the engine's raw word-sized calling
// convention: integer and pointer arguments travel as uint64 words,
// results come back the same way.
func (s *Symbol) Call(ctx context.Context, args ...uint64) ([]uint64, error) {
	const op = "dynlib.call"

	s.lib.mu.Lock()
	if s.lib.closed {
		s.lib.mu.Unlock()
		return nil, errors.Closed(op, "library")
	}
	s.lib.mu.Unlock()

	if want := len(s.fn.Definition().ParamTypes()); want != len(args) {
		return nil, errors.New(errors.CodeInvalidArgument, op).
			Detail("%s takes %d arguments, got %d", s.name, want, len(args)).
			Build()
	}

	results, err := s.fn.Call(ctx, args...)
	if err != nil {
		return nil, errors.New(errors.CodeError, op).
			Cause(err).
			Detail("%s trapped", s.name).
			Build()
	}
	return results, nil
}
