// Package dynlib loads WebAssembly modules as portable dynamic libraries.
//
//   - Load reads and instantiates a module file; every load failure
//     surfaces as not_found, the one opaque answer a dlopen-style
//     loader gives
//   - Symbol resolves an exported function and Call invokes it with
//     the raw word-sized convention
//   - Symbols and Name describe a loaded module for diagnostics
//   - Unload shuts the engine down; later use of the library or any
//     symbol resolved from it reports the closed error
//
// Each library owns an isolated engine, so loaded modules cannot
// observe one another and unloading one never disturbs the rest.
package dynlib
