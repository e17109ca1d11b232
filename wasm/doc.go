// Package wasm provides a structural parser and validator for the
// WebAssembly binary format.
//
// This package parses WebAssembly modules according to the WebAssembly 2.0
// specification, with support for several post-2.0 proposals, down to
// section/index/limits structure, and validates that structure for
// consistency. It does not decode or re-encode instruction bytecode; it
// exists to sanity-check assembled module bytes, not to interpret or
// produce them.
//
// # Supported Features
//
//	WebAssembly 2.0:
//	  - Core value types (i32, i64, f32, f64)
//	  - Functions, tables, memories, globals
//	  - Control flow, calls, local/global access
//	  - Memory and table operations
//	  - Import/export of all definitions
//
//	Post-2.0 Proposals:
//	  - GC (structs, arrays, typed references, heap types)
//	  - Exception handling (tags, try/catch, throw)
//	  - Tail calls (return_call, return_call_indirect)
//	  - SIMD (128-bit vector operations, v128 type)
//	  - Threads (atomic operations, shared memory)
//	  - Bulk memory (memory.copy, memory.fill, data.drop)
//	  - Reference types (funcref, externref, ref.null, ref.is_null)
//	  - Multi-memory (multiple memory instances)
//	  - Memory64 (64-bit memory addressing)
//
// # Parsing
//
// Parse a WebAssembly module from binary:
//
//	data, _ := os.ReadFile("module.wasm")
//	module, err := wasm.ParseModule(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Parse with validation enabled:
//
//	module, err := wasm.ParseModuleValidate(data)
//
// # Module Structure
//
// A parsed module contains all sections:
//
//	module.Types      []FuncType    // Function signatures
//	module.Funcs      []uint32      // Type indices for functions
//	module.Tables     []TableType   // Table definitions
//	module.Memories   []MemoryType  // Memory definitions
//	module.Globals    []Global      // Global definitions
//	module.Imports    []Import      // Imported definitions
//	module.Exports    []Export      // Exported definitions
//	module.Code       []FuncBody    // Function bodies
//	module.Data       []DataSegment // Data segments
//	module.Elements   []Element     // Element segments
//
// Function bodies are parsed only down to their local declarations; the
// instruction bytes themselves are kept opaque (FuncBody.Code) rather than
// decoded, since this package is used as a structural validator over
// assembled bytes, not a full bytecode interpreter or re-encoder.
//
// # Validation
//
// Validate module structure:
//
//	if err := module.Validate(); err != nil {
//	    log.Printf("invalid module: %v", err)
//	}
//
// Validation checks:
//   - Type/function/table/memory/global/tag indices are in bounds
//   - Export names are unique
//   - Table and memory limits are valid
//   - Code section and function section entry counts match
//
// # LEB128 Encoding
//
// The package provides LEB128 utilities used throughout:
//
//	n, err := wasm.ReadLEB128u(r)  // Unsigned; r is an io.ByteReader
//	v, err := wasm.ReadLEB128s(r)  // Signed
package wasm
