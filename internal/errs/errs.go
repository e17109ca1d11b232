// Package errs provides the structured error type used across the
// translator: errors are categorized by Phase (where in the pipeline they
// occurred) and Kind (what went wrong), with an optional wrapped cause.
//
// Use the Builder for construction:
//
//	err := errs.New(errs.PhaseDecode, errs.KindInvalidData).
//		Detail("unknown opcode 0x%x at pc 0x%x", word, pc).
//		Build()
package errs

import (
	"fmt"
	"strings"
)

// Phase indicates which pipeline stage raised the error.
type Phase string

const (
	PhaseDecode      Phase = "decode"      // instruction decoding
	PhaseReconstruct Phase = "reconstruct" // control-flow graph construction
	PhaseLower       Phase = "lower"       // IR lowering
	PhaseAssemble    Phase = "assemble"    // Wasm binary encoding
	PhaseELF         Phase = "elf"         // ELF parsing
	PhaseVerify      Phase = "verify"      // wazero execution harness
	PhaseCLI         Phase = "cli"         // command-line / config handling
)

// Kind categorizes the error within its Phase.
type Kind string

const (
	KindInputRejected Kind = "input_rejected" // well-formed but unsupported input
	KindEmptyRegion   Kind = "empty_region"   // no instructions/segments to process
	KindInvalidData   Kind = "invalid_data"   // malformed bytes
	KindIO            Kind = "io"             // filesystem/stream failure
	KindUnsupported   Kind = "unsupported"    // recognized but unimplemented feature
	KindNotFound      Kind = "not_found"
)

// Error is the structured error type returned throughout the translator.
type Error struct {
	Phase  Phase
	Kind   Kind
	Detail string
	Cause  error
	PC     uint64 // guest address the error concerns, when applicable
	hasPC  bool
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))
	if e.hasPC {
		fmt.Fprintf(&b, " at pc 0x%x", e.PC)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder constructs an Error.
type Builder struct {
	err Error
}

// New starts a Builder for the given Phase and Kind.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{err: Error{Phase: phase, Kind: kind}}
}

// Detail sets the human-readable message, optionally formatted.
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// PC annotates the error with the guest address it concerns.
func (b *Builder) PC(pc uint64) *Builder {
	b.err.PC = pc
	b.err.hasPC = true
	return b
}

// Cause sets the wrapped underlying error.
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Build returns the constructed error.
func (b *Builder) Build() *Error {
	return &b.err
}
