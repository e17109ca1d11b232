// Package verify executes an assembled Wasm module under wazero, wiring up
// the "env" host module (linear memory and the syscall callback) the
// translator's output expects. It exists to sanity-check translator output
// against the guest's original behavior, not as a production execution
// engine.
package verify

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/rv2wasm/rv2wasm/internal/errs"
	"github.com/rv2wasm/rv2wasm/internal/logging"
)

// SyscallHandler services an ECALL/EBREAK escape raised by the dispatcher.
// membase is the linear-memory offset of the guest register file; pc is the
// faulting guest PC with its escape bit still set. It returns the PC to
// resume at.
type SyscallHandler func(mem api.Memory, membase uint32, pc uint32) uint32

// Options configures a Harness.
type Options struct {
	// MemoryPages sizes the host-owned linear memory the module imports.
	// Ignored for modules that define their own memory (AOT output).
	MemoryPages uint32
	Syscall     SyscallHandler
}

// Harness wraps a compiled, instantiated module ready to run guest code.
type Harness struct {
	runtime  wazero.Runtime
	module   api.Module
	runFn    api.Function
}

// New compiles and instantiates wasmBytes, wiring the supplied syscall
// handler (or a no-op one that halts immediately, if nil) as env.syscall.
func New(ctx context.Context, wasmBytes []byte, opts Options) (*Harness, error) {
	runtime := wazero.NewRuntime(ctx)

	handler := opts.Syscall
	if handler == nil {
		handler = func(_ api.Memory, _, _ uint32) uint32 { return 0xFFFFFFFF }
	}

	envBuilder := runtime.NewHostModuleBuilder("env")
	envBuilder.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, membase, pc uint32) uint32 {
			return handler(mod.Memory(), membase, pc)
		}).
		Export("syscall")

	if opts.MemoryPages > 0 {
		envBuilder.ExportMemory("memory", opts.MemoryPages)
	}

	if _, err := envBuilder.Instantiate(ctx); err != nil {
		runtime.Close(ctx)
		return nil, errs.New(errs.PhaseVerify, errs.KindInvalidData).
			Detail("instantiate env host module").
			Cause(err).
			Build()
	}

	compiled, err := runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		runtime.Close(ctx)
		return nil, errs.New(errs.PhaseVerify, errs.KindInvalidData).
			Detail("compile assembled module").
			Cause(err).
			Build()
	}

	modCfg := wazero.NewModuleConfig().WithName("guest")
	mod, err := runtime.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		runtime.Close(ctx)
		return nil, errs.New(errs.PhaseVerify, errs.KindInvalidData).
			Detail("instantiate assembled module").
			Cause(err).
			Build()
	}

	runFn := mod.ExportedFunction("run")
	if runFn == nil {
		runtime.Close(ctx)
		return nil, errs.New(errs.PhaseVerify, errs.KindNotFound).
			Detail("assembled module exports no \"run\" function").
			Build()
	}

	return &Harness{runtime: runtime, module: mod, runFn: runFn}, nil
}

// Run invokes run(membase, entry) and returns the final PC (a halt
// sentinel, 0xFFFFFFFF, on normal termination).
func (h *Harness) Run(ctx context.Context, membase, entry uint32) (uint32, error) {
	results, err := h.runFn.Call(ctx, uint64(membase), uint64(entry))
	if err != nil {
		return 0, errs.New(errs.PhaseVerify, errs.KindInvalidData).
			Detail("run trap").
			Cause(err).
			Build()
	}
	if len(results) != 1 {
		return 0, fmt.Errorf("verify: run returned %d results, want 1", len(results))
	}
	return uint32(results[0]), nil
}

// Memory returns the guest module's linear memory for register/address
// inspection after a Run.
func (h *Harness) Memory() api.Memory { return h.module.Memory() }

// Close releases the wazero runtime.
func (h *Harness) Close(ctx context.Context) error {
	logging.L().Sugar().Debug("closing verify harness")
	return h.runtime.Close(ctx)
}
