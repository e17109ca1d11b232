// Command rv2wasm translates a RISC-V (RV64GC) ELF executable into a
// standalone Wasm module.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rv2wasm/rv2wasm/internal/logging"
	"github.com/rv2wasm/rv2wasm/internal/rvconfig"
	"github.com/rv2wasm/rv2wasm/translator"
)

var (
	okStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#90EE90"))
	errStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
)

// disableStylesIfNotTTY drops to plain, uncolored rendering when stdout
// isn't a terminal, so piped or redirected output (CI logs, `| tee`) stays
// readable instead of carrying raw ANSI escapes.
func disableStylesIfNotTTY() {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}
	okStyle = okStyle.UnsetForeground().UnsetBold()
	errStyle = errStyle.UnsetForeground().UnsetBold()
	infoStyle = infoStyle.UnsetForeground()
}

func main() {
	disableStylesIfNotTTY()

	cfg, err := rvconfig.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		os.Exit(1)
	}

	var (
		output     string
		debug      bool
		optLevel   int
		verbose    bool
		rootfsPath string
		entryPath  string
	)

	root := &cobra.Command{
		Use:   "rv2wasm <input.elf>",
		Short: "Translate a RISC-V RV64GC ELF executable into a Wasm module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Configure(debug)

			if rootfsPath != "" || entryPath != "" {
				return fmt.Errorf("container mode (--rootfs/--entry) is not yet implemented")
			}
			if optLevel < 0 || optLevel > 3 {
				return fmt.Errorf("-O must be between 0 and 3, got %d", optLevel)
			}

			inputPath := args[0]
			data, err := os.ReadFile(inputPath) // #nosec G304 -- user-supplied CLI input path
			if err != nil {
				return fmt.Errorf("read %s: %w", inputPath, err)
			}

			res, err := translator.TranslateELF(data)
			if err != nil {
				return err
			}

			outPath := output
			if outPath == "" {
				outPath = deriveOutputPath(inputPath)
			}
			if err := os.WriteFile(outPath, res.Wasm, 0o644); err != nil { //nolint:gosec // translator output, not secret
				return fmt.Errorf("write %s: %w", outPath, err)
			}

			if verbose {
				fmt.Println(infoStyle.Render(fmt.Sprintf(
					"%s -> %s (%d bytes, dispatch=%s)",
					inputPath, outPath, len(res.Wasm), res.Strategy,
				)))
			}
			fmt.Println(okStyle.Render("translation complete"))
			return nil
		},
	}

	root.Flags().StringVarP(&output, "output", "o", cfg.Output.Path, "output .wasm path (default: derived from input)")
	root.Flags().BoolVar(&debug, "debug", cfg.Output.Debug, "enable debug logging")
	root.Flags().IntVarP(&optLevel, "opt", "O", cfg.Output.OptLevel, "optimization level (0-3)")
	root.Flags().BoolVarP(&verbose, "verbose", "v", cfg.Output.Verbose, "print a translation summary")
	root.Flags().StringVar(&rootfsPath, "rootfs", cfg.Container.RootfsPath, "container rootfs tarball (reserved for future use)")
	root.Flags().StringVar(&entryPath, "entry", cfg.Container.EntryPath, "in-container entry path (reserved for future use)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func deriveOutputPath(inputPath string) string {
	base := inputPath
	if idx := strings.LastIndex(base, "."); idx > strings.LastIndexAny(base, "/\\") {
		base = base[:idx]
	}
	return base + ".wasm"
}
