package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pascalfe/pascalfe/compiler"
	"github.com/spf13/cobra"
)

var compileOut string

var compileCmd = &cobra.Command{
	Use:   "compile <source.pas>",
	Short: "Compile a Pascal program or unit to a p-code object file",
	Long: `Compile runs the full front end over a source file: lexing,
parsing, symbol/type resolution, and p-code emission. Every
diagnostic collected along the way is printed; an object file is
still written even when diagnostics were reported, so a caller can
inspect whatever code the front end managed to produce.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringVarP(&compileOut, "out", "O", "", "object file path (default: source name with .pco extension)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	srcPath := args[0]

	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer src.Close()

	mod, diags, err := compiler.Compile(src, filepath.Base(srcPath))
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}

	for _, d := range diags {
		fmt.Fprintln(output, d.Error())
	}

	outPath := compileOut
	if outPath == "" {
		outPath = strings.TrimSuffix(srcPath, filepath.Ext(srcPath)) + ".pco"
	}
	if err := os.WriteFile(outPath, mod.Encode(), 0o644); err != nil {
		return fmt.Errorf("failed to write object file: %w", err)
	}

	fmt.Fprintf(output, "wrote %s (%d instructions, %d diagnostics)\n", outPath, len(mod.Code), len(diags))
	return nil
}
