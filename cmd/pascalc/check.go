package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pascalfe/pascalfe/compiler"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <source.pas>",
	Short: "Parse and type-check a source file without emitting an object file",
	Long: `Check runs the full front end over a source file and reports
every diagnostic collected, exiting with a non-zero status if any
were found. Use this in a build pipeline to validate a source file
without producing or discarding an object file.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	srcPath := args[0]

	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer src.Close()

	_, diags, err := compiler.Compile(src, filepath.Base(srcPath))
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	for _, d := range diags {
		fmt.Fprintln(output, d.Error())
	}

	if len(diags) > 0 {
		return fmt.Errorf("%d diagnostic(s) found", len(diags))
	}

	fmt.Fprintln(output, "ok")
	return nil
}
