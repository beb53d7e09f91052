package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pascalfe/pascalfe/internal/diag"
	"github.com/pascalfe/pascalfe/internal/token"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <source.pas>",
	Short: "List the raw token stream of a source file",
	Long: `Tokens runs only the lexer over a source file and prints each
token with its source position, without building a symbol table or
running the parser.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokens,
}

func runTokens(cmd *cobra.Command, args []string) error {
	srcPath := args[0]
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}

	diags := &diag.Collector{}
	lex := token.NewLexer(filepath.Base(srcPath), src, diags)

	count := 0
	for {
		t := lex.Next()
		fmt.Fprintf(output, "%-20s %4d:%-4d %s\n", t.Kind, t.Pos.Line, t.Pos.Column, t.String())
		count++
		if t.Kind == token.EOF {
			break
		}
	}

	for _, d := range diags.All() {
		fmt.Fprintln(output, d.Error())
	}

	fmt.Fprintf(output, "\nTotal: %d tokens, %d diagnostics\n", count, diags.Count())
	return nil
}
