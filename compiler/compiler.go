// Package compiler is the single entry point into the front end: read
// source, run the fused parser/symbol-table/type/emitter pipeline to
// completion, and hand back the finished object-file module alongside
// every diagnostic collected along the way. One small surface hides
// the internal/ collaborators from callers.
package compiler

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/pascalfe/pascalfe/internal/diag"
	"github.com/pascalfe/pascalfe/internal/parser"
	"github.com/pascalfe/pascalfe/internal/pcode"
)

// Compile reads a complete Pascal compilation unit from r and runs it
// through the front end, returning the p-code module built so far (even
// when diagnostics were reported — a caller inspecting diagnostics
// still gets whatever code the front end managed to emit) along with
// every diagnostic collected. The returned error is non-nil only for
// an I/O failure reading src; parse and semantic errors are reported
// through the diagnostic slice instead, so a caller can keep compiling
// and report every error found in one pass rather than stopping at
// the first one.
func Compile(src io.Reader, name string) (*pcode.Module, []diag.Diagnostic, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, src); err != nil {
		return nil, nil, fmt.Errorf("compiler: failed to read source: %w", err)
	}

	p := parser.New(name, buf.Bytes())

	var mod *pcode.Module
	if looksLikeUnit(buf.Bytes()) {
		mod = p.ParseUnit()
	} else {
		mod = p.ParseProgram()
	}

	return mod, p.Diags.All(), nil
}

// looksLikeUnit peeks at the leading keyword to pick ParseUnit vs
// ParseProgram: a unit always opens with `unit`, while a program either
// opens with `program` or may omit the heading entirely and start
// directly with declarations or `begin`. A leading `unit` is therefore
// the only unambiguous signal.
func looksLikeUnit(src []byte) bool {
	trimmed := strings.TrimLeftFunc(string(src), unicode.IsSpace)
	return strings.HasPrefix(strings.ToLower(trimmed), "unit")
}
