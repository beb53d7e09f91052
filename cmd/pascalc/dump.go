package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pascalfe/pascalfe/internal/pcode"
	"github.com/spf13/cobra"
)

var dumpFormat string

var dumpCmd = &cobra.Command{
	Use:   "dump <object-file>",
	Short: "Dump a compiled p-code object file",
	Long: `Dump all information from a p-code object file in structured
format.

Supported formats:
  - text: Human-readable instruction listing (default)
  - json: JSON format`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "text", "output format (text, json)")
}

func runDump(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read object file: %w", err)
	}

	mod, err := pcode.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode object file: %w", err)
	}

	switch dumpFormat {
	case "json":
		return dumpJSON(mod)
	case "text":
		return dumpText(mod)
	default:
		return fmt.Errorf("unknown format: %s", dumpFormat)
	}
}

type ModuleDump struct {
	Name       string      `json:"name"`
	HasEntry   bool        `json:"has_entry"`
	EntryLabel int32       `json:"entry_label,omitempty"`
	Exports    []string    `json:"exports,omitempty"`
	Imports    []string    `json:"imports,omitempty"`
	RodataLen  int         `json:"rodata_len"`
	Code       []InstrDump `json:"code"`
}

type InstrDump struct {
	Op      string `json:"op"`
	Level   int32  `json:"level,omitempty"`
	Offset  int32  `json:"offset,omitempty"`
	Indexed bool   `json:"indexed,omitempty"`
	Class   string `json:"class,omitempty"`
	IData   int32  `json:"idata,omitempty"`
	Sub     string `json:"sub,omitempty"`
}

func dumpJSON(mod *pcode.Module) error {
	dump := ModuleDump{
		Name:       mod.Name,
		HasEntry:   mod.HasEntry,
		EntryLabel: mod.EntryLabel,
		Exports:    mod.Exports,
		Imports:    mod.Imports,
		RodataLen:  len(mod.Rodata),
	}
	for _, in := range mod.Code {
		dump.Code = append(dump.Code, InstrDump{
			Op:      in.Op.String(),
			Level:   in.Level,
			Offset:  in.Offset,
			Indexed: in.Indexed,
			Class:   in.Class.String(),
			IData:   in.IData,
			Sub:     in.Sub,
		})
	}

	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(dump)
}

func dumpText(mod *pcode.Module) error {
	fmt.Fprintf(output, "Module: %s\n", mod.Name)
	fmt.Fprintf(output, "HasEntry: %v (label %d)\n", mod.HasEntry, mod.EntryLabel)
	fmt.Fprintf(output, "Rodata: %d bytes\n", len(mod.Rodata))
	if len(mod.Exports) > 0 {
		fmt.Fprintf(output, "Exports: %v\n", mod.Exports)
	}
	if len(mod.Imports) > 0 {
		fmt.Fprintf(output, "Imports: %v\n", mod.Imports)
	}
	fmt.Fprintln(output, "Code:")
	for i, in := range mod.Code {
		fmt.Fprintf(output, "  %4d  %-8s level=%-3d offset=%-5d idata=%-5d class=%-6s sub=%s\n",
			i, in.Op.String(), in.Level, in.Offset, in.IData, in.Class.String(), in.Sub)
	}
	return nil
}
