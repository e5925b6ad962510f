package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/symdex/symdex/internal/correlate"
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Formatter renders pipeline results. Text output is strictly
// line-oriented: data lines, blank lines and bracketed unit markers
// only, so consumers can filter separators without parsing.
type Formatter interface {
	FormatFunctions(res *correlate.Result, addrWidth int, markers bool) (string, error)
	FormatUnits(units []correlate.CompileUnit) (string, error)
}

// NewFormatter creates a formatter for the given format.
func NewFormatter(format OutputFormat) (Formatter, error) {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatText, "":
		return &TextFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// TextFormatter emits whitespace-separated data lines.
type TextFormatter struct{}

// FormatFunctions renders one "<name> <file> <line> <address> <index>"
// line per record. Addresses are zero-padded to the binary's address
// width so columns stay aligned across a run.
func (f *TextFormatter) FormatFunctions(res *correlate.Result, addrWidth int, markers bool) (string, error) {
	var buf strings.Builder
	for _, ur := range res.Units {
		if markers {
			fmt.Fprintf(&buf, "\n[Compilation Unit] Offset: %d, Name: %s\n", ur.Unit.Offset, ur.Unit.Name)
		}
		for _, rec := range ur.Records {
			if rec.Indexed {
				fmt.Fprintf(&buf, "%s %s %d 0x%0*x %d\n",
					rec.Name, rec.File, rec.Line, addrWidth, rec.Address, rec.Index)
			} else {
				fmt.Fprintf(&buf, "%s %s %d 0x%0*x\n",
					rec.Name, rec.File, rec.Line, addrWidth, rec.Address)
			}
		}
	}
	return buf.String(), nil
}

// FormatUnits renders one "<offset> <name>" line per unit.
func (f *TextFormatter) FormatUnits(units []correlate.CompileUnit) (string, error) {
	var buf strings.Builder
	for _, u := range units {
		fmt.Fprintf(&buf, "%d %s\n", u.Offset, u.Name)
	}
	return buf.String(), nil
}

// JSONFormatter emits machine-readable JSON.
type JSONFormatter struct{}

type jsonFunction struct {
	Name    string `json:"name"`
	File    string `json:"file"`
	Line    int    `json:"line"`
	Address string `json:"address"`
	Index   *int   `json:"index,omitempty"`
	Unit    string `json:"unit"`
}

// FormatFunctions renders all records as a single JSON array. Unit
// markers are a text-output concept: each JSON record already carries
// its unit, so markers is accepted for interface parity and ignored.
func (f *JSONFormatter) FormatFunctions(res *correlate.Result, addrWidth int, markers bool) (string, error) {
	out := []jsonFunction{}
	for _, ur := range res.Units {
		for _, rec := range ur.Records {
			jf := jsonFunction{
				Name:    rec.Name,
				File:    rec.File,
				Line:    rec.Line,
				Address: fmt.Sprintf("0x%0*x", addrWidth, rec.Address),
				Unit:    rec.Unit,
			}
			if rec.Indexed {
				idx := rec.Index
				jf.Index = &idx
			}
			out = append(out, jf)
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal records: %w", err)
	}
	return string(data) + "\n", nil
}

type jsonUnit struct {
	Offset uint64 `json:"offset"`
	Name   string `json:"name"`
}

// FormatUnits renders the units as a single JSON array.
func (f *JSONFormatter) FormatUnits(units []correlate.CompileUnit) (string, error) {
	out := []jsonUnit{}
	for _, u := range units {
		out = append(out, jsonUnit{Offset: uint64(u.Offset), Name: u.Name})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal units: %w", err)
	}
	return string(data) + "\n", nil
}

// WriteOutput writes formatted output to the given writer.
func WriteOutput(w io.Writer, output string) error {
	if _, err := io.WriteString(w, output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
