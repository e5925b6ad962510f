package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/symdex/symdex/internal/correlate"
	"github.com/symdex/symdex/internal/object"
)

func newFunctionsCmd() *cobra.Command {
	var (
		symtabPath string
		basePath   string
		cuFilter   string
		function   string
		relative   bool
		format     string
	)

	cmd := &cobra.Command{
		Use:   "functions <debug-info>",
		Short: "Resolve functions to file, line, address and symbol index",
		Long: `Walk the debug-info file's compilation units and emit one line per
defined function:

  <name> <file> <line> <address> <index>

Index is the function's 1-based position among symbol table records
sharing its name, in original table order, or its rank by ascending
address with --relative. Functions whose address has no same-named
symbol record are reported on stderr and excluded from the data lines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			if basePath == "" {
				basePath = cfg.BasePath
			}
			if !cmd.Flags().Changed("format") && cfg.Format != "" {
				format = cfg.Format
			}

			mode := correlate.Absolute
			if relative {
				mode = correlate.Relative
			}

			return runFunctions(functionsParams{
				debugPath:  args[0],
				symtabPath: symtabPath,
				basePath:   basePath,
				cuFilter:   cuFilter,
				function:   function,
				mode:       mode,
				format:     OutputFormat(format),
			}, logger)
		},
	}

	cmd.Flags().StringVar(&symtabPath, "symtab", "", "Binary providing the symbol table (defaults to the debug-info file)")
	cmd.Flags().StringVar(&basePath, "base-path", "", "Directory to re-root declared source paths under")
	cmd.Flags().StringVar(&cuFilter, "cu", "", "Only process compilation units whose name contains this substring")
	cmd.Flags().StringVar(&function, "function", "", "Only resolve the function with exactly this name")
	cmd.Flags().BoolVar(&relative, "relative", false, "Report address-sorted rank instead of table-order position")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json)")

	return cmd
}

type functionsParams struct {
	debugPath  string
	symtabPath string
	basePath   string
	cuFilter   string
	function   string
	mode       correlate.Mode
	format     OutputFormat
}

func runFunctions(p functionsParams, logger zerolog.Logger) error {
	debugObj, err := object.Open(p.debugPath, logger)
	if err != nil {
		return err
	}
	defer func() { _ = debugObj.Close() }()

	dwarfData, err := debugObj.DWARF()
	if err != nil {
		return err
	}

	symObj := debugObj
	if p.symtabPath != "" {
		symObj, err = object.Open(p.symtabPath, logger)
		if err != nil {
			return err
		}
		defer func() { _ = symObj.Close() }()
	}

	var matcher *correlate.Matcher
	syms, err := symObj.FunctionSymbols()
	switch {
	case err == nil:
		matcher = correlate.NewMatcher(syms, logger)
	case p.symtabPath != "":
		// An explicitly named symbol source must be usable.
		return err
	default:
		logger.Warn().Err(err).Msg("No symbol table available, emitting records without indices")
	}

	pipeline := correlate.NewPipeline(dwarfData, matcher, logger)
	res, err := pipeline.Run(correlate.Options{
		UnitFilter:     p.cuFilter,
		FunctionFilter: p.function,
		BasePath:       p.basePath,
		Mode:           p.mode,
	})
	if err != nil {
		return err
	}

	formatter, err := NewFormatter(p.format)
	if err != nil {
		return err
	}

	// Unit markers are section separators for unfiltered runs; a
	// function filter means the caller wants bare data lines.
	markers := p.function == ""
	out, err := formatter.FormatFunctions(res, debugObj.AddrHexWidth(), markers)
	if err != nil {
		return err
	}

	return WriteOutput(os.Stdout, out)
}
