package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/symdex/symdex/internal/correlate"
	"github.com/symdex/symdex/internal/object"
)

func newUnitsCmd() *cobra.Command {
	var (
		cuFilter string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "units <debug-info>",
		Short: "List compilation units",
		Long: `List the debug-info file's compilation units as "<offset> <name>"
lines. Useful for finding the exact unit name to pass to
'functions --cu'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("format") && cfg.Format != "" {
				format = cfg.Format
			}

			obj, err := object.Open(args[0], logger)
			if err != nil {
				return err
			}
			defer func() { _ = obj.Close() }()

			dwarfData, err := obj.DWARF()
			if err != nil {
				return err
			}

			units, err := correlate.Units(dwarfData)
			if err != nil {
				return err
			}
			selected, err := correlate.SelectUnits(units, cuFilter)
			if err != nil {
				return err
			}

			formatter, err := NewFormatter(OutputFormat(format))
			if err != nil {
				return err
			}
			out, err := formatter.FormatUnits(selected)
			if err != nil {
				return err
			}

			return WriteOutput(os.Stdout, out)
		},
	}

	cmd.Flags().StringVar(&cuFilter, "cu", "", "Only list compilation units whose name contains this substring")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json)")

	return cmd
}
