// Package cli implements the symdex command line interface.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/symdex/symdex/internal/config"
	"github.com/symdex/symdex/internal/logging"
	"github.com/symdex/symdex/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "symdex",
	Short: "Correlate DWARF debug info with the ELF symbol table",
	Long: `Symdex answers, for the functions of a binary, three questions:
which source file and line declares each one, what address it was
assigned, and where it sits among same-named symbol table records.

Binaries routinely contain several distinct functions sharing one
linker-visible name (file-scoped functions defined in multiple
translation units); symdex tells them apart by correlating DWARF
low-pc addresses against the symbol table rather than by name alone.

Data lines go to stdout, diagnostics to stderr, so output can be piped
straight into line-oriented tooling.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ~/.symdex/config.yaml)")

	rootCmd.AddCommand(newFunctionsCmd())
	rootCmd.AddCommand(newUnitsCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// setup resolves layered configuration (file, env, flags) and builds
// the process logger from it.
func setup(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	return cfg, logging.New(logCfg), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("symdex version %s\n", version.Version)
			cmd.Printf("Git commit: %s\n", version.Commit)
			cmd.Printf("Build date: %s\n", version.BuildDate)
			cmd.Printf("Go version: %s\n", version.GoVersion)
		},
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
