/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sony-level/peptide-runner/internal/config"
	"github.com/sony-level/peptide-runner/internal/logging"
)

// configFile is the only flag read directly; the others go through config.Load
var configFile string

// rootCmd represents the base command - runs directly without subcommand
var rootCmd = &cobra.Command{
	Use:   "pmr",
	Short: "Batch FoldX BuildModel runs over a peptide list",
	Long: `pmr (peptide-model-runner) threads every peptide of a list onto a
template structure with FoldX BuildModel.

For each peptide it prepares an isolated directory under the simulation
folder, writes the FoldX mutant file, runs FoldX with a bounded number of
parallel workers and renames the resulting model to <peptide>.pdb.
A JSON report of every peptide is written to the simulation folder.

Examples:
  pmr --input peptides.txt
  pmr run --workers 8 --foldx /opt/foldx/foldx
  pmr run --templates https://github.com/user/foldx-templates
  pmr prepare -i peptides.txt
  pmr check`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeRun(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// loadConfig resolves the configuration for cmd
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(configFile, cmd.Flags())
}

// newLogger builds the logger for a resolved configuration
func newLogger(cfg *config.Config) *logrus.Logger {
	return logging.New(os.Stderr, cfg.Verbose)
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&configFile, "config", "", "Config file (default: .peptide-runner.yaml, then XDG/home)")
	flags.BoolP("verbose", "v", false, "Enable verbose output")
	flags.Bool("dry-run", false, "Prepare workspaces and show FoldX commands without running them")

	// Inputs
	flags.StringP("input", "i", config.DefaultInput, "Peptide list (first column is the sequence)")
	flags.String("templates", config.DefaultTemplates, "Template bundle: directory or GitHub/GitLab URL")
	flags.String("structure", config.DefaultStructure, "Structure file, relative to the template bundle")
	flags.String("rotabase", config.DefaultRotabase, "FoldX rotabase file, relative to the template bundle")
	flags.String("template", config.DefaultTemplate, "Mutation template as a format string with {} placeholders")
	flags.String("template-file", "", "YAML mutation template, relative to the template bundle")
	flags.Bool("strict-alphabet", false, "Reject peptides with non-standard residue codes")
	flags.Bool("skip-structure-check", false, "Do not check template sites against the structure file")

	// Outputs
	flags.StringP("simulation-dir", "o", config.DefaultSimulationDir, "Simulation folder holding one directory per peptide")
	flags.String("instruction-file", config.DefaultInstructionFile, "Name of the FoldX mutant file")
	flags.Int("model-index", config.DefaultModelIndex, "FoldX model number renamed to <peptide>.pdb")

	// FoldX
	flags.String("foldx", config.DefaultFoldX, "FoldX executable")
	flags.IntP("workers", "j", config.DefaultWorkers, "Number of FoldX processes run in parallel")
	flags.Duration("timeout", 0, "Per-peptide FoldX timeout (0 waits indefinitely)")
}
