/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sony-level/peptide-runner/internal/pipeline"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Prepare, model and rename every peptide",
	Long: `Load the peptide list, prepare one directory per peptide, run FoldX
BuildModel in each with bounded parallelism and rename the first model
to <peptide>.pdb.

A failing peptide never stops the others. The command exits non-zero
when at least one peptide failed; details are in run-report.json.

Examples:
  pmr run
  pmr run -i peptides.txt -j 8
  pmr run --timeout 30m --verbose`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeRun(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func executeRun(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	if cfg.DryRun {
		fmt.Println("[DRY-RUN MODE] FoldX will not be executed.")
	}

	report, err := pipeline.New(cfg, log, os.Stdout).Run(cmd.Context())
	if err != nil {
		log.WithError(err).Error("Run aborted")
		return err
	}

	fmt.Print(pipeline.FormatSummary(report))

	if !report.Success() {
		return fmt.Errorf("%d of %d peptides failed", report.Failed, report.Total)
	}
	return nil
}
