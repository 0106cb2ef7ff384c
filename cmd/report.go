/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sony-level/peptide-runner/internal/pipeline"
	"github.com/sony-level/peptide-runner/internal/workspace"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the summary of the last run",
	Long: `Read run-report.json from the simulation folder and print its summary,
including the FoldX errors of failed peptides.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ws := &workspace.Workspace{Root: cfg.SimulationDir}
		report, err := pipeline.ReadReport(ws.ReportFile())
		if err != nil {
			return err
		}

		fmt.Print(pipeline.FormatSummary(report))
		if !report.Success() {
			return fmt.Errorf("%d of %d peptides failed in run %s", report.Failed, report.Total, report.RunID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
