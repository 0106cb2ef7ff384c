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

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Build peptide directories without running FoldX",
	Long: `Validate every peptide against the mutation template and write its
directory (structure, rotabase and mutant file) without starting FoldX.
Useful to inspect mutant files or to ship the folder to a cluster.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		report, err := pipeline.New(cfg, log, os.Stdout).Prepare(cmd.Context())
		if err != nil {
			log.WithError(err).Error("Prepare aborted")
			return err
		}

		fmt.Print(pipeline.FormatSummary(report))
		if !report.Success() {
			return fmt.Errorf("%d of %d peptides rejected", report.Failed, report.Total)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prepareCmd)
}
