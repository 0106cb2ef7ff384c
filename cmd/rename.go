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

var renameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Rename existing FoldX models to <peptide>.pdb",
	Long: `Copy the FoldX model of every peptide in the list to <peptide>.pdb,
without running FoldX. Peptides without a model are reported and skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		report, err := pipeline.New(cfg, log, os.Stdout).RenameAll(cmd.Context())
		if err != nil {
			log.WithError(err).Error("Rename aborted")
			return err
		}

		fmt.Print(pipeline.FormatSummary(report))
		if !report.Success() {
			return fmt.Errorf("%d of %d models missing", report.Failed, report.Total)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
