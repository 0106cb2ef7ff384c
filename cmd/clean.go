/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sony-level/peptide-runner/internal/workspace"
)

var olderThan time.Duration

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the simulation folder",
	Long: `Remove the simulation folder, or with --older-than only the peptide
directories not modified for that long. Runs never clean up on their own.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ws := &workspace.Workspace{Root: cfg.SimulationDir}

		if olderThan > 0 {
			cleaned, err := ws.CleanupStale(olderThan)
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d peptide directories older than %v\n", cleaned, olderThan)
			return nil
		}

		if err := ws.Cleanup(); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", cfg.SimulationDir)
		return nil
	},
}

func init() {
	cleanCmd.Flags().DurationVar(&olderThan, "older-than", 0, "Only remove peptide directories older than this")
	rootCmd.AddCommand(cleanCmd)
}
