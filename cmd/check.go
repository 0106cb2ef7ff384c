/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sony-level/peptide-runner/internal/mutation"
	"github.com/sony-level/peptide-runner/internal/pipeline"
	"github.com/sony-level/peptide-runner/internal/prereq"
)

var showTemplate bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check FoldX, template files and the peptide list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		setup, err := pipeline.New(cfg, log, os.Stdout).Load(cmd.Context())
		if err != nil {
			fmt.Printf("%s %v\n", color.RedString("✗"), err)
			return err
		}
		fmt.Printf("%s %d peptides, template with %d sites\n", color.GreenString("✓"), len(setup.Peptides), setup.Template.Arity())
		fmt.Printf("  Template: %s\n", setup.Template.Legacy())
		if showTemplate {
			data, err := setup.Template.Marshal()
			if err != nil {
				return err
			}
			fmt.Printf("\n# %s\n%s\n", mutation.DefaultFileName, data)
		}

		summary := prereq.NewChecker().CheckFoldX(cfg.FoldX, setup.Artifacts.Structure, setup.Artifacts.Rotabase)
		for _, result := range summary.Results {
			if result.Found {
				fmt.Printf("%s %s: %s\n", color.GreenString("✓"), result.Name, result.Path)
			}
		}
		if !summary.AllFound {
			fmt.Print(prereq.FormatMissing(summary))
			return fmt.Errorf("%d prerequisites missing", len(summary.MissingTools))
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&showTemplate, "show-template", false, "Print the resolved template in mutations.yaml form")
	rootCmd.AddCommand(checkCmd)
}
