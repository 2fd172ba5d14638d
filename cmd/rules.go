package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/prospect-cli/internal/rules"
)

var rulesFile string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect scoring rules",
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective rule set as YAML with its hash",
	RunE: func(cmd *cobra.Command, _ []string) error {
		scanCfg := cfg.Scan
		if rulesFile != "" {
			scanCfg.RulesFile = rulesFile
		}

		r, err := scanCfg.Rules()
		if err != nil {
			return err
		}
		set, err := rules.Compile(r)
		if err != nil {
			return eris.Wrap(err, "rules show")
		}

		data, err := rules.MarshalYAML(set.Rules())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# hash: %s\n", set.Hash())
		_, err = out.Write(data)
		return err
	},
}

func init() {
	rulesShowCmd.Flags().StringVar(&rulesFile, "rules", "", "rules file (overrides scan.rules_file)")

	rulesCmd.AddCommand(rulesShowCmd)
	rootCmd.AddCommand(rulesCmd)
}
