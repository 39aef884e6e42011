package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "anamnesis",
	Short: "Patient interview simulator",
	Long: "Anamnesis lets medical learners practise history taking against simulated patients.\n" +
		"Run without a subcommand to open the interactive interview.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInterview(cmd, "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default: ./anamnesis.yaml or $XDG_CONFIG_HOME/anamnesis/anamnesis.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides ANAMNESIS_DB and store.path)")
	pf.String("cases", "", "Directory of extra case packs (overrides cases.dir)")
	pf.BoolP("verbose", "v", false, "Debug logging")
	pf.Bool("dev", false, "Human-readable console logs")

	rootCmd.AddCommand(
		interviewCmd,
		serveCmd,
		askCmd,
		questionsCmd,
		casesCmd,
		coverageCmd,
		statsCmd,
		reviewCmd,
		llmCmd,
		resetCmd,
		versionCmd,
	)
}
