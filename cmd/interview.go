package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/anamnesis/internal/app"
	"github.com/abhisek/anamnesis/internal/config"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Open the interactive interview",
	RunE: func(cmd *cobra.Command, args []string) error {
		personaID, _ := cmd.Flags().GetString("persona")
		return runInterview(cmd, personaID)
	},
}

func runInterview(cmd *cobra.Command, personaID string) error {
	// The TUI owns the terminal, so logs go to a file.
	logFile, err := config.StateLogFile()
	if err != nil {
		return err
	}
	rt, err := setup(cmd, logFile)
	if err != nil {
		return err
	}
	defer rt.Close()

	engine, rec, err := rt.buildEngine()
	if err != nil {
		return err
	}
	defer rec.Close()

	ctx := cmd.Context()
	rt.logger.Info("interview started", zap.Int("cases", len(engine.Cases().IDs())))
	return app.Run(app.Options{
		Engine:    engine,
		Freeform:  rt.buildFreeform(ctx, rec),
		Reminders: engine.DueReviews(ctx),
		PersonaID: personaID,
	})
}

func init() {
	interviewCmd.Flags().String("persona", "", "Force a persona (neutral, anxious, stoic, talkative)")
}
