package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/anamnesis/internal/freeform"
	"github.com/abhisek/anamnesis/internal/interview"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>...",
	Short: "Ask a case one or more questions and print the replies",
	Example: `  anamnesis ask --case chest-pain "When did this start?" "Do you smoke?"
  anamnesis ask --case chest-pain --seed 7 --close "What brings you in?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caseID, _ := cmd.Flags().GetString("case")
		seed, _ := cmd.Flags().GetUint64("seed")
		personaID, _ := cmd.Flags().GetString("persona")
		closeSession, _ := cmd.Flags().GetBool("close")
		reflection, _ := cmd.Flags().GetString("reflection")

		rt, err := setup(cmd, "")
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
		ff := rt.buildFreeform(ctx, rec)

		s, err := engine.Start(ctx, interview.StartOptions{CaseID: caseID, PersonaID: personaID, Seed: seed})
		if err != nil {
			return err
		}
		fmt.Printf("Session %s  case=%s persona=%s seed=%d\n\n", s.ID(), s.Case().ID, s.Persona().ID, s.Seed())

		for _, q := range args {
			reply, err := engine.Ask(ctx, s.ID(), q)
			if err != nil {
				return err
			}
			if reply.NoMatch {
				freeform.Complete(ctx, ff, s, q, reply)
			}
			printReply(q, reply)
		}

		if !closeSession {
			cov, err := engine.Coverage(s.ID())
			if err != nil {
				return err
			}
			fmt.Printf("Coverage: %.1f%%\n", cov.Percent)
			return nil
		}

		sum, err := engine.Close(ctx, s.ID(), reflection)
		if err != nil {
			return err
		}
		printSummary(sum)
		return nil
	},
}

func printReply(q string, r *interview.Reply) {
	fmt.Printf("> %s\n", q)
	if r.ResponseText != "" {
		fmt.Printf("  %s\n", r.ResponseText)
	}
	switch {
	case r.NoMatch && r.NearMiss != "":
		fmt.Printf("  (no match; closest: %s)\n", r.NearMiss)
	case r.NoMatch:
		fmt.Println("  (no match)")
	default:
		fmt.Printf("  [%s %s]\n", r.QuestionID, r.Tag)
	}
	if d := r.Doorknob; d != nil {
		flag := ""
		if d.RedFlag {
			flag = " (red flag)"
		}
		fmt.Printf("  ...%s%s\n", d.Text, flag)
	}
	for _, w := range r.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	fmt.Println()
}

func printSummary(sum *interview.Summary) {
	fmt.Println("Summary")
	fmt.Println(strings.Repeat("─", 48))
	fmt.Printf("Questions: %d (%d matched)\n", sum.Questions, sum.Matched)
	fmt.Printf("Coverage:  %.1f%%\n", sum.CoveragePercent)
	for _, d := range sum.Domains {
		fmt.Printf("  %-28s %d/%d\n", d.Label, d.Covered, d.Total)
	}
	if len(sum.MissedEssential) > 0 {
		fmt.Printf("Missed:    %s\n", strings.Join(sum.MissedEssential, ", "))
	}
	if d := sum.Doorknob; d != nil {
		fmt.Printf("Doorknob:  %s\n", d.Symptom)
		if d.TeachingNote != "" {
			fmt.Printf("           %s\n", d.TeachingNote)
		}
	}
	for _, w := range sum.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
}

func init() {
	f := askCmd.Flags()
	f.String("case", "", "Case id (required)")
	f.Uint64("seed", 0, "RNG seed (0 picks one)")
	f.String("persona", "", "Force a persona")
	f.Bool("close", false, "Close the session and print the summary")
	f.String("reflection", "", "Reflection to record on close")
	_ = askCmd.MarkFlagRequired("case")
}
