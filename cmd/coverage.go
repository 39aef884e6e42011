package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/anamnesis/internal/coverage"
	"github.com/abhisek/anamnesis/internal/store"
	"github.com/abhisek/anamnesis/internal/tagger"
)

var coverageCmd = &cobra.Command{
	Use:   "coverage [session-id]",
	Short: "Show the coverage checklist, or a closed session's coverage",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tracker := coverage.NewTracker(tagger.Default().Checklist())
		if len(args) == 0 {
			printCoverage(tracker.Summary(), false)
			return nil
		}

		rt, err := setup(cmd, "")
		if err != nil {
			return err
		}
		defer rt.Close()

		recs, err := rt.backend.journal.Query(cmd.Context(), store.ConcernSessionSnapshots, store.QueryOpts{SessionID: args[0]})
		if err != nil {
			return fmt.Errorf("query session snapshots: %w", err)
		}
		if len(recs) == 0 {
			return fmt.Errorf("no closed session %q", args[0])
		}
		var snap store.SessionSnapshotData
		if err := recs[len(recs)-1].Decode(&snap); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}

		tags := make([]tagger.Tag, 0, len(snap.Covered))
		for _, s := range snap.Covered {
			tags = append(tags, tagger.ParseTag(s))
		}
		tracker.Restore(tags)

		fmt.Printf("Session %s  case=%s persona=%s\n", snap.SessionID, snap.CaseID, snap.PersonaID)
		fmt.Printf("Closed %s after %d questions\n", snap.ClosedAt.Local().Format("2006-01-02 15:04"), len(snap.Asked))
		fmt.Printf("Coverage %.1f%%\n", tracker.Percent())
		if snap.DoorknobFired {
			fmt.Printf("Doorknob: %s\n", snap.DoorknobSymptom)
		}
		printCoverage(tracker.Summary(), true)
		return nil
	},
}

func printCoverage(domains []coverage.DomainSummary, marks bool) {
	for _, d := range domains {
		fmt.Printf("\n%-30s %d/%d\n", d.Label, d.Covered, d.Total)
		fmt.Println(strings.Repeat("─", 40))
		missing := make(map[string]bool, len(d.Missing))
		for _, m := range d.Missing {
			missing[m] = true
		}
		for _, e := range d.Elements {
			switch {
			case !marks:
				fmt.Printf("  %s\n", e)
			case missing[e]:
				fmt.Printf("  ✗ %s\n", e)
			default:
				fmt.Printf("  ✓ %s\n", e)
			}
		}
	}
}
