package cmd

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/anamnesis/internal/questions"
	"github.com/abhisek/anamnesis/internal/spacedrep"
	"github.com/abhisek/anamnesis/internal/store"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Show essential questions due for review",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		rt, err := setup(cmd, "")
		if err != nil {
			return err
		}
		defer rt.Close()

		snap, err := rt.backend.snapshots.Latest(cmd.Context())
		if err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
		var data *store.SnapshotData
		if snap != nil {
			data = &snap.Data
		}
		sched := spacedrep.NewScheduler(data)
		table := questions.Default()
		now := time.Now()

		text := func(id string) string {
			if d := table.Get(id); d != nil {
				return d.Text
			}
			return id
		}

		if !all {
			due := sched.DueQuestions(now)
			if len(due) == 0 {
				fmt.Println("Nothing due. Keep interviewing.")
				return nil
			}
			fmt.Println("Due for review")
			fmt.Println(strings.Repeat("─", 60))
			for _, id := range due {
				fmt.Printf("  %-24s %s\n", id, text(id))
			}
			return nil
		}

		states := sched.AllReviewStates()
		if len(states) == 0 {
			fmt.Println("Review queue is empty.")
			return nil
		}
		ids := make([]string, 0, len(states))
		for id := range states {
			ids = append(ids, id)
		}
		slices.Sort(ids)

		fmt.Printf("%-24s  %-10s  %5s  %6s  %s\n", "Question", "Status", "Stage", "Misses", "Next")
		fmt.Println(strings.Repeat("─", 70))
		for _, id := range ids {
			rs := states[id]
			next := "now"
			if d := rs.DaysUntilReview(now); d > 0 {
				next = fmt.Sprintf("in %dd", d)
			}
			fmt.Printf("%-24s  %-10s  %5d  %6d  %s\n", id, rs.Status(now), rs.Stage, rs.Misses, next)
		}
		return nil
	},
}

func init() {
	reviewCmd.Flags().Bool("all", false, "Show every queued question with its status")
}
