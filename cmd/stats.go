package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/anamnesis/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, "")
		if err != nil {
			return err
		}
		defer rt.Close()
		ctx := cmd.Context()
		j := rt.backend.journal

		fmt.Println("Journal")
		fmt.Println(strings.Repeat("─", 36))
		for _, c := range store.AllConcerns() {
			n, err := j.Count(ctx, c)
			if err != nil {
				return fmt.Errorf("count %s: %w", c, err)
			}
			fmt.Printf("%-22s %10d\n", c, n)
		}

		recs, err := j.Query(ctx, store.ConcernSessionSnapshots, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query session snapshots: %w", err)
		}
		if len(recs) == 0 {
			fmt.Println("\nNo closed sessions yet.")
			return nil
		}

		var total, best float64
		doorknobs := 0
		byCase := map[string]int{}
		for _, r := range recs {
			var s store.SessionSnapshotData
			if err := r.Decode(&s); err != nil {
				return fmt.Errorf("decode record %d: %w", r.Sequence, err)
			}
			total += s.CoveragePercent
			best = max(best, s.CoveragePercent)
			if s.DoorknobFired {
				doorknobs++
			}
			byCase[s.CaseID]++
		}

		fmt.Println()
		fmt.Println("Sessions")
		fmt.Println(strings.Repeat("─", 36))
		fmt.Printf("%-22s %10d\n", "closed", len(recs))
		fmt.Printf("%-22s %9.1f%%\n", "mean coverage", total/float64(len(recs)))
		fmt.Printf("%-22s %9.1f%%\n", "best coverage", best)
		fmt.Printf("%-22s %10d\n", "doorknob disclosures", doorknobs)
		for _, id := range slices.Sorted(maps.Keys(byCase)) {
			fmt.Printf("  %-20s %10d\n", id, byCase[id])
		}
		return nil
	},
}
