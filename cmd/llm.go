package cmd

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/anamnesis/internal/llm"
	"github.com/abhisek/anamnesis/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM requests",
}

// llmRecord is one decoded llm_requests record.
type llmRecord struct {
	seq       int64
	sessionID string
	store.LLMRequestData
}

func loadLLMRecords(cmd *cobra.Command) ([]llmRecord, error) {
	rt, err := setup(cmd, "")
	if err != nil {
		return nil, err
	}
	defer rt.Close()

	recs, err := rt.backend.journal.Query(cmd.Context(), store.ConcernLLMRequests, store.QueryOpts{})
	if err != nil {
		return nil, fmt.Errorf("query llm requests: %w", err)
	}
	out := make([]llmRecord, 0, len(recs))
	for _, r := range recs {
		var d store.LLMRequestData
		if err := r.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", r.Sequence, err)
		}
		out = append(out, llmRecord{seq: r.Sequence, sessionID: r.SessionID, LLMRequestData: d})
	}
	return out, nil
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		recs, err := loadLLMRecords(cmd)
		if err != nil {
			return err
		}
		if purpose != "" {
			recs = slices.DeleteFunc(recs, func(r llmRecord) bool { return r.Purpose != purpose })
		}
		if len(recs) == 0 {
			fmt.Println("No LLM requests recorded.")
			return nil
		}
		if limit > 0 && len(recs) > limit {
			recs = recs[len(recs)-limit:]
		}

		fmt.Printf("%-6s  %-19s  %-10s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"Seq", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 100))
		for _, r := range recs {
			ok := "✓"
			if !r.Success {
				ok = "✗"
			}
			fmt.Printf("%-6d  %-19s  %-10s  %-28s  %-6d  %-6d  %-7d  %s\n",
				r.seq,
				r.Timestamp.Local().Format("2006-01-02 15:04:05"),
				r.Purpose,
				truncate(r.Model, 28),
				r.InputTokens,
				r.OutputTokens,
				r.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <seq>",
	Short: "Show one LLM request record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid sequence %q: %w", args[0], err)
		}
		recs, err := loadLLMRecords(cmd)
		if err != nil {
			return err
		}
		i := slices.IndexFunc(recs, func(r llmRecord) bool { return r.seq == seq })
		if i < 0 {
			return fmt.Errorf("llm request %d not found", seq)
		}
		r := recs[i]
		fmt.Printf("Seq:       %d\n", r.seq)
		if r.sessionID != "" {
			fmt.Printf("Session:   %s\n", r.sessionID)
		}
		b, _ := json.MarshalIndent(r.LLMRequestData, "", "  ")
		fmt.Println(string(b))
		return nil
	},
}

type usage struct {
	key          string
	calls        int
	inputTokens  int
	outputTokens int
	latencyMs    int64
}

func aggregate(recs []llmRecord, key func(llmRecord) string) []*usage {
	byKey := map[string]*usage{}
	var order []string
	for _, r := range recs {
		k := key(r)
		u, ok := byKey[k]
		if !ok {
			u = &usage{key: k}
			byKey[k] = u
			order = append(order, k)
		}
		u.calls++
		u.inputTokens += r.InputTokens
		u.outputTokens += r.OutputTokens
		u.latencyMs += r.LatencyMs
	}
	slices.Sort(order)
	out := make([]*usage, 0, len(order))
	for _, k := range order {
		out = append(out, byKey[k])
	}
	return out
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		recs, err := loadLLMRecords(cmd)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		fmt.Println("Usage by Purpose")
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-16s  %6s  %10s  %10s  %10s  %8s\n",
			"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
		fmt.Println(strings.Repeat("─", 72))

		var totalCalls, totalIn, totalOut int
		for _, u := range aggregate(recs, func(r llmRecord) string { return r.Purpose }) {
			fmt.Printf("%-16s  %6d  %10d  %10d  %10d  %8d\n",
				u.key, u.calls, u.inputTokens, u.outputTokens, u.inputTokens+u.outputTokens, u.latencyMs/int64(u.calls))
			totalCalls += u.calls
			totalIn += u.inputTokens
			totalOut += u.outputTokens
		}
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-16s  %6d  %10d  %10d  %10d\n", "TOTAL", totalCalls, totalIn, totalOut, totalIn+totalOut)

		fmt.Println()
		fmt.Println("Estimated Cost (USD)")
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
		fmt.Println(strings.Repeat("─", 72))

		var totalCost float64
		var unknown []string
		for _, u := range aggregate(recs, func(r llmRecord) string { return r.Model }) {
			cost := llm.LookupCost(u.key)
			if cost == nil {
				unknown = append(unknown, u.key)
				fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
					truncate(u.key, 32), u.calls, u.inputTokens, u.outputTokens, "?")
				continue
			}
			c := cost.Cost(u.inputTokens, u.outputTokens)
			totalCost += c
			fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
				truncate(u.key, 32), u.calls, u.inputTokens, u.outputTokens, formatCost(c))
		}
		fmt.Println(strings.Repeat("─", 72))
		label := "TOTAL"
		if len(unknown) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(totalCost))
		if len(unknown) > 0 {
			fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
		}
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. freeform)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
