package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/anamnesis/internal/questions"
	"github.com/abhisek/anamnesis/internal/tagger"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the canonical question table",
	RunE: func(cmd *cobra.Command, args []string) error {
		essentialOnly, _ := cmd.Flags().GetBool("essential")
		table := questions.Default()

		category := ""
		for _, d := range table.All() {
			if essentialOnly && !d.Essential() {
				continue
			}
			if d.Category != category {
				category = d.Category
				fmt.Printf("\n%s\n%s\n", strings.ToUpper(category), strings.Repeat("─", 60))
			}
			mark := " "
			if d.Essential() {
				mark = "*"
			}
			fmt.Printf("%s %-24s %s\n", mark, d.ID, d.Text)
		}
		fmt.Printf("\n%d questions (* essential)\n", table.Len())
		return nil
	},
}

var questionsClassifyCmd = &cobra.Command{
	Use:   "classify <text>...",
	Short: "Show how a question is classified and tagged",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		c := questions.NewClassifier(questions.Default())
		if cfg.Classifier.MinScore > 0 {
			c.MinScore = cfg.Classifier.MinScore
		}
		c.MinInputWordLen = cfg.Classifier.MinInputWordLen
		tg := tagger.Default()

		text := strings.Join(args, " ")
		m := c.Classify(text)
		tag, rule := tg.TagWithRule(text)

		fmt.Printf("Input:      %s\n", text)
		fmt.Printf("Normalized: %s\n", questions.Normalize(text))
		if m.Found() {
			fmt.Printf("Match:      %s (%s) score=%d\n", m.Definition.ID, m.Definition.Category, m.Score)
		} else {
			fmt.Printf("Match:      none (best score %d, threshold %d)\n", m.Score, c.MinScore)
		}
		if m.NearMiss != "" {
			fmt.Printf("Near miss:  %s\n", m.NearMiss)
		}
		if rule == "" {
			rule = "-"
		}
		fmt.Printf("Tag:        %s (rule %s)\n", tag, rule)
		return nil
	},
}

func init() {
	questionsCmd.Flags().Bool("essential", false, "Only essential questions")
	questionsCmd.AddCommand(questionsClassifyCmd)
}
