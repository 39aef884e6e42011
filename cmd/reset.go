package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all journal records and learner snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("reset deletes all practice history; pass --yes to confirm")
		}
		rt, err := setup(cmd, "")
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.backend.reset(cmd.Context()); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		fmt.Printf("Cleared %s store.\n", rt.cfg.Store.Backend)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
