package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/anamnesis/internal/cases"
)

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "List available cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		lib, err := cases.Load(cfg.Cases.Dir)
		if err != nil {
			return err
		}
		for _, c := range lib.All() {
			persona := c.PersonaID
			if persona == "" {
				persona = "(random)"
			}
			fmt.Printf("%-22s %-34s persona=%s\n", c.ID, c.Title, persona)
			fmt.Printf("%-22s %q\n", "", c.ChiefComplaint)
		}
		return nil
	},
}

var casesValidateCmd = &cobra.Command{
	Use:   "validate <file|dir>...",
	Short: "Validate case pack files against the pack schema",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		for _, a := range args {
			info, err := os.Stat(a)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				files = append(files, a)
				continue
			}
			for _, pat := range []string{"*.yaml", "*.yml"} {
				m, _ := filepath.Glob(filepath.Join(a, pat))
				files = append(files, m...)
			}
		}

		failed := 0
		for _, f := range files {
			data, err := os.ReadFile(f)
			if err != nil {
				return err
			}
			cs, err := cases.Parse(f, data)
			if err != nil {
				failed++
				fmt.Printf("✗ %s\n  %v\n", f, err)
				continue
			}
			fmt.Printf("✓ %s (%d cases)\n", f, len(cs))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d packs invalid", failed, len(files))
		}
		return nil
	},
}

func init() {
	casesCmd.AddCommand(casesValidateCmd)
}
