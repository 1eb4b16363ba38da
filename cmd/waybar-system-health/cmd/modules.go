package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waybarutils/waybar-system-health/internal/checks"
)

// modulesCmd lists the known check modules, mostly useful when writing
// ignore rules.
var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the available check modules",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, m := range checks.All(nil) {
			fmt.Printf("%-10s %s\n", m.Name(), m.Description())
		}
	},
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}
