package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/popline/popline/internal/config"
	"github.com/popline/popline/internal/storage"
)

var historyClear bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the stored command history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		store := storage.NewHistoryStore(dir)

		if historyClear {
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Println("History cleared")
			return nil
		}

		lines, err := store.List()
		if err != nil {
			return err
		}
		for i, line := range lines {
			fmt.Printf("%5d  %s\n", i+1, line.Text)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all stored history")
}
