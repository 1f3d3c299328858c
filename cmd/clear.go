package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every registered client",
	Long: `Delete every registered client by removing the storage slot. Asks for
confirmation unless --yes is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, err := openBackend(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = b.Close() }()

		ctx := cmd.Context()
		clients, err := b.store.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("loading clients: %w", err)
		}
		out := cmd.OutOrStdout()

		if !clearYes {
			_, _ = fmt.Fprintf(out, "Delete all %d clients? [y/N] ", len(clients))
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			switch strings.ToLower(strings.TrimSpace(answer)) {
			case "y", "yes":
			default:
				_, _ = fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		if err := b.store.ClearAll(ctx); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Deleted %d clients.\n", len(clients))
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}
