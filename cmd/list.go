package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/clientbook/internal/client"
	"github.com/zjrosen/clientbook/internal/controller"
	"github.com/zjrosen/clientbook/internal/ui/styles"
)

var (
	listSearch string
	listJSON   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print registered clients",
	Long: `Print registered clients as a table, or as JSON with --json.

The search term matches the same way as the interactive search box: legal and
trade names case-insensitively, tax ids with or without punctuation.

Examples:
  # List every client
  clientbook list

  # Filter by name or tax id
  clientbook list --search acme
  clientbook list -s 11.222.333

  # Extract fields with jq
  clientbook list --json | jq '.[].taxId'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, err := openBackend(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = b.Close() }()

		ctrl := controller.New(b.store)
		if err := ctrl.Load(cmd.Context()); err != nil {
			return fmt.Errorf("loading clients: %w", err)
		}
		ctrl.SetSearch(listSearch)
		clients := ctrl.Filtered()

		out := cmd.OutOrStdout()
		if listJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(clients)
		}
		writeTable(out, clients, cfg.UI.DateFormat)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Filter by legal name, trade name or tax id")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print the clients as a JSON array")
	rootCmd.AddCommand(listCmd)
}

// Column widths of the plain table.
const (
	colID    = 36
	colTaxID = 18
	colName  = 28
)

func writeTable(w io.Writer, clients []client.Client, dateFormat string) {
	if len(clients) == 0 {
		_, _ = fmt.Fprintln(w, "No clients found.")
		return
	}

	header := []string{
		styles.PadRight("ID", colID),
		styles.PadRight("TAX ID", colTaxID),
		styles.PadRight("LEGAL NAME", colName),
		styles.PadRight("TRADE NAME", colName),
		"REGISTERED",
	}
	_, _ = fmt.Fprintln(w, strings.Join(header, "  "))

	for _, c := range clients {
		row := []string{
			styles.PadRight(c.ID, colID),
			styles.PadRight(client.DisplayTaxID(c.TaxID), colTaxID),
			styles.PadRight(c.LegalName, colName),
			styles.PadRight(c.TradeName, colName),
			formatDate(c.CreatedAt, dateFormat),
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(strings.Join(row, "  "), " "))
	}
}

func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(time.Local).Format(layout)
}
