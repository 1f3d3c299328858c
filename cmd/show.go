package cmd

import (
	"fmt"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/zjrosen/clientbook/internal/log"
	"github.com/zjrosen/clientbook/internal/ui/clientdetails"
	"github.com/zjrosen/clientbook/internal/ui/markdown"
)

const showWidth = 80

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one client's details",
	Long: `Print the details of the client with the given id, rendered the same way
as the interactive detail panel. Output is unstyled when not writing to a
terminal; --raw prints the markdown source.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBackend(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = b.Close() }()

		c, ok, err := b.store.GetByID(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("loading client: %w", err)
		}
		if !ok {
			return fmt.Errorf("client %q not found", args[0])
		}

		doc := clientdetails.Document(c, cfg.UI.DateFormat, time.Local)
		out := cmd.OutOrStdout()
		if showRaw {
			_, err := fmt.Fprint(out, doc)
			return err
		}

		style := cfg.UI.MarkdownStyle
		if termenv.NewOutput(out).Profile == termenv.Ascii {
			style = markdown.PlainStyle
		}
		r, err := markdown.New(showWidth, style)
		if err != nil {
			return err
		}
		rendered, err := r.Render(doc)
		if err != nil {
			log.ErrorErr(log.CatUI, "Rendering client failed", err, "id", c.ID)
			rendered = doc
		}
		_, err = fmt.Fprint(out, rendered)
		return err
	},
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the markdown source")
	rootCmd.AddCommand(showCmd)
}
