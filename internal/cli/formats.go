package cli

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/coltype/internal/ingest"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newFormatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported file types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.NewWriter()
			t.AppendHeader(table.Row{"Format", "Extensions"})
			for _, f := range ingest.Formats() {
				t.AppendRow(table.Row{f.Name, strings.Join(f.Extensions, ", ")})
			}
			t.SetStyle(table.StyleLight)
			_, err := fmt.Fprintln(a.out, t.Render())
			return err
		},
	}
}
