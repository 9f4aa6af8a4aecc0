package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/atelier/internal/search"
)

// NewSearchCommand creates the "search" command: one global query across
// every searchable collection, capped per category.
func NewSearchCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search across clients, contacts, evaluations, invoices and variables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			app, err := newApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			err = app.Stores.Clients.Fetch(ctx)
			app.recordAuth(err)
			if err != nil {
				return fmt.Errorf("%s", userMessage(err))
			}
			if err := app.Stores.Contacts.Fetch(ctx); err != nil {
				return fmt.Errorf("%s", userMessage(err))
			}
			if err := app.Stores.Evaluations.Fetch(ctx); err != nil {
				return fmt.Errorf("%s", userMessage(err))
			}
			if err := app.Stores.Invoices.Fetch(ctx); err != nil {
				return fmt.Errorf("%s", userMessage(err))
			}
			if err := app.Stores.Variables.Fetch(ctx); err != nil {
				return fmt.Errorf("%s", userMessage(err))
			}

			sources := search.Sources(app.Catalog,
				app.Stores.Clients.Items(),
				app.Stores.Contacts.Items(),
				app.Stores.Evaluations.Items(),
				app.Stores.Invoices.Items(),
				app.Stores.Variables.Items())
			results := search.Run(query, sources)

			if opts.Format == "json" {
				f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
				return f.Success(results, nil)
			}

			if results.Total() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no results")
				return nil
			}

			categories := make([]string, 0, len(results))
			for category := range results {
				categories = append(categories, category)
			}
			sort.Strings(categories)

			rows := [][]string{{"CATEGORY", "LABEL", "DETAIL"}}
			for _, category := range categories {
				for _, hit := range results[category] {
					rows = append(rows, []string{category, hit.Label, hit.SubLabel})
				}
			}

			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(results, rows)
		},
	}
}
