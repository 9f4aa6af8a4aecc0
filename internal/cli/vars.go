package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/atelier/internal/record"
)

// NewVarsCommand creates the "vars" command group for the client-scoped
// document-generation dictionary.
func NewVarsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vars",
		Short: "Manage a client's document variables",
	}
	cmd.AddCommand(newVarsListCommand(opts))
	cmd.AddCommand(newVarsReplaceCommand(opts))
	return cmd
}

func newVarsListCommand(opts *RootOptions) *cobra.Command {
	var clientCode string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a client's variables",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Stores.Variables.FetchByScope(cmd.Context(), clientCode); err != nil {
				return fmt.Errorf("%s", userMessage(err))
			}

			vars := app.Stores.Variables.Items()
			rows := [][]string{{"KEY", "LABEL"}}
			for _, v := range vars {
				rows = append(rows, []string{v.Key, v.Label})
			}

			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(vars, rows)
		},
	}

	cmd.Flags().StringVar(&clientCode, "client", "", "client code")
	_ = cmd.MarkFlagRequired("client")

	return cmd
}

func newVarsReplaceCommand(opts *RootOptions) *cobra.Command {
	var clientCode string

	cmd := &cobra.Command{
		Use:   "replace key=label [key=label ...]",
		Short: "Re-seed a client's variable dictionary",
		Long: "Destructively replaces the client's whole variable set: deletes every\n" +
			"existing variable in scope, creates the given ones, then refetches.\n" +
			"Best-effort: a partial failure leaves a mixed state until the final\n" +
			"refetch reconciles it.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			replacements := make([]record.Variable, 0, len(args))
			for _, arg := range args {
				key, label, found := strings.Cut(arg, "=")
				if !found || key == "" {
					return fmt.Errorf("invalid variable %q: expected key=label", arg)
				}
				replacements = append(replacements, record.Variable{Key: key, Label: label})
			}

			app, err := newApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Stores.Variables.ReplaceAll(cmd.Context(), clientCode, replacements); err != nil {
				return fmt.Errorf("%s", userMessage(err))
			}

			vars := app.Stores.Variables.Items()
			rows := [][]string{{"KEY", "LABEL"}}
			for _, v := range vars {
				rows = append(rows, []string{v.Key, v.Label})
			}

			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(vars, rows)
		},
	}

	cmd.Flags().StringVar(&clientCode, "client", "", "client code")
	_ = cmd.MarkFlagRequired("client")

	return cmd
}
