package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/atelier/internal/record"
)

// NewNotesCommand creates the "notes" command group.
func NewNotesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage client activity notes",
	}
	cmd.AddCommand(newNotesListCommand(opts))
	cmd.AddCommand(newNotesAddCommand(opts))
	cmd.AddCommand(newNotesRemoveCommand(opts))
	return cmd
}

func newNotesListCommand(opts *RootOptions) *cobra.Command {
	var clientCode string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes for a client, latest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Stores.Notes.FetchByScope(cmd.Context(), clientCode); err != nil {
				return fmt.Errorf("%s", userMessage(err))
			}

			notes := app.Stores.Notes.Items()
			rows := [][]string{{"CREATED", "AUTHOR", "BODY"}}
			for _, n := range notes {
				rows = append(rows, []string{n.Created, n.Author, n.Body})
			}

			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(notes, rows)
		},
	}

	cmd.Flags().StringVar(&clientCode, "client", "", "client code")
	_ = cmd.MarkFlagRequired("client")

	return cmd
}

func newNotesAddCommand(opts *RootOptions) *cobra.Command {
	var clientCode, body, author string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a note to a client",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			created, err := app.Stores.Notes.Add(cmd.Context(), record.Note{
				ClientCode: clientCode,
				Body:       body,
				Author:     author,
				Created:    time.Now().UTC().Format(time.RFC3339),
			})
			if err != nil {
				return fmt.Errorf("%s", userMessage(err))
			}

			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(created, [][]string{{"created", created.ID}})
		},
	}

	cmd.Flags().StringVar(&clientCode, "client", "", "client code")
	cmd.Flags().StringVar(&body, "body", "", "note body")
	cmd.Flags().StringVar(&author, "author", "", "note author")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("body")

	return cmd
}

func newNotesRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Stores.Notes.Remove(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("%s", userMessage(err))
			}

			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(map[string]string{"removed": args[0]}, [][]string{{"removed", args[0]}})
		},
	}
}
