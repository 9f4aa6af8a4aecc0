package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/atelier/internal/record"
)

// NewClientsCommand creates the "clients" command group.
func NewClientsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Manage client records",
	}
	cmd.AddCommand(newClientsListCommand(opts))
	cmd.AddCommand(newClientsAddCommand(opts))
	cmd.AddCommand(newClientsSetStatusCommand(opts))
	return cmd
}

func newClientsListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			err = app.Stores.Clients.Fetch(cmd.Context())
			app.recordAuth(err)
			if err != nil {
				return fmt.Errorf("%s", userMessage(err))
			}

			clients := app.Stores.Clients.Items()
			rows := [][]string{{"CODE", "NAME", "CITY", "STATUS"}}
			for _, c := range clients {
				rows = append(rows, []string{c.Code, c.Name, c.City, c.Status})
			}

			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(clients, rows)
		},
	}
}

func newClientsAddCommand(opts *RootOptions) *cobra.Command {
	var name, code, city string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a client",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			created, err := app.Stores.Clients.Add(cmd.Context(), record.Client{
				Code: code,
				Name: name,
				City: city,
			})
			if err != nil {
				return fmt.Errorf("%s", userMessage(err))
			}

			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(created, [][]string{{"created", created.ID, created.Name}})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "client name")
	cmd.Flags().StringVar(&code, "code", "", "client code (scope key)")
	cmd.Flags().StringVar(&city, "city", "", "client city")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}

func newClientsSetStatusCommand(opts *RootOptions) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "set-status <id>",
		Short: "Update a client's status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Stores.Clients.Fetch(cmd.Context()); err != nil {
				return fmt.Errorf("%s", userMessage(err))
			}

			today := time.Now().UTC().Format(record.DateLayout)
			updated, err := app.Stores.Clients.Update(cmd.Context(), args[0],
				func(c record.Client) record.Client {
					c.Status = status
					c.StatusDate = today
					return c
				},
				map[string]any{"status": status, "statusDate": today})
			if err != nil {
				return fmt.Errorf("%s", userMessage(err))
			}

			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(updated, [][]string{{"updated", updated.ID, updated.Status}})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "new status value")
	_ = cmd.MarkFlagRequired("status")

	return cmd
}
