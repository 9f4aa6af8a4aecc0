package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewNotificationsCommand creates the "notifications" command group. Every
// subcommand recomputes the notification set from a fresh client fetch; the
// aggregator itself holds no fetched state between invocations, only the
// durable read flags.
func NewNotificationsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notify"},
		Short:   "List and acknowledge derived notifications",
	}
	cmd.AddCommand(newNotificationsListCommand(opts))
	cmd.AddCommand(newNotificationsReadCommand(opts))
	return cmd
}

func newNotificationsListCommand(opts *RootOptions) *cobra.Command {
	var unreadOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications derived from the client roster",
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
			app.Notify.Recompute(app.Stores.Clients.Items())

			ns := app.Notify.Notifications()
			if unreadOnly {
				unread := ns[:0]
				for _, n := range ns {
					if !app.Notify.IsRead(n.ID) {
						unread = append(unread, n)
					}
				}
				ns = unread
			}

			rows := [][]string{{"ID", "TIER", "LABEL", "DESCRIPTION"}}
			for _, n := range ns {
				rows = append(rows, []string{n.ID, n.Tier, n.Label, n.Description})
			}

			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			if err := f.Success(ns, rows); err != nil {
				return err
			}
			if opts.Format == "text" {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%d unread\n", app.Notify.UnreadCount())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unreadOnly, "unread", false, "only show unread notifications")

	return cmd
}

func newNotificationsReadCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "read",
		Short: "Mark every current notification as read",
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
			app.Notify.Recompute(app.Stores.Clients.Items())

			if err := app.Notify.MarkAllRead(); err != nil {
				return fmt.Errorf("mark notifications read: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "marked %d notifications read\n",
				len(app.Notify.Notifications()))
			return nil
		},
	}
}
