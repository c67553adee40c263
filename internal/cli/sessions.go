package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canvaskit/pkg/session"
)

// sessionsCommand creates the session management command.
func (c *CLI) sessionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List and prune saved diagram sessions",
	}

	cmd.AddCommand(c.sessionsListCommand())
	cmd.AddCommand(c.sessionsRemoveCommand())
	cmd.AddCommand(c.sessionsPruneCommand())

	return cmd
}

func (c *CLI) openStore(cmd *cobra.Command) (session.Store, *workbench, error) {
	registry, err := c.cfg.Registry()
	if err != nil {
		return nil, nil, err
	}
	wb := &workbench{registry: registry}
	st, err := c.sessionStore(cmd.Context(), wb, registry, c.sessionOptions())
	if err != nil {
		return nil, nil, err
	}
	return st, wb, nil
}

func (c *CLI) sessionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved sessions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, wb, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer wb.close()

			names, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No sessions yet")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func (c *CLI) sessionsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name>...",
		Aliases: []string{"remove"},
		Short:   "Delete saved sessions and their history",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, wb, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer wb.close()

			for _, name := range args {
				if err := st.Delete(cmd.Context(), name); err != nil {
					return err
				}
			}
			printSuccess("Removed %d sessions", len(args))
			return nil
		},
	}
}

func (c *CLI) sessionsPruneCommand() *cobra.Command {
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove sessions untouched for longer than --older-than",
		Long: `Prune removes file sessions not edited within --older-than, and session
files that can no longer be read. Sessions kept in Redis expire on their own.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, wb, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer wb.close()

			fs, ok := st.(*session.FileStore)
			if !ok {
				printInfo("Sessions in Redis expire after %s", session.DefaultTTL)
				return nil
			}
			removed, err := fs.Cleanup(cmd.Context(), maxAge)
			if err != nil {
				return err
			}
			printSuccess("Pruned %d sessions", len(removed))
			for _, name := range removed {
				printDetail("%s", name)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&maxAge, "older-than", 30*24*time.Hour, "age after which a session is pruned")
	return cmd
}
