package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canvaskit/pkg/diagram/align"
	"github.com/matzehuels/canvaskit/pkg/errors"
)

// edit opens the diagram session, runs fn and saves the session back. fn
// returns the success message.
func (c *CLI) edit(cmd *cobra.Command, fn func(ctx context.Context, wb *workbench) (string, error)) error {
	ctx := cmd.Context()
	wb, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer wb.close()
	msg, err := fn(ctx, wb)
	if err != nil {
		return err
	}
	if err := wb.save(ctx); err != nil {
		return err
	}
	if msg != "" {
		printSuccess("%s", msg)
	}
	return nil
}

// idArgs accepts at least min arguments and checks every argument after the
// first skip as a node or edge identifier.
func idArgs(min, skip int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(min)(cmd, args); err != nil {
			return err
		}
		for _, id := range args[skip:] {
			if err := errors.ValidateID(id); err != nil {
				return err
			}
		}
		return nil
	}
}

// =============================================================================
// Grouping
// =============================================================================

func (c *CLI) groupCommand() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "group <id>...",
		Short: "Wrap nodes in a new group",
		Args:  idArgs(1, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd, func(ctx context.Context, wb *workbench) (string, error) {
				id, err := wb.sess.Group(ctx, args, label)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Grouped %d nodes into %s", len(args), StyleHighlight.Render(id)), nil
			})
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "Group", "group label")
	return cmd
}

func (c *CLI) ungroupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ungroup <group>",
		Short: "Dissolve a group, keeping its children in place",
		Args:  cobra.MatchAll(cobra.ExactArgs(1), idArgs(1, 0)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd, func(ctx context.Context, wb *workbench) (string, error) {
				if err := wb.sess.Ungroup(ctx, args[0]); err != nil {
					return "", err
				}
				return "Ungrouped " + args[0], nil
			})
		},
	}
}

func (c *CLI) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete nodes and edges",
		Long: `Delete removes the listed nodes and edges. Edges touching a deleted node
go with it. Deleted groups are dissolved first, so their children stay.`,
		Args: idArgs(1, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd, func(ctx context.Context, wb *workbench) (string, error) {
				before := wb.sess.Graph()
				if err := wb.sess.Delete(ctx, args); err != nil {
					return "", err
				}
				after := wb.sess.Graph()
				return fmt.Sprintf("Deleted %d nodes and %d edges",
					len(before.Nodes)-len(after.Nodes), len(before.Edges)-len(after.Edges)), nil
			})
		},
	}
}

// =============================================================================
// Alignment
// =============================================================================

func (c *CLI) alignCommand() *cobra.Command {
	modes := make([]string, len(align.Modes))
	for i, m := range align.Modes {
		modes[i] = string(m)
	}

	return &cobra.Command{
		Use:   "align <" + strings.Join(modes, "|") + "> <id>...",
		Short: "Align nodes to an edge or centre line of the selection",
		Args:  idArgs(2, 1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return modes, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := align.ParseMode(args[0])
			if err != nil {
				return err
			}
			return c.edit(cmd, func(ctx context.Context, wb *workbench) (string, error) {
				if err := wb.sess.Align(ctx, args[1:], mode); err != nil {
					return "", err
				}
				return fmt.Sprintf("Aligned %d nodes %s", len(args)-1, mode), nil
			})
		},
	}
}

func (c *CLI) distributeCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "distribute <horizontal|vertical> <id>...",
		Short:     "Space nodes evenly between the outermost two",
		Args:      idArgs(2, 1),
		ValidArgs: []string{"horizontal", "vertical"},
		RunE: func(cmd *cobra.Command, args []string) error {
			axis, err := align.ParseAxis(args[0])
			if err != nil {
				return err
			}
			return c.edit(cmd, func(ctx context.Context, wb *workbench) (string, error) {
				if err := wb.sess.Distribute(ctx, args[1:], axis); err != nil {
					return "", err
				}
				if len(args)-1 < 3 {
					return "Fewer than three nodes, nothing to distribute", nil
				}
				return fmt.Sprintf("Distributed %d nodes %s", len(args)-1, axis), nil
			})
		},
	}
}

// =============================================================================
// Clipboard
// =============================================================================

func (c *CLI) copyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <id>...",
		Short: "Copy nodes, and the edges between them, to the clipboard",
		Args:  idArgs(1, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd, func(ctx context.Context, wb *workbench) (string, error) {
				n, err := wb.sess.Copy(ctx, args)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Copied %d nodes", n), nil
			})
		},
	}
}

func (c *CLI) pasteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paste",
		Short: "Paste the clipboard into the diagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd, func(ctx context.Context, wb *workbench) (string, error) {
				ids, err := wb.sess.Paste(ctx)
				if err != nil {
					return "", err
				}
				if len(ids) == 0 {
					printInfo("Clipboard is empty")
					return "", nil
				}
				return "Pasted " + strings.Join(ids, ", "), nil
			})
		},
	}
}

func (c *CLI) duplicateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "duplicate <id>...",
		Aliases: []string{"dup"},
		Short:   "Duplicate nodes in place without touching the clipboard",
		Args:    idArgs(1, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd, func(ctx context.Context, wb *workbench) (string, error) {
				ids, err := wb.sess.Duplicate(ctx, args)
				if err != nil {
					return "", err
				}
				return "Duplicated as " + strings.Join(ids, ", "), nil
			})
		},
	}
}

// =============================================================================
// History
// =============================================================================

func (c *CLI) undoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the last change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd, func(ctx context.Context, wb *workbench) (string, error) {
				if !wb.sess.Undo(ctx) {
					printInfo("Nothing to undo")
					return "", nil
				}
				return "Undone", nil
			})
		},
	}
}

func (c *CLI) redoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Redo the last undone change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd, func(ctx context.Context, wb *workbench) (string, error) {
				if !wb.sess.Redo(ctx) {
					printInfo("Nothing to redo")
					return "", nil
				}
				return "Redone", nil
			})
		},
	}
}

func (c *CLI) historyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the undo log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer wb.close()
			if wb.isNew {
				printInfo("No session for %s yet", c.diagram)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderHistory(wb.sess.History()))
			return nil
		},
	}
}

func (c *CLI) recordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "record <file|->",
		Short: "Record the source of a text-based diagram",
		Long: `Record snapshots the source text of a text-based diagram (such as a
sequence diagram) into its undo log. Use - to read from stdin. Recording
text identical to the current source does nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return c.edit(cmd, func(ctx context.Context, wb *workbench) (string, error) {
				unchanged := src == wb.sess.Source()
				if err := wb.sess.RecordSource(ctx, src); err != nil {
					return "", err
				}
				if unchanged {
					printInfo("Source unchanged")
					return "", nil
				}
				return fmt.Sprintf("Recorded %d bytes", len(src)), nil
			})
		},
	}
}

func readSource(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	return string(data), nil
}
