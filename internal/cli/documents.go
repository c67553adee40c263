package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canvaskit/pkg/errors"
	canvasio "github.com/matzehuels/canvaskit/pkg/io"
	"github.com/matzehuels/canvaskit/pkg/pipeline"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check an interchange document and list every problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatFor(format, args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if os.IsNotExist(err) {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "file %s not found", args[0])
			}
			if err != nil {
				return err
			}

			runner, err := c.newRunner()
			if err != nil {
				return err
			}
			defer runner.Close()

			res, cached, err := runner.ParseWithCacheInfo(cmd.Context(), data, f)
			if err != nil {
				return reportInvalid(err)
			}
			printSuccess("%s is valid", args[0])
			printStats(res.Graph, cached)
			for _, e := range res.Dropped {
				printWarning("edge %s dropped: %s → %s does not resolve", e.ID, e.Source, e.Target)
			}
			if res.VersionMismatch() {
				printWarning("document version %q, expected %q", res.Version, canvasio.Version)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "document format: json or yaml (default from extension)")
	return cmd
}

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var (
		format string
		choice string
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a document into the diagram, replacing or merging",
		Long: `Import reads an interchange document into the diagram.

An empty diagram takes the document as it is. Otherwise you choose:
replace discards the current diagram, merge appends the document with
colliding identifiers renamed, cancel leaves everything untouched.
Without --choice the choice is asked for interactively.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := formatFor(format, args[0])
			if err != nil {
				return err
			}
			chooser, err := importChooser(choice)
			if err != nil {
				return err
			}

			wb, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer wb.close()
			runner, err := c.newRunner()
			if err != nil {
				return err
			}
			defer runner.Close()

			file, err := os.Open(args[0])
			if os.IsNotExist(err) {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "file %s not found", args[0])
			}
			if err != nil {
				return err
			}
			defer file.Close()

			prog := newProgress(loggerFromContext(ctx))
			imp, err := wb.sess.Import(ctx, runner, file, f, chooser)
			if err != nil {
				return reportInvalid(err)
			}

			switch imp.State() {
			case pipeline.StateCancelled:
				printInfo("Import cancelled, %s unchanged", c.diagram)
				return nil
			case pipeline.StateApplied:
				if err := wb.save(ctx); err != nil {
					return err
				}
			}
			prog.done("Imported "+args[0], "choice", imp.Choice())
			g := wb.sess.Graph()
			printStats(g, imp.Cached())
			for from, to := range imp.Renamed() {
				printDetail("renamed %s %s %s", from, iconArrow, to)
			}
			for _, e := range imp.Result().Dropped {
				printWarning("edge %s dropped: endpoint missing", e.ID)
			}
			if imp.State() == pipeline.StateApplied {
				printNextStep("Revert the import", appName+" undo -d "+c.diagram)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "document format: json or yaml (default from extension)")
	cmd.Flags().StringVar(&choice, "choice", "", "replace, merge or cancel when the diagram is not empty")
	return cmd
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the diagram as JSON, YAML or DOT",
		Long: `Export writes the diagram as an interchange document.

With a file argument the format follows the extension; without one the
document is written to stdout in --format (default json).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			wb, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer wb.close()
			if wb.sess.Spec().TextBased {
				return errors.New(errors.ErrCodeUnsupported, "%s diagrams are exported as their source; see `canvaskit history`", wb.sess.Kind)
			}
			doc := wb.sess.Export()

			if len(args) == 0 {
				f, err := canvasio.ParseFormat(format)
				if err != nil {
					return err
				}
				return canvasio.Write(ctx, doc, f, cmd.OutOrStdout())
			}
			if format != "" {
				loggerFromContext(ctx).Debug("--format ignored, using the file extension", "file", args[0])
			}
			if err := canvasio.ExportFile(ctx, doc, args[0]); err != nil {
				return err
			}
			printSuccess("Exported %s", c.diagram)
			printFile(args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "output format when writing to stdout: json, yaml or dot")
	return cmd
}

// formatFor resolves --format, falling back to the file extension.
func formatFor(flag, path string) (canvasio.Format, error) {
	if flag == "" {
		return canvasio.FormatFromPath(path), nil
	}
	return canvasio.ParseFormat(flag)
}

// importChooser answers the Replace/Merge/Cancel question from --choice,
// or interactively when stdin is a terminal.
func importChooser(flag string) (pipeline.Chooser, error) {
	if flag != "" {
		choice, err := pipeline.ParseChoice(flag)
		if err != nil {
			return nil, err
		}
		return pipeline.Always(choice), nil
	}
	if !term.IsTerminal(os.Stdin.Fd()) {
		return func(context.Context, *pipeline.Import) (pipeline.Choice, error) {
			return "", errors.New(errors.ErrCodeInvalidInput, "the diagram is not empty: pass --choice replace, merge or cancel")
		}, nil
	}
	return chooseInteractively, nil
}

// reportInvalid prints each field of a validation failure and returns a
// one-line error for the exit status.
func reportInvalid(err error) error {
	fields := errors.Fields(err)
	if len(fields) == 0 {
		return err
	}
	printFieldErrors(fields)
	return fmt.Errorf("%s", errors.UserMessage(err))
}
