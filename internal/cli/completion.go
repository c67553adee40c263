package cli

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var completionShells = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for canvaskit. Besides commands, the
scripts complete saved diagram names for --diagram, enabled kinds for --kind,
and alignment modes and axes.

  $ source <(canvaskit completion bash)
  $ canvaskit completion zsh > "${fpath[1]}/_canvaskit"
  $ canvaskit completion fish > ~/.config/fish/completions/canvaskit.fish
  PS> canvaskit completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionShells[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// registerFlagCompletions wires dynamic completion of the persistent flags.
func (c *CLI) registerFlagCompletions(root *cobra.Command) {
	_ = root.RegisterFlagCompletionFunc("diagram", c.completeDiagrams)
	_ = root.RegisterFlagCompletionFunc("kind", c.completeKinds)
}

// completeDiagrams lists the saved sessions matching the typed prefix.
func (c *CLI) completeDiagrams(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if err := c.loadConfig(); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	if cmd.Context() == nil {
		cmd.SetContext(context.Background())
	}
	st, wb, err := c.openStore(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer wb.close()

	names, err := st.List(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, name := range names {
		if strings.HasPrefix(name, toComplete) {
			out = append(out, name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeKinds lists the diagram kinds enabled in the config.
func (c *CLI) completeKinds(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if err := c.loadConfig(); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	registry, err := c.cfg.Registry()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, k := range registry.Kinds() {
		out = append(out, string(k))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
