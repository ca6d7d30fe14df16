package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for cpkg.

Package names for install, update and graph are completed from the
configured registry.

  Bash:       source <(cpkg completion bash)
  Zsh:        cpkg completion zsh > "${fpath[1]}/_cpkg"
  Fish:       cpkg completion fish | source
  PowerShell: cpkg completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  usageArgs(cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs)),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}

// completePackages completes the first positional argument with package
// names from the registry, described by their registry description.
// Registry failures yield no completions rather than an error.
func (c *CLI) completePackages(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cat, err := c.fetchCatalog(cmd.Context(), cfg)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var out []cobra.Completion
	for _, name := range cat.Names() {
		if d, _ := cat.Lookup(name); d.Description != "" {
			out = append(out, cobra.CompletionWithDesc(name, d.Description))
			continue
		}
		out = append(out, name)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
