package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for wayfinder.

To load completions:

Bash:
  $ source <(wayfinder completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ wayfinder completion bash > /etc/bash_completion.d/wayfinder
  # macOS:
  $ wayfinder completion bash > $(brew --prefix)/etc/bash_completion.d/wayfinder

Zsh:
  $ wayfinder completion zsh > "${fpath[1]}/_wayfinder"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ wayfinder completion fish | source

PowerShell:
  PS> wayfinder completion powershell | Out-String | Invoke-Expression
`,
		GroupID:               groupOther,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
