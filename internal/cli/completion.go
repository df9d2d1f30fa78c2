package cli

import (
	"github.com/spf13/cobra"
)

func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for disposition.

To load completions:

Bash:
  $ source <(disposition completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ disposition completion bash > /etc/bash_completion.d/disposition
  # macOS:
  $ disposition completion bash > $(brew --prefix)/etc/bash_completion.d/disposition

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ disposition completion zsh > "${fpath[1]}/_disposition"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ disposition completion fish | source

  # To load completions for each session, execute once:
  $ disposition completion fish > ~/.config/fish/completions/disposition.fish

PowerShell:
  PS> disposition completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> disposition completion powershell > disposition.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}
