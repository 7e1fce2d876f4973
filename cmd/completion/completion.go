// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewCommand returns the completion command.
func NewCommand(rootCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for sheetpipe.

Install instructions:
  Bash:       sheetpipe completion bash > /etc/bash_completion.d/sheetpipe
              echo 'source <(sheetpipe completion bash)' >> ~/.bashrc
  Zsh:        sheetpipe completion zsh > ~/.zsh/completions/_sheetpipe
  Fish:       sheetpipe completion fish > ~/.config/fish/completions/sheetpipe.fish
  PowerShell: sheetpipe completion powershell >> $PROFILE`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				fmt.Fprintln(os.Stdout, "# sheetpipe bash completion")
				fmt.Fprintln(os.Stdout, "# Install: sheetpipe completion bash > /etc/bash_completion.d/sheetpipe")
				fmt.Fprintln(os.Stdout, "# Or:      echo 'source <(sheetpipe completion bash)' >> ~/.bashrc")
				fmt.Fprintln(os.Stdout)
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				fmt.Fprintln(os.Stdout, "# sheetpipe zsh completion")
				fmt.Fprintln(os.Stdout, "# Install: sheetpipe completion zsh > ~/.zsh/completions/_sheetpipe")
				fmt.Fprintln(os.Stdout)
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				fmt.Fprintln(os.Stdout, "# sheetpipe fish completion")
				fmt.Fprintln(os.Stdout, "# Install: sheetpipe completion fish > ~/.config/fish/completions/sheetpipe.fish")
				fmt.Fprintln(os.Stdout)
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				fmt.Fprintln(os.Stdout, "# sheetpipe PowerShell completion")
				fmt.Fprintln(os.Stdout, "# Install: sheetpipe completion powershell >> $PROFILE")
				fmt.Fprintln(os.Stdout)
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish, powershell)", args[0])
			}
		},
	}
	return cmd
}
