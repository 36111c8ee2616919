package cli

import (
	"fmt"
	"strings"

	"github.com/Kavirubc/skinchat/internal/chat"
	"github.com/spf13/cobra"
)

func newPromptCmd() *cobra.Command {
	var historyPath string

	cmd := &cobra.Command{
		Use:   "prompt [message]",
		Short: "Render the prompt that would be sent, without calling the model",
		Long:  `Render the prompt for a message and history. No API key is required.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			history, err := loadHistory(historyPath)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), chat.RenderPrompt(chat.SystemPromptFor(cfg), history, strings.Join(args, " ")))
			return nil
		},
	}

	cmd.Flags().StringVar(&historyPath, "history", "", "path to conversation history JSON")

	return cmd
}
