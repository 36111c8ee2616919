package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	var (
		historyPath string
		showPrompt  bool
	)

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Ask a single question and print the reply",
		Long: `Send one message, optionally preceded by a conversation history file
(a JSON array of {"role": "user"|"assistant", "content": "..."}), and print
the model's reply.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := loadHistory(historyPath)
			if err != nil {
				return err
			}

			assembler, cfg, err := newAssembler(nil)
			if err != nil {
				return err
			}
			defer assembler.Close()

			message := strings.Join(args, " ")
			if showPrompt {
				fmt.Fprintf(cmd.ErrOrStderr(), "--- prompt ---\n%s\n--------------\n", assembler.BuildPrompt(message, history))
			}

			ctx, cancel := withTimeout(cmd.Context(), cfg.LLM.Timeout())
			defer cancel()

			reply, err := assembler.Respond(ctx, message, history)
			if err != nil {
				return fmt.Errorf("failed to get reply: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}

	cmd.Flags().StringVar(&historyPath, "history", "", "path to conversation history JSON")
	cmd.Flags().BoolVar(&showPrompt, "show-prompt", false, "print the rendered prompt to stderr")

	return cmd
}
