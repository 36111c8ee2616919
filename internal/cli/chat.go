package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Kavirubc/skinchat/pkg/models"
	"github.com/spf13/cobra"
)

const chatPrompt = "you> "

// responder is the part of chat.Assembler the interactive loop needs
type responder interface {
	Respond(ctx context.Context, message string, history models.History) (string, error)
}

func newChatCmd() *cobra.Command {
	var historyPath string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long: `Read questions from stdin, one per line, and print each reply.
The conversation is kept in memory for this session only.
Type /reset to clear it, /exit (or EOF) to quit.`,
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

			session := &chatSession{
				responder: assembler,
				history:   history,
				timeout:   cfg.LLM.Timeout(),
				out:       cmd.OutOrStdout(),
				errOut:    cmd.ErrOrStderr(),
			}
			return session.run(cmd.Context(), cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&historyPath, "history", "", "path to conversation history JSON to start from")

	return cmd
}

// chatSession holds the caller-side history for one interactive run
type chatSession struct {
	responder responder
	history   models.History
	timeout   time.Duration
	out       io.Writer
	errOut    io.Writer
}

func (s *chatSession) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Fprint(s.out, chatPrompt)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
		case "/exit", "/quit":
			return nil
		case "/reset":
			s.history = nil
			fmt.Fprintln(s.out, "(conversation cleared)")
		default:
			if err := s.turn(ctx, line); err != nil {
				// Provider failures are reported and the session continues
				fmt.Fprintf(s.errOut, "error: %v\n", err)
			}
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprint(s.out, chatPrompt)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	fmt.Fprintln(s.out)
	return nil
}

// turn asks for one reply and records both sides only when it succeeds
func (s *chatSession) turn(ctx context.Context, message string) error {
	callCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.responder.Respond(callCtx, message, s.history)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "assistant> %s\n", reply)
	s.history = append(s.history, models.UserTurn(message), models.AssistantTurn(reply))
	return nil
}
