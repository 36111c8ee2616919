package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	version = "dev"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skinchat",
		Short: "Skincare and dermatology assistant",
		Long: `skinchat answers skincare and dermatology questions using a hosted
text-generation model (Gemini by default, or any OpenAI-compatible API).

The API key is read from the config file or from GOOGLE_API_KEY / OPENAI_API_KEY.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")

	cmd.AddCommand(newAskCmd())
	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newPromptCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command; ctx is cancelled on interrupt by the caller
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "skinchat version %s\n", version)
		},
	}
}
