package cli

import (
	"fmt"

	"github.com/Kavirubc/skinchat/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file and environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, path, err := config.LoadOrDefault(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if path == "" {
				fmt.Fprintln(out, "No config file found, using defaults and environment")
			} else {
				fmt.Fprintf(out, "Validating config: %s\n", path)
			}

			errs := config.Validate(cfg)
			if len(errs) > 0 {
				fmt.Fprintln(out, "\nValidation errors:")
				for _, e := range errs {
					fmt.Fprintf(out, "  - %v\n", e)
				}
				return fmt.Errorf("configuration is invalid")
			}

			fmt.Fprintln(out, "\nConfiguration is valid!")
			fmt.Fprintf(out, "  - Provider: %s (%s)\n", cfg.LLM.Provider, cfg.LLM.Model)
			if cfg.Chat.SystemPrompt != "" {
				fmt.Fprintf(out, "  - System prompt: custom (%d chars)\n", len(cfg.Chat.SystemPrompt))
			} else {
				fmt.Fprintln(out, "  - System prompt: built-in")
			}
			fmt.Fprintf(out, "  - Server: %s\n", cfg.Server.Addr)

			return nil
		},
	}
}
