package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/killallgit/agentchat/pkg/config"
	"github.com/killallgit/agentchat/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "agentchat",
	Short: "Terminal chat client for streaming research agents",
	Long: `agentchat connects to an agent backend over a WebSocket, streams its
responses into a chat transcript and forwards your input.

Run without flags for the interactive chat screen, or with --headless to
read input lines from stdin and print responses to stdout.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer logger.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		appCfg := &AppConfig{
			Config:          config.Get(),
			Headless:        viper.GetBool("headless"),
			Prompt:          viper.GetString("prompt"),
			ContinueHistory: viper.GetBool("continue"),
		}
		return RunApplication(ctx, appCfg)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is .agentchat/settings.yaml)")

	flags.StringP("url", "u", "", "agent websocket base url (default "+config.DefaultServerURL+")")
	viper.BindPFlag("server.url", flags.Lookup("url"))

	flags.String("client-id", "", "client id appended to the url (random when empty)")
	viper.BindPFlag("server.client_id", flags.Lookup("client-id"))

	flags.StringP("model", "m", "", "model identifier passed to the agent")
	viper.BindPFlag("server.model", flags.Lookup("model"))

	flags.String("format", "", "outbound frame format: raw, request or initialize")
	viper.BindPFlag("server.outbound_format", flags.Lookup("format"))

	flags.String("project-id", "", "project id sent with request frames")
	viper.BindPFlag("server.project_id", flags.Lookup("project-id"))

	flags.StringP("log-level", "l", "", "log level")
	viper.BindPFlag("logging.level", flags.Lookup("log-level"))

	flags.Bool("history", false, "mirror the transcript to the history file")
	viper.BindPFlag("history.enabled", flags.Lookup("history"))

	flags.Bool("continue", false, "append to the previous history file instead of starting fresh")
	viper.BindPFlag("continue", flags.Lookup("continue"))

	flags.StringP("prompt", "p", "", "send one prompt and exit when its response ends (implies --headless)")
	viper.BindPFlag("prompt", flags.Lookup("prompt"))

	flags.BoolP("headless", "H", false, "run without the chat screen, reading input lines from stdin")
	viper.BindPFlag("headless", flags.Lookup("headless"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig loads settings and starts the file logger
func initConfig() error {
	if _, err := config.Load(cfgFile); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(); err != nil {
		return err
	}
	if used := config.GetConfigFileUsed(); used != "" {
		logger.Info("Using config file: %s", used)
	}
	return nil
}
