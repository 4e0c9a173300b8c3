package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/killallgit/madchat/pkg/config"
	"github.com/killallgit/madchat/pkg/controllers"
	"github.com/killallgit/madchat/pkg/headless"
	"github.com/killallgit/madchat/pkg/logger"
	"github.com/killallgit/madchat/pkg/repl"
	"github.com/killallgit/madchat/pkg/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "madchat",
	Short: "Chat with the Mäd AI assistant",
	Long: `Terminal chat client for a streaming question answering service.

Answers are streamed as they are generated. Use --plain for a line mode
prompt or --headless with --prompt to ask a single question.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := logger.Init(); err != nil {
			return err
		}
		defer logger.Close()

		if path := config.GetConfigFileUsed(); path != "" {
			logger.Info("Using config file: %s", path)
		}

		opener := controllers.StreamOpener(newStreamClient(cfg.Endpoint))
		controllerOpts := controllerOptions(cfg)

		if viper.GetBool("headless") {
			return runHeadless(cmd.Context(), opener, cmd.OutOrStdout(), cmd.ErrOrStderr(), controllerOpts)
		}

		plain, _ := cmd.Flags().GetBool("plain")
		if plain || cfg.UI.Mode == config.ModePlain {
			return runPlain(cmd.Context(), opener, cmd.OutOrStdout(), controllerOpts)
		}
		return runTUI(cmd.Context(), opener, cfg, controllerOpts)
	},
}

// controllerOptions maps configuration onto the submission controller
func controllerOptions(cfg *config.Config) []controllers.Option {
	return []controllers.Option{
		controllers.WithGreeting(cfg.Chat.Greeting),
		controllers.WithResponseTimeout(cfg.Endpoint.ResponseTimeout),
		controllers.WithMaxInputLength(cfg.Chat.MaxInputLength),
	}
}

func runHeadless(ctx context.Context, opener controllers.Opener, out, errOut io.Writer, opts []controllers.Option) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Errors already reach the caller's stderr through the headless output
	logger.SetEcho(nil)

	prompt := viper.GetString("prompt")
	return headless.RunHeadless(ctx, opener, prompt, out, errOut, opts...)
}

// runPlain leaves SIGINT to the prompt, which uses it to cancel an answer
func runPlain(ctx context.Context, opener controllers.Opener, out io.Writer, opts []controllers.Option) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()

	r := repl.New(opener, repl.NewLinerReader(), out, opts...)
	return r.Run(ctx)
}

func runTUI(ctx context.Context, opener controllers.Opener, cfg *config.Config, opts []controllers.Option) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()

	// Anything echoed to stderr would tear the alternate screen
	logger.SetEcho(nil)

	app := tui.NewApp(ctx, opener, tui.Options{
		MaxInputLength: cfg.Chat.MaxInputLength,
		AltScreen:      true,
	}, opts...)
	return app.Run()
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .madchat/settings.yaml)")

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.Flags().StringP("endpoint", "e", "", "URL of the streaming chat endpoint")
	viper.BindPFlag("endpoint.url", rootCmd.Flags().Lookup("endpoint"))

	rootCmd.Flags().Duration("timeout", 0, "give up on an answer after this long (0 waits indefinitely)")
	viper.BindPFlag("endpoint.response_timeout", rootCmd.Flags().Lookup("timeout"))

	rootCmd.Flags().StringP("prompt", "p", "", "ask a single question without entering the TUI")
	viper.BindPFlag("prompt", rootCmd.Flags().Lookup("prompt"))

	rootCmd.Flags().BoolP("headless", "H", false, "run without TUI (requires --prompt)")
	viper.BindPFlag("headless", rootCmd.Flags().Lookup("headless"))

	rootCmd.Flags().Bool("plain", false, "use a line mode prompt instead of the TUI")
}
