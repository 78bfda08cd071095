// Package cmd provides the command-line interface of the EduVerse backend.
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"eduverse/app"
	"eduverse/bootstrap"
	"eduverse/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// CLI output formatters
var (
	headerColor = color.New(color.FgBlue, color.Bold)
	methodColor = color.New(color.FgGreen)
	infoColor   = color.New(color.FgCyan)
)

// Provider hands out the application object along with the configuration
// and logger it was built with
type Provider interface {
	Application() (*app.Server, error)
	Config() *config.Config
	Logger() *zap.Logger
}

// NewRootCmd creates the eduverse command backed by the default shim
func NewRootCmd() *cobra.Command {
	return newRootCmd(bootstrap.Default())
}

func newRootCmd(provider Provider) *cobra.Command {
	var noColor bool

	rootCmd := &cobra.Command{
		Use:   "eduverse",
		Short: "EduVerse learning platform backend",
		Long: `EduVerse learning platform backend.

Without a subcommand the application is served locally on 0.0.0.0:$PORT
(default 8000). Serverless deployments use the api package instead.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	serveCmd := newServeCmd(provider)
	rootCmd.RunE = serveCmd.RunE
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newRoutesCmd(provider))

	return rootCmd
}

// newServeCmd creates the 'serve' subcommand
func newServeCmd(provider Provider) *cobra.Command {
	var port string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local development server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := provider.Application()
			if err != nil {
				return err
			}
			defer server.Close()

			cfg := *provider.Config()
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			dev, err := bootstrap.NewDevServer(server, &cfg, provider.Logger())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			infoColor.Fprintf(cmd.ErrOrStderr(), "Serving on http://%s\n", dev.ListenAddr())
			return dev.Run(ctx)
		},
	}
	serveCmd.Flags().StringVar(&port, "port", "", "Override the PORT environment variable")

	return serveCmd
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
