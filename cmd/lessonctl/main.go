// Command lessonctl is the operator CLI: lesson seeding, payment catalog
// maintenance, file store checks and test emails.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ageback-backend-go/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is resolved once per invocation, before any subcommand runs.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	var verbose bool
	e := &env{}

	cmd := &cobra.Command{
		Use:           "lessonctl",
		Short:         "Operator tools for the AgeBack lesson backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			e.cfg = cfg

			e.logger = zap.NewNop()
			if verbose {
				if e.logger, err = zap.NewDevelopment(); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log collaborator activity to stderr")

	cmd.AddCommand(newSeedCommand(e))
	cmd.AddCommand(newStripeCommand(e))
	cmd.AddCommand(newFilesCommand(e))
	cmd.AddCommand(newTestEmailCommand(e))
	return cmd
}
