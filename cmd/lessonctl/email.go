package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ageback-backend-go/internal/app"
	"ageback-backend-go/internal/core"
)

func newTestEmailCommand(e *env) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "send-test-email",
		Short: "Send a test credential email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			notifier := core.NewNotificationService(app.BuildMailer(e.cfg), e.cfg.MailFrom, e.cfg.EmailTimeout, e.logger)

			result, err := notifier.SendTestCredential(cmd.Context(), to)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent to %s (message %s, code %s)\n", to, result.MessageID, result.Code)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Recipient address")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
