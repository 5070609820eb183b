package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ageback-backend-go/internal/app"
	"ageback-backend-go/internal/models"
)

func newStripeCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stripe",
		Short: "Maintain the Stripe catalog",
	}
	cmd.AddCommand(newCreateProductsCommand(e))
	cmd.AddCommand(newListPricesCommand(e))
	cmd.AddCommand(newStripeCheckCommand(e))
	return cmd
}

func newCreateProductsCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "create-products",
		Short: "Create one product and one one-time price per plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gateway := app.BuildGateway(e.cfg)
			out := cmd.OutOrStdout()

			for _, plan := range models.Plans() {
				productID, priceID, err := gateway.CreateProduct(cmd.Context(), plan)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: product %s, price %s (%s)\n", plan.Key, productID, priceID, formatAmount(plan.Amount, plan.Currency))
			}
			return nil
		},
	}
}

func newListPricesCommand(e *env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list-prices",
		Short: "Print active prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			prices, err := app.BuildGateway(e.cfg).ListPrices(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PRICE\tPRODUCT\tAMOUNT\tTYPE")
			for _, p := range prices {
				kind := "one-time"
				if p.Recurring {
					kind = "recurring"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.ProductName, formatAmount(p.Amount, p.Currency), kind)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of prices to print")
	return cmd
}

func newStripeCheckCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the Stripe secret key by reading the account balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			balances, err := app.BuildGateway(e.cfg).CheckAccount(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "stripe: ok")
			for _, b := range balances {
				fmt.Fprintf(cmd.OutOrStdout(), "  available %s\n", b)
			}
			return nil
		},
	}
}

func formatAmount(minor int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", minor/100, minor%100, currency)
}
