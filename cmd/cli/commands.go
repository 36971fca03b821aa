package main

import (
	"fmt"
	"net/url"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/fundengine/internal/adapter/http/dto"
	"github.com/iho/fundengine/internal/domain"
)

func healthCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check service readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client().get("/ready", nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), indent(body))
			return nil
		},
	}
}

func fundCmd(client func() *apiClient) *cobra.Command {
	fund := &cobra.Command{
		Use:   "fund",
		Short: "Fund operations",
	}

	var limit, offset int
	list := &cobra.Command{
		Use:   "list",
		Short: "List funds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ListResponse[dto.FundResponse]
			q := url.Values{}
			q.Set("limit", fmt.Sprint(limit))
			q.Set("offset", fmt.Sprint(offset))
			if err := client().getJSON("/api/v1/funds", q, &resp); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCURRENCY\tTARGET\tSTATUS")
			for _, f := range resp.Data {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.ID, truncate(f.Name, 32), f.Currency, f.TargetSize.StringFixed(2), f.Status)
			}
			return tw.Flush()
		},
	}
	list.Flags().IntVar(&limit, "limit", 50, "Page size")
	list.Flags().IntVar(&offset, "offset", 0, "Page offset")

	get := &cobra.Command{
		Use:   "get <fund-id>",
		Short: "Show a fund and its terms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client().get(fundPath(args[0], ""), nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), indent(body))
			return nil
		},
	}

	fund.AddCommand(list, get)
	return fund
}

func waterfallCmd(client func() *apiClient) *cobra.Command {
	var amount string

	cmd := &cobra.Command{
		Use:   "waterfall <fund-id>",
		Short: "Preview how a distribution amount flows through the waterfall",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := decimal.NewFromString(amount); err != nil {
				return fmt.Errorf("invalid --amount %q: %w", amount, err)
			}

			var calc domain.WaterfallCalculation
			q := url.Values{"amount": {amount}}
			if err := client().getJSON(fundPath(args[0], "/waterfall"), q, &calc); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "TIER\tTO LP\tTO GP\t")
			for _, t := range calc.Tiers {
				fmt.Fprintf(tw, "%s\t%s\t%s\t\n", t.Label, t.LPShare.StringFixed(2), t.GPShare.StringFixed(2))
			}
			fmt.Fprintf(tw, "total\t%s\t%s\t\n", calc.TotalToLP.StringFixed(2), calc.TotalToGP.StringFixed(2))
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "Distribution amount (decimal)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func metricsCmd(client func() *apiClient) *cobra.Command {
	var fresh bool

	cmd := &cobra.Command{
		Use:   "metrics <fund-id>",
		Short: "Show DPI, RVPI, TVPI and IRR for a fund",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var q url.Values
			if fresh {
				q = url.Values{"fresh": {"true"}}
			}
			body, err := client().get(fundPath(args[0], "/metrics"), q)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), indent(body))
			return nil
		},
	}
	cmd.Flags().BoolVar(&fresh, "fresh", false, "Recompute instead of reading the cache")

	return cmd
}

func concentrationCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "concentration <fund-id>",
		Short: "Show portfolio concentration and diversification notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client().get(fundPath(args[0], "/concentration"), nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), indent(body))
			return nil
		},
	}
}

func callsCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "calls <fund-id>",
		Short: "List a fund's capital calls",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ListResponse[dto.CapitalCallResponse]
			if err := client().getJSON(fundPath(args[0], "/capital-calls"), nil, &resp); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tID\tAMOUNT\tOUTSTANDING\tSTATUS")
			for _, c := range resp.Data {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", c.CallNumber, truncate(c.ID, 12), c.TotalCallAmount.StringFixed(2), c.AmountOutstanding.StringFixed(2), c.Status)
			}
			return tw.Flush()
		},
	}
}

func reportCmd(client func() *apiClient) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "report <fund-id>",
		Short: "Download the LP capital account workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client().get(fundPath(args[0], "/reports/lp.xlsx"), nil)
			if err != nil {
				return err
			}

			if output == "" {
				output = args[0] + "-lp-report.xlsx"
			}
			if output == "-" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(output, body, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, len(body))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout")

	return cmd
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
