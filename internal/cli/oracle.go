package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"allweather/internal/assets"
	"allweather/internal/hermes"
	"allweather/internal/workflow"
)

const oracleSource = "oracle"

// NewOracleCommand builds the oracle command group.
func NewOracleCommand(o Options) *cobra.Command {
	o = o.withDefaults()
	root := newRoot("oracle", "Read and update the all-weather price oracle", o.Config)
	root.AddCommand(
		newCurrentCommand(o),
		newUpdateCommand(o),
		newAssetCommand(o),
		newFeeCommand(o),
		newOracleInfoCommand(o),
		newNetworkCommand(o),
		newHistoryCommand(o, oracleSource),
	)
	return root
}

func newCurrentCommand(o Options) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the prices stored in the oracle",
		Args:  maxArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.session(cmd, oracleSource, func(s *Session) error {
				prices, err := s.Oracle.CurrentPrices(cmd.Context())
				if err != nil {
					return err
				}
				renderPrices(cmd.OutOrStdout(), "Current Prices", prices)
				return nil
			})
		},
	}
}

func newUpdateCommand(o Options) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Push the latest Hermes prices to the oracle",
		Args:  maxArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.session(cmd, oracleSource, func(s *Session) error {
				out := cmd.OutOrStdout()
				res, err := s.Workflow(cmd.Context()).Run(cmd.Context(), workflow.PriceUpdate())
				if err != nil {
					return err
				}
				renderResult(out, res)

				prices, err := s.Oracle.CurrentPrices(cmd.Context())
				if err != nil {
					return err
				}
				renderPrices(out, "Updated Prices", prices)
				return nil
			})
		},
	}
}

func newAssetCommand(o Options) *cobra.Command {
	return &cobra.Command{
		Use:   "asset <index 0-3>",
		Short: "Show the stored price of one asset",
		Args:  rangeArgs([]string{"index"}, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := workflow.ParseAssetIndex(args[0]); err != nil {
				return err
			}
			return o.session(cmd, oracleSource, func(s *Session) error {
				a, p, err := workflow.ReadAssetPrice(cmd.Context(), s.Oracle, args[0])
				if err != nil {
					return err
				}
				renderAssetPrice(cmd.OutOrStdout(), a, p)
				return nil
			})
		},
	}
}

func newFeeCommand(o Options) *cobra.Command {
	return &cobra.Command{
		Use:   "fee",
		Short: "Quote the fee for applying the latest price updates",
		Args:  maxArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.session(cmd, oracleSource, func(s *Session) error {
				q, err := s.quoter().QuoteFee(cmd.Context())
				if err != nil {
					return err
				}
				renderFeeQuote(cmd.OutOrStdout(), q)
				return nil
			})
		},
	}
}

func newOracleInfoCommand(o Options) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the Hermes price feeds backing each asset",
		Args:  maxArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.session(cmd, oracleSource, func(s *Session) error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Oracle: %s\n", s.Oracle.Address().Hex())

				feeds, err := s.Hermes.PriceFeeds(cmd.Context())
				if err != nil {
					return err
				}
				for _, a := range assets.All() {
					symbol := "Unknown"
					if f, ok := hermes.Find(feeds, a.Feed); ok && f.Symbol() != "" {
						symbol = f.Symbol()
					}
					fmt.Fprintf(out, "  %d %-5s %s\n", a.ID, a.Name, a.Description)
					fmt.Fprintf(out, "      feed:   %s\n", a.Feed.Hex())
					fmt.Fprintf(out, "      symbol: %s\n", symbol)
				}
				return nil
			})
		},
	}
}

func newNetworkCommand(o Options) *cobra.Command {
	return &cobra.Command{
		Use:   "network",
		Short: "Show chain id, latest block and fee data",
		Args:  maxArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.session(cmd, oracleSource, func(s *Session) error {
				info, err := s.Chain.Network(cmd.Context())
				if err != nil {
					return err
				}
				rate, err := s.Chain.FeeRate(cmd.Context())
				if err != nil {
					return err
				}
				renderNetwork(cmd.OutOrStdout(), info, rate)
				return nil
			})
		},
	}
}
