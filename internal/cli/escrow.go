package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"allweather/internal/assets"
	"allweather/internal/units"
	"allweather/internal/workflow"
)

const escrowSource = "escrow"

const buyLong = `Buy basket exposure, attaching the amount plus the oracle update fee.

Weights left out take their defaults (40/40/20). An explicit 0 is kept as 0,
so "buy 1 60 40 0" holds no gold. The three weights must sum to 100.`

// NewEscrowCommand builds the escrow command group.
func NewEscrowCommand(o Options) *cobra.Command {
	o = o.withDefaults()
	root := newRoot("escrow", "Buy, sell and withdraw all-weather basket shares through the escrow contract", o.Config)
	root.AddCommand(
		newBuyCommand(o),
		newSellCommand(o),
		newWithdrawCommand(o),
		newEscrowInfoCommand(o),
		newTopUpCommand(o),
		newHistoryCommand(o, escrowSource),
	)
	return root
}

func newBuyCommand(o Options) *cobra.Command {
	return &cobra.Command{
		Use:   "buy <ethAmount> [spWeight=40] [bondWeight=40] [goldWeight=20]",
		Short: "Buy basket exposure, attaching the amount plus the oracle update fee",
		Long:  buyLong,
		Args:  rangeArgs([]string{"ethAmount"}, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount("ethAmount", args[0])
			if err != nil {
				return err
			}
			weights, err := workflow.ParseWeights(args[1:])
			if err != nil {
				return err
			}

			return o.session(cmd, escrowSource, func(s *Session) error {
				fmt.Fprintf(cmd.OutOrStdout(), "Buying with %s ETH (%s)\n", units.FormatEther(amount), weights)
				res, err := s.Workflow(cmd.Context()).Run(cmd.Context(), workflow.Buy(amount, weights))
				if err != nil {
					return err
				}
				renderResult(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}
}

func newSellCommand(o Options) *cobra.Command {
	return &cobra.Command{
		Use:   "sell <tokenAmount>",
		Short: "Sell basket exposure, attaching the oracle update fee",
		Args:  rangeArgs([]string{"tokenAmount"}, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount("tokenAmount", args[0])
			if err != nil {
				return err
			}

			return o.session(cmd, escrowSource, func(s *Session) error {
				fmt.Fprintf(cmd.OutOrStdout(), "Selling %s\n", units.FormatEther(amount))
				res, err := s.Workflow(cmd.Context()).Run(cmd.Context(), workflow.Sell(amount))
				if err != nil {
					return err
				}
				renderResult(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}
}

func newWithdrawCommand(o Options) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <userAddress> <payoutAmount>",
		Short: "Pay out escrow funds to a user (contract owner only)",
		Args:  rangeArgs([]string{"userAddress", "payoutAmount"}, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipient, err := parseAddress("userAddress", args[0])
			if err != nil {
				return err
			}
			payout, err := parseAmount("payoutAmount", args[1])
			if err != nil {
				return err
			}

			return o.session(cmd, escrowSource, func(s *Session) error {
				fmt.Fprintf(cmd.OutOrStdout(), "Withdrawing %s ETH to %s\n", units.FormatEther(payout), recipient.Hex())
				res, err := s.Workflow(cmd.Context()).Run(cmd.Context(), workflow.Withdraw(recipient, payout))
				if err != nil {
					return err
				}
				renderResult(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}
}

func newTopUpCommand(o Options) *cobra.Command {
	return &cobra.Command{
		Use:   "topup <amount>",
		Short: "Send funds to the escrow contract",
		Args:  rangeArgs([]string{"amount"}, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount("amount", args[0])
			if err != nil {
				return err
			}

			return o.session(cmd, escrowSource, func(s *Session) error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Topping up escrow with %s ETH\n", units.FormatEther(amount))
				res, err := s.Workflow(cmd.Context()).Run(cmd.Context(), workflow.TopUp(amount))
				if err != nil {
					return err
				}
				renderResult(out, res)

				aum, err := s.Escrow.Aum(cmd.Context())
				if err != nil {
					s.Log.Warn().Err(err).Msg("Could not read AUM after top-up")
					return nil
				}
				fmt.Fprintf(out, "New AUM: %s ETH\n", units.FormatEther(aum))
				return nil
			})
		},
	}
}

func newEscrowInfoCommand(o Options) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show escrow contract state and cached prices",
		Args:  maxArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.session(cmd, escrowSource, func(s *Session) error {
				ctx, out := cmd.Context(), cmd.OutOrStdout()

				fmt.Fprintln(out, "Escrow")
				fmt.Fprintf(out, "  Address:  %s\n", s.Escrow.Address().Hex())
				owner, err := s.Escrow.Owner(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  Owner:    %s\n", owner.Hex())
				fmt.Fprintf(out, "  Oracle:   %s\n", s.Oracle.Address().Hex())
				aum, err := s.Escrow.Aum(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  AUM:      %s ETH\n", units.FormatEther(aum))

				if s.Signer != nil {
					bal, err := s.Chain.Balance(ctx, s.Signer.Address)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "  Wallet:   %s (%s ETH)\n", s.Signer.Address.Hex(), units.FormatEther(bal))
					if owner == s.Signer.Address {
						fmt.Fprintln(out, "  Wallet is the contract owner")
					}
				}

				fmt.Fprintln(out, "Latest prices")
				for _, a := range assets.All() {
					p, err := s.Escrow.LatestPrice(ctx, a.ID)
					if err != nil {
						s.Log.Debug().Err(err).Str("asset", a.Name).Msg("latestPrices read failed")
						fmt.Fprintf(out, "  %d %-5s Unable to fetch price\n", a.ID, a.Name)
						continue
					}
					fmt.Fprintf(out, "  %d %-5s %s\n", a.ID, a.Name, p.String())
				}
				return nil
			})
		},
	}
}
