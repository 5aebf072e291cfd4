package cli

import (
	"fmt"
	"io"
	"math/big"
	"text/tabwriter"
	"time"

	"allweather/internal/assets"
	"allweather/internal/chain"
	"allweather/internal/contracts"
	"allweather/internal/units"
	"allweather/internal/workflow"
)

func renderResult(w io.Writer, res *workflow.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Transaction confirmed")
	fmt.Fprintf(tw, "  Hash:\t%s\n", res.TxHash.Hex())
	fmt.Fprintf(tw, "  Block:\t%d\n", res.BlockNumber)
	fmt.Fprintf(tw, "  Gas used:\t%d / %d\n", res.GasUsed, res.GasLimit)
	if res.GasPrice != nil {
		fmt.Fprintf(tw, "  Gas price:\t%s gwei\n", units.FormatGwei(res.GasPrice))
	}
	fmt.Fprintf(tw, "  Value:\t%s ETH\n", units.FormatEther(res.Value))
	if res.Updates > 0 {
		fmt.Fprintf(tw, "  Update fee:\t%s ETH (%d updates)\n", units.FormatEther(res.Fee), res.Updates)
	}
	if res.EstimateErr != nil {
		fmt.Fprintf(tw, "  Note:\tgas estimation failed, fallback limit used\n")
	}
	tw.Flush()

	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	if res.Event != nil {
		renderEvent(w, res.Event)
	} else if k, ok := res.Op.ExpectedEvent(); ok {
		fmt.Fprintf(w, "No %s event found in receipt; the transaction succeeded without details.\n", k)
	}
}

func renderEvent(w io.Writer, ev contracts.Event) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "%s\n", ev.Kind())
	switch e := ev.(type) {
	case *contracts.BuyRequested:
		fmt.Fprintf(tw, "  User:\t%s\n", e.User.Hex())
		fmt.Fprintf(tw, "  Amount:\t%s ETH\n", units.FormatEther(e.AmountHbar))
		renderEventPrices(tw, e.Prices)
		fmt.Fprintf(tw, "  Weights:\t%s\n", eventWeights(e.Weights))
	case *contracts.SellRequested:
		fmt.Fprintf(tw, "  User:\t%s\n", e.User.Hex())
		fmt.Fprintf(tw, "  Amount:\t%s ETH\n", units.FormatEther(e.AmountHbar))
		renderEventPrices(tw, e.Prices)
	case *contracts.WithdrawExecuted:
		fmt.Fprintf(tw, "  User:\t%s\n", e.User.Hex())
		fmt.Fprintf(tw, "  Payout:\t%s ETH\n", units.FormatEther(e.PayoutHbar))
	case *contracts.PriceUpdateFailed:
		fmt.Fprintf(tw, "  Reason:\t%s\n", e.Reason)
	}
}

func renderEventPrices(w io.Writer, prices [4]*big.Int) {
	for _, a := range assets.All() {
		fmt.Fprintf(w, "  %s price:\t%s\n", a.Name, bigString(prices[a.ID]))
	}
}

func eventWeights(w [3]*big.Int) string {
	var weights assets.Weights
	for i, v := range w {
		if v != nil && v.IsUint64() {
			weights[i] = v.Uint64()
		}
	}
	return weights.String()
}

func renderPrices(w io.Writer, title string, prices [assets.Count]assets.Price) {
	fmt.Fprintln(w, title)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  #\tAsset\tPrice\tConfidence\tPublished")
	for _, a := range assets.All() {
		p := prices[a.ID]
		fmt.Fprintf(tw, "  %d\t%s\t%s\t±%s\t%s\n", a.ID, a.Name, p.Value(), p.Confidence(), p.Published().Format(time.RFC3339))
	}
	tw.Flush()
}

func renderAssetPrice(w io.Writer, a assets.Asset, p assets.Price) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()
	fmt.Fprintf(tw, "%s (%s)\n", a.Name, a.Description)
	fmt.Fprintf(tw, "  Price:\t%s\n", p.Value())
	fmt.Fprintf(tw, "  Confidence:\t±%s\n", p.Confidence())
	fmt.Fprintf(tw, "  Exponent:\t%d\n", p.Expo)
	fmt.Fprintf(tw, "  Published:\t%s\n", p.Published().Format(time.RFC3339))
	fmt.Fprintf(tw, "  Feed:\t%s\n", a.Feed.Hex())
}

func renderNetwork(w io.Writer, info chain.NetworkInfo, rate chain.FeeRate) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()
	fmt.Fprintln(tw, "Network")
	fmt.Fprintf(tw, "  Chain ID:\t%s\n", bigString(info.ChainID))
	fmt.Fprintf(tw, "  Latest block:\t%d\n", info.BlockNumber)
	fmt.Fprintf(tw, "  Block gas:\t%d / %d (%.2f%%)\n", info.GasUsed, info.GasLimit, info.Utilisation())
	fmt.Fprintf(tw, "  Gas price:\t%s gwei\n", units.FormatGwei(rate.GasPrice))
	if rate.SupportsEIP1559() {
		fmt.Fprintf(tw, "  Base fee:\t%s gwei\n", units.FormatGwei(rate.BaseFee))
		fmt.Fprintf(tw, "  Max fee:\t%s gwei\n", units.FormatGwei(rate.MaxFeePerGas))
		fmt.Fprintf(tw, "  Priority fee:\t%s gwei\n", units.FormatGwei(rate.MaxPriorityFeePerGas))
	}
}

func renderFeeQuote(w io.Writer, q workflow.FeeQuote) {
	fmt.Fprintf(w, "Update fee: %s ETH (%s wei)\n", units.FormatEther(q.Raw), bigString(q.Raw))
	if q.Clamped() {
		fmt.Fprintf(w, "Attached:   %s ETH (raised to the minimum transfer value)\n", units.FormatEther(q.Attached))
	}
	fmt.Fprintf(w, "Price updates: %d covering %d feeds\n", q.Updates, assets.Count)
}

func bigString(v *big.Int) string {
	if v == nil {
		return "n/a"
	}
	return v.String()
}
