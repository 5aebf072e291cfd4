package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"allweather/internal/assets"
	"allweather/internal/config"
	"allweather/internal/journal"
	"allweather/internal/logger"
	"allweather/internal/workflow"
)

// Options carries what every command needs. Connect and OpenJournal default to the
// real implementations.
type Options struct {
	Config      *config.Config
	Log         zerolog.Logger
	Connect     ConnectFunc
	OpenJournal func(ctx context.Context, cfg *config.Config) (journal.Store, error)
}

func (o Options) withDefaults() Options {
	if o.Connect == nil {
		o.Connect = Connect
	}
	if o.OpenJournal == nil {
		o.OpenJournal = func(ctx context.Context, cfg *config.Config) (journal.Store, error) {
			return journal.Open(ctx, cfg.Journal.DSN, cfg.Journal.Path)
		}
	}
	return o
}

// session connects and hands the session to fn, closing it afterwards.
func (o Options) session(cmd *cobra.Command, source string, fn func(*Session) error) error {
	s, err := o.Connect(cmd.Context(), o.Config, o.Log, source)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// Run loads configuration, builds the command tree and executes it with a
// signal-aware context.
func Run(build func(Options) *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.Pretty})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := build(Options{Config: cfg, Log: log})
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRoot(use, short string, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:           use,
		Short:         short,
		Long:          short + "\n\n" + configSummary(use, cfg),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configSummary(source string, cfg *config.Config) string {
	var b strings.Builder
	b.WriteString("Assets:\n")
	for _, a := range assets.All() {
		fmt.Fprintf(&b, "  %d  %-5s %s\n", a.ID, a.Name, a.Description)
	}
	b.WriteString("\nConfiguration:\n")
	fmt.Fprintf(&b, "  RPC URL:  %s\n", cfg.Chain.RPCURL)
	fmt.Fprintf(&b, "  Escrow:   %s\n", cfg.Chain.EscrowAddress.Hex())
	oracle := oracleAddress(source, cfg).Hex()
	if source == escrowSource && cfg.Chain.OracleAddress == (common.Address{}) {
		oracle = "resolved from escrow PRICE_ORACLE()"
	}
	fmt.Fprintf(&b, "  Oracle:   %s\n", oracle)
	fmt.Fprintf(&b, "  Hermes:   %s\n", cfg.Hermes.BaseURL)
	wallet := "not configured (set PRIVATE_KEY to send transactions)"
	if cfg.CanSign() {
		wallet = "configured"
	}
	fmt.Fprintf(&b, "  Wallet:   %s\n", wallet)
	return b.String()
}

func newHistoryCommand(o Options, source string) *cobra.Command {
	return &cobra.Command{
		Use:   "history [limit]",
		Short: "Show the most recent journaled transactions",
		Args:  maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit := 10
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return workflow.Invalid("limit %q must be a positive integer", args[0])
				}
				limit = n
			}
			store, err := o.OpenJournal(cmd.Context(), o.Config)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), source, limit)
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func renderHistory(w io.Writer, entries []journal.Entry) {
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-8s %-9s", e.RecordedAt.Format("2006-01-02 15:04:05"), e.Operation, e.Status)
		if e.TxHash != "" {
			line += "  " + e.TxHash
		}
		if e.Error != "" {
			line += "  " + e.Error
		}
		fmt.Fprintln(w, line)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No journaled transactions.")
	}
}
