package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shakkernerd/solana-send-tx-msg/internal/config"
	"github.com/shakkernerd/solana-send-tx-msg/internal/tracing"
	"github.com/spf13/cobra"
)

// Exit codes surfaced to shell callers.
const (
	exitOK             = 0
	exitStructural     = 1
	exitPartialFailure = 2
	exitFailed         = 3
)

var (
	cfg    *config.Config
	logger *slog.Logger

	shutdownTracing func(context.Context) error

	// Global flags. Environment variables provide the defaults; a flag set
	// on the command line wins.
	flagRPCURL          string
	flagNetwork         string
	flagKeypair         string
	flagDelay           time.Duration
	flagContinueOnError bool
	flagSkipConfirm     bool
	flagJSON            bool
	flagLogLevel        string
)

var rootCmd = &cobra.Command{
	Use:   "sendmsg",
	Short: "Bulk-send Solana memo transactions",
	Long: `sendmsg dispatches memo transactions on Solana, one per target,
strictly in order. Each recipient gets its own transaction carrying the
message as a memo instruction, optionally alongside a small lamport
transfer so the notification shows up as an inbound payment.

Configuration comes from environment variables (SOLANA_RPC_URL,
KEYPAIR_PATH, SEND_DELAY_MS, ...); flags override them per invocation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd)

		logger = newLogger(cfg.Log.Level)
		slog.SetDefault(logger)

		if cfg.Tracing.Enabled {
			shutdownTracing, err = tracing.Init(cmd.Context(), "sendmsg", cfg.Tracing.Endpoint, cfg.Tracing.Insecure)
			if err != nil {
				return fmt.Errorf("init tracing: %w", err)
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if shutdownTracing != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				logger.Warn("tracing shutdown failed", "error", err)
			}
		}
	},
}

func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("rpc-url") {
		cfg.Solana.RPCURL = flagRPCURL
	}
	if flags.Changed("network") {
		cfg.Solana.Network = flagNetwork
	}
	if flags.Changed("keypair") {
		cfg.Wallet.KeypairPath = flagKeypair
	}
	if flags.Changed("delay") {
		cfg.Dispatch.InterOpDelay = flagDelay
	}
	if flags.Changed("continue-on-error") {
		cfg.Dispatch.ContinueOnError = flagContinueOnError
	}
	if flags.Changed("skip-confirm") {
		cfg.Sender.SkipConfirm = flagSkipConfirm
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagRPCURL, "rpc-url", "", "Solana RPC endpoint (overrides SOLANA_RPC_URL)")
	pf.StringVar(&flagNetwork, "network", "", "cluster name for logs and explorer links (overrides SOLANA_NETWORK)")
	pf.StringVar(&flagKeypair, "keypair", "", "path to a solana-keygen JSON file (overrides KEYPAIR_PATH)")
	pf.DurationVar(&flagDelay, "delay", 0, "pause between consecutive sends (overrides SEND_DELAY_MS)")
	pf.BoolVar(&flagContinueOnError, "continue-on-error", false, "keep sending after a per-item failure (overrides CONTINUE_ON_ERROR)")
	pf.BoolVar(&flagSkipConfirm, "skip-confirm", false, "return after submission without waiting for commitment (overrides SKIP_CONFIRM)")
	pf.BoolVar(&flagJSON, "json", false, "print the batch outcome as JSON on stdout")
	pf.StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(memoCmd)
	rootCmd.AddCommand(balanceCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var be *batchError
		if errors.As(err, &be) {
			os.Exit(be.code)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitStructural)
	}
}
