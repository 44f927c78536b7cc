package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shakkernerd/solana-send-tx-msg/internal/alert"
	"github.com/shakkernerd/solana-send-tx-msg/internal/circuitbreaker"
	"github.com/shakkernerd/solana-send-tx-msg/internal/dispatch"
	"github.com/shakkernerd/solana-send-tx-msg/internal/metrics"
	"github.com/shakkernerd/solana-send-tx-msg/internal/ratelimit"
	"github.com/shakkernerd/solana-send-tx-msg/internal/sender"
	"github.com/shakkernerd/solana-send-tx-msg/internal/wallet"
	"golang.org/x/sync/errgroup"
)

// batchError carries the shell exit code for a finished batch that was not
// fully successful. The outcome itself has already been printed.
type batchError struct {
	status dispatch.BatchStatus
	code   int
}

func (e *batchError) Error() string {
	return fmt.Sprintf("batch finished with status %s", e.status)
}

// runBatch wires the sender stack, dispatches items, prints the outcome and
// translates the batch status into an exit code.
func runBatch(ctx context.Context, items []dispatch.WorkItem) error {
	key, err := wallet.Load(cfg.Wallet.KeypairPath, cfg.Wallet.PrivateKey)
	if err != nil {
		return err
	}

	network := cfg.Solana.Network
	limiter := ratelimit.NewLimiter(cfg.RPC.RPS, cfg.RPC.Burst, network)
	breaker := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.RPC.BreakerFailureThreshold,
		SuccessThreshold: cfg.RPC.BreakerSuccessThreshold,
		OpenTimeout:      cfg.RPC.BreakerOpenTimeout,
		OnStateChange: func(from, to circuitbreaker.State) {
			metrics.BreakerStateChanges.WithLabelValues(network, from.String(), to.String()).Inc()
			logger.Warn("circuit breaker state change", "from", from, "to", to)
		},
	})

	s := sender.New(rpc.New(cfg.Solana.RPCURL), key, sender.Config{
		Network:             network,
		Commitment:          rpc.CommitmentType(cfg.Solana.Commitment),
		NotifyLamports:      cfg.Sender.NotifyLamports,
		SkipConfirm:         cfg.Sender.SkipConfirm,
		SkipPreflight:       cfg.Sender.SkipPreflight,
		ConfirmPollInterval: cfg.Sender.ConfirmPollInterval,
		ConfirmTimeout:      cfg.Sender.ConfirmTimeout,
	}, logger,
		sender.WithLimiter(limiter),
		sender.WithBreaker(breaker),
	)

	logger.Info("operator loaded", "pubkey", s.Operator(), "network", network, "rpc_url", cfg.Solana.RPCURL)

	g, gctx := errgroup.WithContext(ctx)
	serverDone := startMetricsServer(gctx, g, cfg.Server.MetricsPort)

	outcome, runErr := dispatch.New(s, network, logger).Run(ctx, items, dispatch.Policy{
		InterOpDelay:    cfg.Dispatch.InterOpDelay,
		ContinueOnError: cfg.Dispatch.ContinueOnError,
	})

	emitAlert(outcome, runErr)
	serverDone()
	if err := g.Wait(); err != nil {
		logger.Warn("metrics server error", "error", err)
	}

	if runErr != nil && len(outcome.Results) == 0 && outcome.BatchID == "" {
		// Structural failure before any send was attempted.
		return runErr
	}

	if err := renderOutcome(os.Stdout, outcome, runErr, flagJSON); err != nil {
		return err
	}

	status := outcome.Status()
	if runErr != nil {
		status = dispatch.StatusAborted
	}
	if code := exitCodeFor(status); code != exitOK {
		return &batchError{status: status, code: code}
	}
	return nil
}

// startMetricsServer exposes /metrics and /healthz while the batch runs.
// Port 0 disables it. The returned function triggers shutdown.
func startMetricsServer(ctx context.Context, g *errgroup.Group, port int) func() {
	if port <= 0 {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	stop := make(chan struct{})
	g.Go(func() error {
		logger.Info("metrics server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return func() { close(stop) }
}

func emitAlert(outcome dispatch.BatchOutcome, runErr error) {
	alerter := buildAlerter()
	status := outcome.Status()
	if runErr != nil {
		status = dispatch.StatusAborted
	}

	a := alert.Alert{
		Type:    alertTypeFor(status),
		Network: cfg.Solana.Network,
		Title:   "bulk dispatch finished",
		Message: fmt.Sprintf("%d succeeded, %d failed", outcome.Succeeded, outcome.Failed),
		Fields: map[string]string{
			"batch_id":   outcome.BatchID,
			"elapsed_ms": fmt.Sprintf("%d", outcome.ElapsedMS),
		},
	}
	if runErr != nil {
		a.Fields["abort_reason"] = runErr.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := alerter.Send(ctx, a); err != nil {
		logger.Warn("alert delivery failed", "error", err)
	}
}

func buildAlerter() alert.Alerter {
	var channels []alert.Alerter
	if cfg.Alert.SlackWebhookURL != "" {
		channels = append(channels, alert.NewSlackAlerter(cfg.Alert.SlackWebhookURL))
	}
	if cfg.Alert.WebhookURL != "" {
		channels = append(channels, alert.NewWebhookAlerter(cfg.Alert.WebhookURL))
	}
	if len(channels) == 0 {
		return &alert.NoopAlerter{}
	}
	return alert.NewMultiAlerter(cfg.Alert.Cooldown, logger, channels...)
}

func alertTypeFor(status dispatch.BatchStatus) alert.AlertType {
	switch status {
	case dispatch.StatusPartialFailure:
		return alert.AlertTypeBatchPartial
	case dispatch.StatusFailed:
		return alert.AlertTypeBatchFailed
	case dispatch.StatusAborted:
		return alert.AlertTypeBatchAborted
	default:
		return alert.AlertTypeBatchCompleted
	}
}

func exitCodeFor(status dispatch.BatchStatus) int {
	switch status {
	case dispatch.StatusCompleted:
		return exitOK
	case dispatch.StatusPartialFailure:
		return exitPartialFailure
	default:
		return exitFailed
	}
}

// outcomeReport is the JSON shape printed with --json.
type outcomeReport struct {
	dispatch.BatchOutcome
	Status  string `json:"status"`
	Network string `json:"network"`
	Aborted string `json:"abort_reason,omitempty"`
}

func renderOutcome(w io.Writer, outcome dispatch.BatchOutcome, runErr error, asJSON bool) error {
	status := outcome.Status()
	if runErr != nil {
		status = dispatch.StatusAborted
	}

	if asJSON {
		report := outcomeReport{
			BatchOutcome: outcome,
			Status:       status.String(),
			Network:      cfg.Solana.Network,
		}
		if runErr != nil {
			report.Aborted = runErr.Error()
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(w, "batch %s: %s (%d succeeded, %d failed, %dms)\n",
		outcome.BatchID, status, outcome.Succeeded, outcome.Failed, outcome.ElapsedMS)
	for i, r := range outcome.Results {
		if r.Succeeded {
			fmt.Fprintf(w, "  %3d  ok    %-44s  %s\n", i, r.Target, r.ReferenceLink)
		} else {
			fmt.Fprintf(w, "  %3d  FAIL  %-44s  %s\n", i, r.Target, r.ErrDetail)
		}
	}
	if runErr != nil {
		fmt.Fprintf(w, "aborted: %v\n", runErr)
	}
	return nil
}

// splitRecipients flattens repeated --to flags that may each hold a
// comma-separated list.
func splitRecipients(raw []string) []string {
	var out []string
	for _, chunk := range raw {
		for _, addr := range strings.Split(chunk, ",") {
			addr = strings.TrimSpace(addr)
			if addr != "" {
				out = append(out, addr)
			}
		}
	}
	return out
}
