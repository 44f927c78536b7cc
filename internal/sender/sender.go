package sender

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shakkernerd/solana-send-tx-msg/internal/circuitbreaker"
	"github.com/shakkernerd/solana-send-tx-msg/internal/dispatch"
	"github.com/shakkernerd/solana-send-tx-msg/internal/metrics"
	"github.com/shakkernerd/solana-send-tx-msg/internal/ratelimit"
	"github.com/shakkernerd/solana-send-tx-msg/internal/retry"
	"github.com/shakkernerd/solana-send-tx-msg/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// Memo v2 program.
var memoProgramID = solana.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")

const (
	defaultConfirmPollInterval = 500 * time.Millisecond
	defaultConfirmTimeout      = time.Minute
)

// Config controls how a MemoSender builds and confirms transactions.
type Config struct {
	Network    string
	Commitment rpc.CommitmentType
	// NotifyLamports is transferred alongside the memo when the work item
	// has a recipient. With 0 lamports the recipient is attached to the
	// memo instruction as a reference account instead, so the notification
	// still shows up in the recipient's transaction history.
	NotifyLamports      uint64
	SkipConfirm         bool
	SkipPreflight       bool
	ConfirmPollInterval time.Duration
	ConfirmTimeout      time.Duration
}

// Option customizes a MemoSender.
type Option func(*MemoSender)

// WithLimiter paces every RPC call through l.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(s *MemoSender) { s.limiter = l }
}

// WithBreaker guards sends with b; an open circuit fails the item fast.
func WithBreaker(b *circuitbreaker.Breaker) Option {
	return func(s *MemoSender) { s.breaker = b }
}

// MemoSender performs one blockhash-sign-submit-confirm cycle per work item
// against a Solana RPC node. Calls are independent; one MemoSender serves a
// whole batch.
type MemoSender struct {
	rpc     LedgerRPC
	key     solana.PrivateKey
	cfg     Config
	limiter *ratelimit.Limiter
	breaker *circuitbreaker.Breaker
	logger  *slog.Logger
}

var _ dispatch.Sender = (*MemoSender)(nil)

func New(client LedgerRPC, key solana.PrivateKey, cfg Config, logger *slog.Logger, opts ...Option) *MemoSender {
	if cfg.Commitment == "" {
		cfg.Commitment = rpc.CommitmentConfirmed
	}
	if cfg.ConfirmPollInterval <= 0 {
		cfg.ConfirmPollInterval = defaultConfirmPollInterval
	}
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = defaultConfirmTimeout
	}
	s := &MemoSender{
		rpc:    client,
		key:    key,
		cfg:    cfg,
		logger: logger.With("component", "sender", "network", cfg.Network),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromEndpoint constructs a MemoSender bound to a real RPC endpoint.
func NewFromEndpoint(endpoint string, key solana.PrivateKey, cfg Config, logger *slog.Logger, opts ...Option) *MemoSender {
	return New(rpc.New(endpoint), key, cfg, logger, opts...)
}

// Send submits one memo (and optional transfer) transaction and waits for
// the configured commitment level.
func (s *MemoSender) Send(ctx context.Context, item dispatch.WorkItem) (dispatch.SendReceipt, error) {
	ctx, span := tracing.Tracer("sender").Start(ctx, "sender.Send")
	span.SetAttributes(
		attribute.String("send.target", item.Target()),
		attribute.Int("send.memo_bytes", len(item.Message())),
	)
	defer span.End()

	start := time.Now()
	if s.breaker != nil {
		if err := s.breaker.Allow(); err != nil {
			metrics.SenderSendDuration.WithLabelValues(s.cfg.Network, "failure").Observe(time.Since(start).Seconds())
			return dispatch.SendReceipt{}, err
		}
	}

	receipt, err := s.send(ctx, item)

	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.SenderSendDuration.WithLabelValues(s.cfg.Network, status).Observe(time.Since(start).Seconds())

	if s.breaker != nil {
		if err != nil {
			s.breaker.RecordFailure()
		} else {
			s.breaker.RecordSuccess()
		}
	}
	return receipt, err
}

func (s *MemoSender) send(ctx context.Context, item dispatch.WorkItem) (dispatch.SendReceipt, error) {
	if err := s.wait(ctx); err != nil {
		return dispatch.SendReceipt{}, err
	}
	blockhash, err := s.rpc.GetLatestBlockhash(ctx, s.cfg.Commitment)
	ratelimit.RecordRPCCall(s.cfg.Network, "getLatestBlockhash", err)
	if err != nil {
		return dispatch.SendReceipt{}, fmt.Errorf("fetch blockhash: %w", err)
	}

	tx, err := s.buildTransaction(item, blockhash.Value.Blockhash)
	if err != nil {
		return dispatch.SendReceipt{}, err
	}

	if err := s.wait(ctx); err != nil {
		return dispatch.SendReceipt{}, err
	}
	sig, err := s.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       s.cfg.SkipPreflight,
		PreflightCommitment: s.cfg.Commitment,
	})
	ratelimit.RecordRPCCall(s.cfg.Network, "sendTransaction", err)
	if err != nil {
		return dispatch.SendReceipt{}, fmt.Errorf("submit transaction: %w", err)
	}

	s.logger.Debug("transaction submitted", "target", item.Target(), "signature", sig)

	if !s.cfg.SkipConfirm {
		if err := s.confirm(ctx, sig); err != nil {
			return dispatch.SendReceipt{}, fmt.Errorf("confirm %s: %w", sig, err)
		}
	}

	return dispatch.SendReceipt{
		Signature:     sig.String(),
		ReferenceLink: s.referenceLink(sig),
	}, nil
}

// buildTransaction assembles the memo instruction, an optional lamport
// transfer, and signs with the operator key.
func (s *MemoSender) buildTransaction(item dispatch.WorkItem, blockhash solana.Hash) (*solana.Transaction, error) {
	payer := s.key.PublicKey()
	memoAccounts := solana.AccountMetaSlice{solana.NewAccountMeta(payer, false, true)}

	var instructions []solana.Instruction
	if recipient, ok := item.Recipient(); ok {
		to, err := solana.PublicKeyFromBase58(recipient)
		if err != nil {
			return nil, retry.Terminal(fmt.Errorf("parse recipient %q: %w", recipient, err))
		}
		if s.cfg.NotifyLamports > 0 {
			instructions = append(instructions, system.NewTransferInstruction(s.cfg.NotifyLamports, payer, to).Build())
		} else {
			memoAccounts = append(memoAccounts, solana.NewAccountMeta(to, false, false))
		}
	}
	instructions = append(instructions, solana.NewInstruction(memoProgramID, memoAccounts, []byte(item.Message())))

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return nil, fmt.Errorf("build transaction: %w", err)
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payer) {
			return &s.key
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return tx, nil
}

// confirm polls signature statuses until the requested commitment is
// reached or the confirmation window expires.
func (s *MemoSender) confirm(ctx context.Context, sig solana.Signature) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ConfirmTimeout)
	defer cancel()

	ticker := time.NewTicker(s.cfg.ConfirmPollInterval)
	defer ticker.Stop()

	for {
		if err := s.wait(ctx); err != nil {
			return err
		}
		metrics.SenderConfirmPolls.WithLabelValues(s.cfg.Network).Inc()
		out, err := s.rpc.GetSignatureStatuses(ctx, true, sig)
		ratelimit.RecordRPCCall(s.cfg.Network, "getSignatureStatuses", err)
		switch {
		case err != nil:
			// Poll errors are transient until the window closes.
			s.logger.Debug("status poll failed", "signature", sig, "error", err)
		case len(out.Value) > 0 && out.Value[0] != nil:
			st := out.Value[0]
			if st.Err != nil {
				return retry.Terminal(fmt.Errorf("transaction failed on-chain: %v", st.Err))
			}
			if commitmentReached(st.ConfirmationStatus, s.cfg.Commitment) {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("commitment %s not reached: %w", s.cfg.Commitment, ctx.Err())
		case <-ticker.C:
		}
	}
}

// OperatorBalance returns the operator account balance in lamports.
func (s *MemoSender) OperatorBalance(ctx context.Context) (uint64, error) {
	if err := s.wait(ctx); err != nil {
		return 0, err
	}
	out, err := s.rpc.GetBalance(ctx, s.key.PublicKey(), s.cfg.Commitment)
	ratelimit.RecordRPCCall(s.cfg.Network, "getBalance", err)
	if err != nil {
		return 0, fmt.Errorf("fetch balance: %w", err)
	}
	return out.Value, nil
}

// Operator returns the operator public key.
func (s *MemoSender) Operator() solana.PublicKey {
	return s.key.PublicKey()
}

func (s *MemoSender) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}

var commitmentRank = map[rpc.ConfirmationStatusType]int{
	rpc.ConfirmationStatusProcessed: 0,
	rpc.ConfirmationStatusConfirmed: 1,
	rpc.ConfirmationStatusFinalized: 2,
}

func commitmentReached(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	got, ok := commitmentRank[status]
	if !ok {
		return false
	}
	wanted, ok := commitmentRank[rpc.ConfirmationStatusType(want)]
	if !ok {
		return false
	}
	return got >= wanted
}

func (s *MemoSender) referenceLink(sig solana.Signature) string {
	link := "https://explorer.solana.com/tx/" + sig.String()
	switch s.cfg.Network {
	case "", "mainnet", "mainnet-beta":
		return link
	default:
		return link + "?cluster=" + s.cfg.Network
	}
}
