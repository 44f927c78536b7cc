package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"SOLANA_RPC_URL", "SOLANA_NETWORK", "SOLANA_COMMITMENT",
		"KEYPAIR_PATH", "WALLET_PRIVATE_KEY",
		"SEND_DELAY_MS", "CONTINUE_ON_ERROR",
		"NOTIFY_LAMPORTS", "SKIP_CONFIRM", "SKIP_PREFLIGHT",
		"CONFIRM_POLL_MS", "CONFIRM_TIMEOUT_SEC",
		"RPC_RPS", "RPC_BURST", "RPC_BREAKER_FAILURES",
		"RPC_BREAKER_SUCCESSES", "RPC_BREAKER_OPEN_SEC",
		"METRICS_PORT",
		"ALERT_SLACK_WEBHOOK_URL", "ALERT_WEBHOOK_URL", "ALERT_COOLDOWN_SEC",
		"TRACING_ENABLED", "TRACING_ENDPOINT", "TRACING_INSECURE",
		"LOG_LEVEL",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.devnet.solana.com", cfg.Solana.RPCURL)
	assert.Equal(t, "devnet", cfg.Solana.Network)
	assert.Equal(t, "confirmed", cfg.Solana.Commitment)
	assert.Equal(t, time.Duration(0), cfg.Dispatch.InterOpDelay)
	assert.False(t, cfg.Dispatch.ContinueOnError)
	assert.Equal(t, uint64(5000), cfg.Sender.NotifyLamports)
	assert.Equal(t, 500*time.Millisecond, cfg.Sender.ConfirmPollInterval)
	assert.Equal(t, time.Minute, cfg.Sender.ConfirmTimeout)
	assert.Equal(t, float64(10), cfg.RPC.RPS)
	assert.Equal(t, 5, cfg.RPC.Burst)
	assert.Equal(t, 0, cfg.Server.MetricsPort)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Contains(t, cfg.Wallet.KeypairPath, ".config/solana/id.json")
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOLANA_RPC_URL", "http://localhost:8899")
	t.Setenv("SOLANA_NETWORK", "mainnet")
	t.Setenv("SOLANA_COMMITMENT", "finalized")
	t.Setenv("SEND_DELAY_MS", "250")
	t.Setenv("CONTINUE_ON_ERROR", "true")
	t.Setenv("NOTIFY_LAMPORTS", "1")
	t.Setenv("RPC_RPS", "2.5")
	t.Setenv("METRICS_PORT", "9102")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8899", cfg.Solana.RPCURL)
	assert.Equal(t, "mainnet", cfg.Solana.Network)
	assert.Equal(t, "finalized", cfg.Solana.Commitment)
	assert.Equal(t, 250*time.Millisecond, cfg.Dispatch.InterOpDelay)
	assert.True(t, cfg.Dispatch.ContinueOnError)
	assert.Equal(t, uint64(1), cfg.Sender.NotifyLamports)
	assert.Equal(t, 2.5, cfg.RPC.RPS)
	assert.Equal(t, 9102, cfg.Server.MetricsPort)
}

func TestLoad_InvalidCommitment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOLANA_COMMITMENT", "hopeful")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SOLANA_COMMITMENT")
}

func TestLoad_NegativeDelayRejected(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEND_DELAY_MS", "-5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEND_DELAY_MS")
}

func TestLoad_MalformedIntFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIRM_POLL_MS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.Sender.ConfirmPollInterval)
}
