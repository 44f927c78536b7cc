package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Solana   SolanaConfig
	Wallet   WalletConfig
	Dispatch DispatchConfig
	Sender   SenderConfig
	RPC      RPCConfig
	Server   ServerConfig
	Alert    AlertConfig
	Tracing  TracingConfig
	Log      LogConfig
}

type SolanaConfig struct {
	RPCURL     string
	Network    string
	Commitment string
}

type WalletConfig struct {
	KeypairPath string
	// PrivateKey is a base58-encoded private key. When set it takes
	// precedence over KeypairPath.
	PrivateKey string
}

type DispatchConfig struct {
	InterOpDelay    time.Duration
	ContinueOnError bool
}

type SenderConfig struct {
	NotifyLamports      uint64
	SkipConfirm         bool
	SkipPreflight       bool
	ConfirmPollInterval time.Duration
	ConfirmTimeout      time.Duration
}

type RPCConfig struct {
	RPS                     float64
	Burst                   int
	BreakerFailureThreshold int
	BreakerSuccessThreshold int
	BreakerOpenTimeout      time.Duration
}

type ServerConfig struct {
	// MetricsPort exposes /metrics and /healthz while a batch runs.
	// 0 disables the server.
	MetricsPort int
}

type AlertConfig struct {
	SlackWebhookURL string
	WebhookURL      string
	Cooldown        time.Duration
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
	Insecure bool
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Solana: SolanaConfig{
			RPCURL:     getEnv("SOLANA_RPC_URL", "https://api.devnet.solana.com"),
			Network:    getEnv("SOLANA_NETWORK", "devnet"),
			Commitment: getEnv("SOLANA_COMMITMENT", "confirmed"),
		},
		Wallet: WalletConfig{
			KeypairPath: getEnv("KEYPAIR_PATH", defaultKeypairPath()),
			PrivateKey:  getEnv("WALLET_PRIVATE_KEY", ""),
		},
		Dispatch: DispatchConfig{
			InterOpDelay:    time.Duration(getEnvInt("SEND_DELAY_MS", 0)) * time.Millisecond,
			ContinueOnError: getEnvBool("CONTINUE_ON_ERROR", false),
		},
		Sender: SenderConfig{
			NotifyLamports:      uint64(getEnvInt("NOTIFY_LAMPORTS", 5000)),
			SkipConfirm:         getEnvBool("SKIP_CONFIRM", false),
			SkipPreflight:       getEnvBool("SKIP_PREFLIGHT", false),
			ConfirmPollInterval: time.Duration(getEnvInt("CONFIRM_POLL_MS", 500)) * time.Millisecond,
			ConfirmTimeout:      time.Duration(getEnvInt("CONFIRM_TIMEOUT_SEC", 60)) * time.Second,
		},
		RPC: RPCConfig{
			RPS:                     getEnvFloat("RPC_RPS", 10),
			Burst:                   getEnvInt("RPC_BURST", 5),
			BreakerFailureThreshold: getEnvInt("RPC_BREAKER_FAILURES", 5),
			BreakerSuccessThreshold: getEnvInt("RPC_BREAKER_SUCCESSES", 2),
			BreakerOpenTimeout:      time.Duration(getEnvInt("RPC_BREAKER_OPEN_SEC", 30)) * time.Second,
		},
		Server: ServerConfig{
			MetricsPort: getEnvInt("METRICS_PORT", 0),
		},
		Alert: AlertConfig{
			SlackWebhookURL: getEnv("ALERT_SLACK_WEBHOOK_URL", ""),
			WebhookURL:      getEnv("ALERT_WEBHOOK_URL", ""),
			Cooldown:        time.Duration(getEnvInt("ALERT_COOLDOWN_SEC", 0)) * time.Second,
		},
		Tracing: TracingConfig{
			Enabled:  getEnvBool("TRACING_ENABLED", false),
			Endpoint: getEnv("TRACING_ENDPOINT", ""),
			Insecure: getEnvBool("TRACING_INSECURE", true),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Solana.RPCURL == "" {
		return fmt.Errorf("SOLANA_RPC_URL is required")
	}
	switch c.Solana.Commitment {
	case "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("SOLANA_COMMITMENT must be processed, confirmed or finalized, got %q", c.Solana.Commitment)
	}
	if c.Dispatch.InterOpDelay < 0 {
		return fmt.Errorf("SEND_DELAY_MS must not be negative")
	}
	if c.RPC.RPS <= 0 {
		return fmt.Errorf("RPC_RPS must be positive")
	}
	if c.RPC.Burst <= 0 {
		return fmt.Errorf("RPC_BURST must be positive")
	}
	if c.Sender.ConfirmPollInterval <= 0 {
		return fmt.Errorf("CONFIRM_POLL_MS must be positive")
	}
	if c.Sender.ConfirmTimeout <= 0 {
		return fmt.Errorf("CONFIRM_TIMEOUT_SEC must be positive")
	}
	return nil
}

func defaultKeypairPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.config/solana/id.json"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
