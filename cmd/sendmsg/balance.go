package main

import (
	"fmt"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shakkernerd/solana-send-tx-msg/internal/ratelimit"
	"github.com/shakkernerd/solana-send-tx-msg/internal/sender"
	"github.com/shakkernerd/solana-send-tx-msg/internal/wallet"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the operator account balance",
	RunE:  runBalance,
}

func runBalance(cmd *cobra.Command, args []string) error {
	key, err := wallet.Load(cfg.Wallet.KeypairPath, cfg.Wallet.PrivateKey)
	if err != nil {
		return err
	}

	s := sender.New(rpc.New(cfg.Solana.RPCURL), key, sender.Config{
		Network:    cfg.Solana.Network,
		Commitment: rpc.CommitmentType(cfg.Solana.Commitment),
	}, logger,
		sender.WithLimiter(ratelimit.NewLimiter(cfg.RPC.RPS, cfg.RPC.Burst, cfg.Solana.Network)),
	)

	lamports, err := s.OperatorBalance(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d lamports (%.9f SOL)\n", s.Operator(), lamports, float64(lamports)/1e9)
	return nil
}
