package main

import (
	"fmt"

	"github.com/shakkernerd/solana-send-tx-msg/internal/dispatch"
	"github.com/spf13/cobra"
)

var flagMemos []string

var memoCmd = &cobra.Command{
	Use:   "memo --message <text> [--message <text>...]",
	Short: "Publish memo-only transactions with no recipient",
	Long: `memo dispatches one transaction per message. The transactions carry
no transfer and reference no recipient account; they simply anchor the
messages on-chain under the operator key.`,
	Example: `  sendmsg memo --message "deploy v1.4.2 finished"
  sendmsg memo --message "first" --message "second" --delay 1s`,
	RunE: runMemo,
}

func init() {
	memoCmd.Flags().StringArrayVar(&flagMemos, "message", nil, "memo text, repeatable for multiple transactions")
	_ = memoCmd.MarkFlagRequired("message")
}

func runMemo(cmd *cobra.Command, args []string) error {
	if len(flagMemos) == 0 {
		return fmt.Errorf("no messages given")
	}

	items := make([]dispatch.WorkItem, 0, len(flagMemos))
	for _, msg := range flagMemos {
		items = append(items, dispatch.NewMemoItem(msg))
	}
	return runBatch(cmd.Context(), items)
}
