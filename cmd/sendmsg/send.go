package main

import (
	"fmt"

	"github.com/shakkernerd/solana-send-tx-msg/internal/dispatch"
	"github.com/shakkernerd/solana-send-tx-msg/internal/wallet"
	"github.com/spf13/cobra"
)

var (
	flagRecipients []string
	flagMessage    string
)

var sendCmd = &cobra.Command{
	Use:   "send --to <address>[,<address>...] --message <text>",
	Short: "Send a memo transaction to each recipient, in order",
	Long: `send dispatches one transaction per recipient, strictly in the
order given. Each transaction carries the message as a memo; when
NOTIFY_LAMPORTS is non-zero it also transfers that many lamports so the
notification appears as an inbound payment in the recipient's wallet.

A failing recipient stops the batch unless --continue-on-error is set.
Already-sent transactions are never rolled back.`,
	Example: `  sendmsg send --to 9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin --message "gm"
  sendmsg send --to addr1,addr2,addr3 --message "payout processed" --delay 500ms --continue-on-error`,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringSliceVar(&flagRecipients, "to", nil, "recipient address, repeatable or comma-separated")
	sendCmd.Flags().StringVar(&flagMessage, "message", "", "memo text attached to every transaction")
	_ = sendCmd.MarkFlagRequired("to")
	_ = sendCmd.MarkFlagRequired("message")
}

func runSend(cmd *cobra.Command, args []string) error {
	addrs := splitRecipients(flagRecipients)
	if len(addrs) == 0 {
		return fmt.Errorf("no recipients given")
	}

	// Validate every address up front; a malformed list is a structural
	// error, not a per-item failure.
	if _, err := wallet.ParseRecipients(addrs); err != nil {
		return err
	}

	items := make([]dispatch.WorkItem, 0, len(addrs))
	for _, addr := range addrs {
		items = append(items, dispatch.NewTransferItem(addr, flagMessage))
	}
	return runBatch(cmd.Context(), items)
}
