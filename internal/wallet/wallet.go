package wallet

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Load resolves the operator keypair. A non-empty base58 private key wins
// over the keygen file path.
func Load(keypairPath, privateKeyBase58 string) (solana.PrivateKey, error) {
	if privateKeyBase58 != "" {
		key, err := solana.PrivateKeyFromBase58(privateKeyBase58)
		if err != nil {
			return nil, fmt.Errorf("decode private key: %w", err)
		}
		return key, nil
	}
	if keypairPath == "" {
		return nil, fmt.Errorf("no keypair configured: set KEYPAIR_PATH or WALLET_PRIVATE_KEY")
	}
	key, err := solana.PrivateKeyFromSolanaKeygenFile(keypairPath)
	if err != nil {
		return nil, fmt.Errorf("load keypair %s: %w", keypairPath, err)
	}
	return key, nil
}

// ParseRecipients parses base58 addresses, reporting the position of the
// first malformed one.
func ParseRecipients(raw []string) ([]solana.PublicKey, error) {
	recipients := make([]solana.PublicKey, 0, len(raw))
	for i, addr := range raw {
		pk, err := solana.PublicKeyFromBase58(addr)
		if err != nil {
			return nil, fmt.Errorf("recipient %d (%q): %w", i, addr, err)
		}
		recipients = append(recipients, pk)
	}
	return recipients, nil
}
