package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-proof-ledger/internal/crypto"
)

var errKeyFileExists = errors.New("key file already exists, use --force to overwrite")

type keygenResult struct {
	KeyFile   string `json:"key_file"`
	PublicKey string `json:"public_key"`
	Sealed    bool   `json:"sealed"`
}

func newKeygenCmd() *cobra.Command {
	var (
		out        string
		passphrase string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a node signing key",
		Example: `  proofctl keygen --out node.key
  proofctl keygen --out node.key --passphrase "$KEY_PASSPHRASE"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(out); err == nil && !force {
				return fmt.Errorf("%w: %s", errKeyFileExists, out)
			}

			seed, err := crypto.GenerateSeed()
			if err != nil {
				return err
			}
			_, pub, err := crypto.KeyPairFromSeed(seed)
			if err != nil {
				return err
			}
			content, err := crypto.EncodeKeyFile(seed, passphrase)
			if err != nil {
				return err
			}
			if err = os.WriteFile(out, []byte(content), 0o600); err != nil {
				return fmt.Errorf("write key file: %w", err)
			}

			return printJSON(cmd, keygenResult{
				KeyFile:   out,
				PublicKey: hex.EncodeToString(pub),
				Sealed:    passphrase != "",
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Key file to write")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Seal the key with this passphrase")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing key file")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
