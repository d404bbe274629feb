package cli

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/LeJamon/goDoomsday/internal/crypto"
	"github.com/spf13/cobra"
)

func newKeysCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Operator signing keys",
	}

	var (
		out  string
		seed string
	)
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a signing key and print its account",
		Long: `Generate a secp256k1 signing key. With --out the hex secret is written to a
new file readable only by the owner; otherwise it is printed. --seed derives
the key deterministically from a passphrase.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				k   *crypto.KeyPair
				raw []byte
				err error
			)
			if seed != "" {
				k, err = crypto.KeyPairFromSeed([]byte(seed))
			} else {
				k, raw, err = crypto.GenerateKeyPair()
				defer crypto.SecureErase(raw)
			}
			if err != nil {
				return err
			}
			defer k.Zero()

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "account:    %s\n", k.AccountID())
			fmt.Fprintf(w, "public key: %s\n", hex.EncodeToString(k.PublicKey()))
			if out == "" {
				fmt.Fprintf(w, "secret:     %s\n", k.PrivateKeyHex())
				return nil
			}
			f, err := os.OpenFile(out, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
			if err != nil {
				return fmt.Errorf("write key: %w", err)
			}
			if _, err := fmt.Fprintln(f, k.PrivateKeyHex()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(w, "secret written to %s\n", out)
			return nil
		},
	}
	generateCmd.Flags().StringVarP(&out, "out", "o", "", "write the secret to this new file")
	generateCmd.Flags().StringVar(&seed, "seed", "", "derive the key from this passphrase")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the account of the configured key",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			k, err := a.key()
			if err != nil {
				return err
			}
			defer k.Zero()
			fmt.Fprintf(a.out, "account:    %s\n", k.AccountID())
			fmt.Fprintf(a.out, "public key: %s\n", hex.EncodeToString(k.PublicKey()))
			return nil
		}),
	}

	cmd.AddCommand(generateCmd, showCmd)
	return cmd
}
