package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	sealbox "github.com/sealbox/client-go"
	"github.com/sealbox/client-go/internal/crypto"
)

type keygenOutput struct {
	PublicKey   string `json:"publicKey"`
	SecretKey   string `json:"secretKey"`
	Fingerprint string `json:"fingerprint"`
}

func newKeygenCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key pair without storing it",
		Long: `Generates a fresh X25519 key pair and prints both halves as base64.
Nothing is written to the key store or the directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := sealbox.GenerateKeyPair()
			if err != nil {
				return err
			}

			out := keygenOutput{
				PublicKey:   crypto.ToBase64(kp.PublicKey),
				SecretKey:   crypto.ToBase64(kp.SecretKey),
				Fingerprint: kp.Fingerprint(),
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			fmt.Fprintf(w, "Public key:  %s\n", out.PublicKey)
			fmt.Fprintf(w, "Secret key:  %s\n", out.SecretKey)
			fmt.Fprintf(w, "Fingerprint: %s\n", out.Fingerprint)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the key pair as JSON")
	return cmd
}
