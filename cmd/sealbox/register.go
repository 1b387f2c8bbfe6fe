package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRegisterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register <identity>",
		Short: "Create, store and publish a key pair for an identity",
		Long: `Generates a key pair for the identity, stores the secret key in the
local key store and publishes the public key to the directory.

Registering an identity again replaces its stored secret key.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identity := args[0]

			client, err := a.client()
			if err != nil {
				return err
			}

			stop := startSpinner(a.streams.Stderr, "Publishing public key...", a.quiet())
			kp, err := client.Register(cmd.Context(), identity)
			stop()
			if err != nil {
				return fmt.Errorf("register %s: %w", identity, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				successText.Sprint("✓ Registered"),
				identityText.Sprint(identity))
			fmt.Fprintf(cmd.OutOrStdout(), "  fingerprint %s\n", kp.Fingerprint())
			return nil
		},
	}
}
