package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

const maxInput = 16 << 20

var errEmptyInput = errors.New("no input on stdin")

func newEncryptCmd(a *app) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "encrypt --from <identity> --to <peer>",
		Short: "Seal a JSON payload read from stdin",
		Long: `Reads one JSON value from stdin and seals it from the local identity
to the peer's published public key. Prints the encoded message.`,
		Example: `  echo '{"text":"hello"}' | sealbox encrypt --from alice --to bob`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if !json.Valid(input) {
				return fmt.Errorf("stdin is not valid JSON")
			}

			client, err := a.client()
			if err != nil {
				return err
			}

			msg, err := client.EncryptFor(cmd.Context(), from, to, json.RawMessage(input))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "local identity sealing the message")
	cmd.Flags().StringVar(&to, "to", "", "peer identity the message is for")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newDecryptCmd(a *app) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "decrypt --to <identity> --from <peer>",
		Short: "Open an encoded message read from stdin",
		Long: `Reads an encoded message from stdin, opens it with the local identity's
secret key and the sender's published public key, and prints the JSON payload.`,
		Example: `  sealbox decrypt --to bob --from alice < message.txt`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd.InOrStdin())
			if err != nil {
				return err
			}

			client, err := a.client()
			if err != nil {
				return err
			}

			payload, err := client.DecryptFrom(cmd.Context(), to, from, strings.TrimSpace(string(input)))
			if err != nil {
				return err
			}

			var out bytes.Buffer
			if err := json.Indent(&out, payload, "", "  "); err != nil {
				return err
			}
			out.WriteByte('\n')
			_, err = out.WriteTo(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "local identity the message was sealed for")
	cmd.Flags().StringVar(&from, "from", "", "peer identity that sealed the message")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func readInput(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxInput))
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errEmptyInput
	}
	return data, nil
}
