package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ochairo/wheelwright/internal/domain-adapters/gateways"
)

func newVerifyCmd() *cobra.Command {
	var keyFiles []string

	cmd := &cobra.Command{
		Use:   "verify <wheel>",
		Short: "Verify a wheel against its .sha256 and .asc sidecars",
		Long: `Verify checks <wheel>.sha256. When --key is given, the detached
signature <wheel>.asc is checked against those public keys as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wheel := args[0]
			out := cmd.OutOrStdout()

			if err := gateways.NewChecksumVerifier().VerifySidecar(cmd.Context(), wheel); err != nil {
				return err
			}
			fmt.Fprintln(out, "Checksum: OK")

			if len(keyFiles) == 0 {
				return nil
			}
			verifier, err := gateways.NewSignatureVerifier(keyFiles...)
			if err != nil {
				return err
			}
			if err := verifier.VerifyWheel(wheel); err != nil {
				return err
			}
			fmt.Fprintln(out, "Signature: OK")
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&keyFiles, "key", nil, "public key file to verify the signature with (repeatable)")
	return cmd
}
