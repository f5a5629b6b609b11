package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cobbinma/portfolio/internal/auth"
)

func hashSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-secret SECRET",
		Short: "Print a bcrypt hash for preview.secret_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.NewSecretVerifier("").Hash(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
