package cli

import (
	"github.com/spf13/cobra"

	"github.com/cobbinma/portfolio/internal/auth"
	"github.com/cobbinma/portfolio/internal/server"
)

func serveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, set, err := a.openService()
			if err != nil {
				return err
			}

			deps := server.Deps{Portfolio: svc, Close: set.Close}

			if p := a.cfg.Preview; p.Enabled() {
				tokens, err := auth.NewTokenService(p.SigningKey, p.TTL)
				if err != nil {
					set.Close()
					return err
				}
				deps.Tokens = tokens
				deps.Secrets = auth.NewSecretVerifier(p.SecretHash)
			}

			// Start closes the source set once the server has drained.
			return server.New(server.Config{Port: a.cfg.Port}, deps, a.logger).Start(cmd.Context())
		},
	}
}
