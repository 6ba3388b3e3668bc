package cli

import (
	"github.com/spf13/cobra"

	"codoc/internal/server"
)

func serveCmd() *cobra.Command {
	var port int

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			if port != 0 {
				cfg.Server.Port = port
			}
			srv, err := server.New(cfg)
			if err != nil {
				return err
			}
			return srv.ListenAndServe()
		},
	}

	c.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides config)")
	return c
}
