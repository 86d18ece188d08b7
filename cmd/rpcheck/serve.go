package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/graphquality/rpcheck/api"
	"github.com/graphquality/rpcheck/constraints"
)

func newServeCommand() *cobra.Command {
	var addr, dataDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the engine's HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd)
			if err != nil {
				return err
			}

			store, err := constraints.NewStore(dataDir)
			if err != nil {
				return err
			}

			log := slog.New(slog.NewTextHandler(os.Stderr, nil))
			srv := api.NewServer(g, store, log)

			log.Info("listening", "addr", addr, "data_dir", dataDir)
			return http.ListenAndServe(addr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("RPCHECK_ADDR", ":8080"), "listen address")
	cmd.Flags().StringVar(&dataDir, "data-dir", envOr("RPCHECK_DATA_DIR", "data/constraints"), "directory for saved constraint bundles")

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
