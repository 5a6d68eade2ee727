package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ruteri/interface-registry/api/interfacehandler"
	"github.com/ruteri/interface-registry/cmd/flags"
	"github.com/ruteri/interface-registry/common"
	"github.com/ruteri/interface-registry/httpserver"
	"github.com/ruteri/interface-registry/metrics"
	"github.com/ruteri/interface-registry/registry"
	"github.com/ruteri/interface-registry/storage"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "registry-server",
		Usage: "Serve the interface registry API",
		Flags: append([]cli.Flag{
			flags.ListenAddrFlag,
			flags.StorageFlag,
		}, flags.CommonFlags...),
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)
			cfg := flags.ConfigureServer(cCtx, logger)

			locations, err := flags.StorageLocations(cCtx)
			if err != nil {
				logger.Error("Invalid storage configuration", "err", err)
				return err
			}

			store, err := storage.NewStorageBackendFactory(logger).CreateMultiBackend(locations)
			if err != nil {
				logger.Error("Failed to create storage backend", "err", err)
				return err
			}
			if closer, ok := store.(io.Closer); ok {
				defer closer.Close()
			}
			logger.Info("Using storage", "location", store.LocationURI())

			reg, err := registry.New(context.Background(), store, logger)
			if err != nil {
				logger.Error("Failed to initialize registry", "err", err)
				return err
			}

			metricsSrv, err := metrics.New(common.PackageName, cfg.MetricsAddr)
			if err != nil {
				logger.Error("Failed to create metrics server", "err", err)
				return err
			}

			handler := interfacehandler.NewHandler(reg, metricsSrv, logger).WithMaxBodyBytes(cfg.MaxBodyBytes)

			server, err := httpserver.New(cfg, metricsSrv, handler)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("Server is running, press Ctrl+C to stop")
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			logger.Info("Server shutdown complete")
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
