// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ava-labs/avalanchego/api/metrics"
	"github.com/neilotoole/errgroup"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/phoenixvm/config"
	"github.com/ava-labs/phoenixvm/controller"
	"github.com/ava-labs/phoenixvm/genesis"
	"github.com/ava-labs/phoenixvm/rpc"
	"github.com/ava-labs/phoenixvm/server"
	"github.com/ava-labs/phoenixvm/storage"
	"github.com/ava-labs/phoenixvm/trace"
)

func newRunCmd() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a node",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "config file (json or yaml)")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.New(nil)
	}
	return config.Load(path)
}

func run(ctx context.Context, cfg *config.Config) error {
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Stop()

	tracer, err := trace.New(cfg.GetTraceConfig())
	if err != nil {
		return err
	}
	defer tracer.Close()

	gatherer := metrics.NewPrefixGatherer()
	db, err := storage.New(cfg.GetPebbleConfig(), cfg.DBDir, gatherer)
	if err != nil {
		return err
	}
	c, err := controller.New(log, cfg, db, tracer, gatherer)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Error("failed to close controller", zap.Error(err))
		}
	}()

	if cfg.GenesisFile != "" {
		g, id, err := genesis.Load(cfg.GenesisFile)
		if err != nil {
			return err
		}
		if err := c.InitializeGenesis(ctx, g, id); err != nil {
			return err
		}
	}

	listener, err := net.Listen("tcp", cfg.GetHTTPAddress())
	if err != nil {
		return err
	}
	srv := server.New(log, listener, cfg.GetServerConfig())
	if err := c.Register(srv); err != nil {
		return err
	}
	if err := srv.AddRoute(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}), rpc.APIBase, rpc.MetricsEndpoint); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Dispatch(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		return srv.Shutdown()
	})
	return g.Wait()
}
