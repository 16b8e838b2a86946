// Copyright 2024 The Drashta Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	internalClassify "github.com/vamsi200/Drashta/internal/classify"
	"github.com/vamsi200/Drashta/internal/di"
	"github.com/vamsi200/Drashta/internal/pipeline"
	"github.com/vamsi200/Drashta/internal/web"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg di.Config
	cmd := &cobra.Command{
		Use:           "drashta",
		Short:         "Tail the systemd journal, classify security events, serve them over SSE",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}
	addFlags(cmd.Flags(), &cfg)
	return cmd
}

func addFlags(flags *pflag.FlagSet, cfg *di.Config) {
	flags.IntVar(&cfg.Port, "port", web.DefaultPort, "TCP port to listen on")
	flags.StringVar(&cfg.AppDir, "app-dir", "", "directory of the static web UI bundle served at /app (disabled when empty)")
	flags.StringVar(&cfg.RulesDir, "rules-dir", "", "directory of YAML classifier rule overlays, watched for changes (disabled when empty)")
	flags.StringVar(&cfg.JournalDir, "journal-dir", "", "read journal files from this directory instead of the host journal")
	flags.IntVar(&cfg.HubBuffer, "hub-buffer", 0, "per-subscriber live event buffer capacity (0 = default)")
}

func run(ctx context.Context, cfg di.Config) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("--port must be in 1..65535, got %d", cfg.Port)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.RulesDir != "" {
		err = multierr.Append(err, container.Invoke(func(l *internalClassify.Loader) {
			go func() {
				if rerr := l.Run(ctx); rerr != nil {
					logger.Warn("rule hot reload stopped", zap.Error(rerr))
				}
			}()
		}))
	}
	err = multierr.Append(err, container.Invoke(func(live *pipeline.Live, srv *web.Server) error {
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		errc := make(chan error, 2)
		go func() { errc <- live.Run(runCtx) }()
		go func() { errc <- srv.Serve(runCtx) }()
		// First failure (or clean ctx cancellation) stops the other
		// half too; both results are reported.
		first := <-errc
		cancel()
		return multierr.Append(first, <-errc)
	}))
	return err
}
