// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/pdiddy/rfc-engine/internal/acquire"
	"github.com/pdiddy/rfc-engine/internal/cache"
	"github.com/pdiddy/rfc-engine/internal/logging"
	"github.com/pdiddy/rfc-engine/internal/service"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

// engine holds the components one command invocation needs.
type engine struct {
	cfg      types.EngineConfig
	logger   *zap.Logger
	registry *prometheus.Registry
	fetcher  *acquire.Fetcher
	svc      *service.Service
}

func newEngine() (*engine, error) {
	cfg := loadConfig()

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	fetcher := acquire.New(cfg.Fetch,
		acquire.WithLogger(logger.Named("acquire")),
		acquire.WithMetrics(acquire.NewMetrics(reg)),
	)
	svc, err := service.New(fetcher,
		service.WithCacheSize(cfg.Cache.Size),
		service.WithCacheMetrics(cache.NewMetrics(reg)),
		service.WithLogger(logger.Named("service")),
	)
	if err != nil {
		return nil, fmt.Errorf("creating query service: %w", err)
	}

	return &engine{cfg: cfg, logger: logger, registry: reg, fetcher: fetcher, svc: svc}, nil
}

// close flushes the logger.
func (e *engine) close() {
	_ = e.logger.Sync()
}

// parseNumbers resolves RFC identifiers given on the command line.
func parseNumbers(args []string) ([]int, error) {
	numbers := make([]int, 0, len(args))
	for _, a := range args {
		n, err := acquire.ParseNumber(a)
		if err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}
