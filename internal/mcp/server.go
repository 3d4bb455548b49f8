// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mcp exposes the query service as Model Context Protocol tools
// served over stdio.
// Implements: tool registration, RFC number validation before any query
// reaches the service, JSON text results, and per-tool invocation metrics.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/pdiddy/rfc-engine/internal/service"
)

// Config configures the tool server.
type Config struct {
	// Name is the server implementation name (default "rfc-engine").
	Name string

	// Version is reported to clients (default "dev").
	Version string

	Logger  *zap.Logger
	Metrics *Metrics
}

// Server serves RFC queries as tools.
type Server struct {
	mcp     *mcp.Server
	svc     *service.Service
	logger  *zap.Logger
	metrics *Metrics
}

// NewServer creates a tool server backed by svc.
func NewServer(cfg Config, svc *service.Service) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("query service is required")
	}
	if cfg.Name == "" {
		cfg.Name = "rfc-engine"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		svc:     svc,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
	s.registerTools()
	return s, nil
}

// Run serves tools on stdin/stdout until ctx is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting tool server on stdio transport")
	if err := s.mcp.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}
