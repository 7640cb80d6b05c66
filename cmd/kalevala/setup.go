package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/sandevgo/kalevalagpt/internal/config"
	gwclient "github.com/sandevgo/kalevalagpt/internal/providers/gateway"
	"github.com/sandevgo/kalevalagpt/internal/providers/upstream"
	"github.com/sandevgo/kalevalagpt/internal/service/gateway"
	transport "github.com/sandevgo/kalevalagpt/internal/transport/http"
	"github.com/sandevgo/kalevalagpt/pkg/log"
	"github.com/sandevgo/kalevalagpt/pkg/srv"
)

const envFile = ".env"

// initEnv loads .env from the working directory when present.
func initEnv(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}

// NewGatewayServices builds the gateway: upstream client -> gateway -> HTTP server.
func NewGatewayServices(ctx context.Context, port int) []srv.Service {
	logger := log.FromCtx(ctx)

	if err := initEnv(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	cfg := config.NewGatewayConfig(ctx)
	if port > 0 {
		cfg.Port = port
	}

	// 2. Upstream inference API
	inference := upstream.NewInference(cfg)

	// 3. Gateway + transport
	metrics := transport.NewMetrics()
	gw := gateway.New(inference, gateway.WithObserver(metrics))
	server := transport.NewServer(ctx, cfg.GetListenAddr(), gw, metrics)

	logger.Info().
		Str("upstream", cfg.GetUpstreamURL()).
		Dur("timeout", cfg.GetUpstreamTimeout()).
		Msg("gateway configured")

	return []srv.Service{server, srv.NewCleanup(inference.Close)}
}

// NewGatewayClient builds the client used by chat and ask.
func NewGatewayClient(ctx context.Context, gatewayURL string) *gwclient.Client {
	if err := initEnv(ctx); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to init env")
	}

	cfg := config.NewClientConfig(ctx)
	if gatewayURL != "" {
		cfg.GatewayURL = gatewayURL
	}
	log.FromCtx(ctx).Debug().Str("gateway", cfg.GetGatewayURL()).Msg("client configured")
	return gwclient.NewClient(cfg)
}
