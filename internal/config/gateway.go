package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/kalevalagpt/pkg/log"
)

type GatewayConfig struct {
	APIKey          string        `env:"API_KEY,required,notEmpty"`
	Port            int           `env:"PORT" envDefault:"5000"`
	UpstreamURL     string        `env:"KALEVALA_UPSTREAM_URL" envDefault:"http://localhost:8000"`
	UpstreamTimeout time.Duration `env:"KALEVALA_UPSTREAM_TIMEOUT" envDefault:"120s"`
}

func ParseGatewayConfig() (*GatewayConfig, error) {
	c := &GatewayConfig{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse gateway config: %w", err)
	}
	return c, nil
}

func NewGatewayConfig(ctx context.Context) *GatewayConfig {
	c, err := ParseGatewayConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Gateway config")
	}
	return c
}

func (c GatewayConfig) GetAPIKey() string {
	return c.APIKey
}

func (c GatewayConfig) GetUpstreamURL() string {
	return strings.TrimRight(c.UpstreamURL, "/")
}

func (c GatewayConfig) GetUpstreamTimeout() time.Duration {
	return c.UpstreamTimeout
}

func (c GatewayConfig) GetListenAddr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Redacted returns a copy safe to print.
func (c GatewayConfig) Redacted() GatewayConfig {
	c.APIKey = maskSecret(c.APIKey)
	return c
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
