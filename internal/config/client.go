package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/kalevalagpt/pkg/log"
)

type ClientConfig struct {
	GatewayURL string `env:"KALEVALA_GATEWAY_URL" envDefault:"http://localhost:5000"`
	// Zero leaves the transport default in place.
	GatewayTimeout time.Duration `env:"KALEVALA_GATEWAY_TIMEOUT" envDefault:"0s"`
}

func ParseClientConfig() (*ClientConfig, error) {
	c := &ClientConfig{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse client config: %w", err)
	}
	return c, nil
}

func NewClientConfig(ctx context.Context) *ClientConfig {
	c, err := ParseClientConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Client config")
	}
	return c
}

func (c ClientConfig) GetGatewayURL() string {
	return strings.TrimRight(c.GatewayURL, "/")
}

func (c ClientConfig) GetGatewayTimeout() time.Duration {
	return c.GatewayTimeout
}
