package core

import "time"

type UpstreamConfig interface {
	GetUpstreamURL() string
	GetAPIKey() string
	GetUpstreamTimeout() time.Duration
}

type GatewayClientConfig interface {
	GetGatewayURL() string
	GetGatewayTimeout() time.Duration
}
