package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sandevgo/kalevalagpt/internal/core"
	"github.com/sandevgo/kalevalagpt/internal/providers/base"
)

const chatPath = "/api/chat"

// Client talks to the KalevalaGPT gateway.
type Client struct {
	base.Client
}

func NewClient(cfg core.GatewayClientConfig) *Client {
	return &Client{
		Client: base.New(cfg.GetGatewayURL(), cfg.GetGatewayTimeout()),
	}
}

// Query posts the question to the gateway. The gateway reports upstream failures
// as a normal JSON body with a failure status, so the body is decoded whatever the
// status; only transport and decoding problems are errors.
func (c *Client) Query(ctx context.Context, req core.RetrievalRequest) (core.RetrievalResponse, error) {
	resp, err := c.DoRequest(ctx, http.MethodPost, chatPath, req, nil)
	if err != nil {
		return core.RetrievalResponse{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.RetrievalResponse{}, fmt.Errorf("read body: %w", err)
	}

	var result core.RetrievalResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return core.RetrievalResponse{}, fmt.Errorf("decode (http %d): %w", resp.StatusCode, err)
	}
	return result, nil
}
