package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sandevgo/kalevalagpt/internal/core"
	"github.com/sandevgo/kalevalagpt/internal/providers/base"
)

const (
	APIKeyHeader = "x-api-key"
	queryPath    = "/query"

	// maxErrorBody bounds how much of a failed response ends up in the error.
	maxErrorBody = 512
)

// Inference calls the remote retrieval-augmented inference API.
type Inference struct {
	base.Client
	apiKey string
}

func NewInference(cfg core.UpstreamConfig) *Inference {
	return &Inference{
		Client: base.New(cfg.GetUpstreamURL(), cfg.GetUpstreamTimeout()),
		apiKey: cfg.GetAPIKey(),
	}
}

// Query performs a single POST /query. Any non-2xx status is an error.
func (i *Inference) Query(ctx context.Context, req core.RetrievalRequest) (core.RetrievalResponse, error) {
	headers := map[string]string{
		APIKeyHeader: i.apiKey,
	}

	resp, err := i.DoRequest(ctx, http.MethodPost, queryPath, req, headers)
	if err != nil {
		return core.RetrievalResponse{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.RetrievalResponse{}, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(data) > maxErrorBody {
			data = data[:maxErrorBody]
		}
		return core.RetrievalResponse{}, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result core.RetrievalResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return core.RetrievalResponse{}, fmt.Errorf("decode: %w", err)
	}
	return result, nil
}
