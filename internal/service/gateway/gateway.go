package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/kalevalagpt/internal/core"
	"github.com/sandevgo/kalevalagpt/pkg/log"
)

// ErrUpstream is returned, wrapped, whenever the inference API could not serve a question.
var ErrUpstream = errors.New("upstream unavailable")

// FallbackAnswer is the answer returned to callers when the upstream call fails.
var FallbackAnswer = fmt.Sprintf("Error: could not reach %s", core.ServiceName)

// Gateway relays questions to the inference API and shapes its answers for display.
type Gateway struct {
	upstream core.Retriever
	observer Observer
}

// Observer receives the outcome of every upstream call.
type Observer interface {
	ObserveUpstream(d time.Duration, err error)
}

type Option func(*Gateway)

func WithObserver(o Observer) Option {
	return func(g *Gateway) {
		g.observer = o
	}
}

func New(upstream core.Retriever, opts ...Option) *Gateway {
	g := &Gateway{upstream: upstream}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// HandleChat forwards the request as-is, with no validation or clamping, and
// post-processes the answer. On failure it still returns a usable response
// carrying FallbackAnswer, together with an error wrapping ErrUpstream.
func (g *Gateway) HandleChat(ctx context.Context, req core.RetrievalRequest) (core.RetrievalResponse, error) {
	logger := log.FromCtx(ctx)

	start := time.Now()
	resp, err := g.upstream.Query(ctx, req)
	if g.observer != nil {
		g.observer.ObserveUpstream(time.Since(start), err)
	}
	if err != nil {
		return core.RetrievalResponse{Answer: FallbackAnswer}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	logger.Debug().
		Int("answer_len", len(resp.Answer)).
		Int("sources", len(resp.Sources)).
		Bool("context", resp.Context != nil).
		Dur("took", time.Since(start)).
		Msg("upstream answered")

	return core.RetrievalResponse{
		Answer:  CleanAnswer(resp.Answer),
		Context: resp.Context,
		Sources: resp.Sources,
	}, nil
}
