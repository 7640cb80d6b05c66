package core

import "context"

// Retriever answers a retrieval-augmented question. It is implemented by the
// upstream inference client on the gateway side and by the gateway client on
// the conversation side.
type Retriever interface {
	Query(ctx context.Context, req RetrievalRequest) (RetrievalResponse, error)
}
