package core

import (
	"time"

	"github.com/google/uuid"
)

const (
	ServiceName    = "KalevalaGPT"
	ServiceVersion = "0.1.0"
	UserAgent      = "KalevalaGPT-Client/" + ServiceVersion
)

// Sender identifies who produced a conversation turn.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one conversation turn. Optional fields are nil when absent;
// user turns carry retrieval parameters, bot turns carry context and sources.
type Message struct {
	ID               uuid.UUID `json:"id"`
	Sender           Sender    `json:"sender"`
	Text             string    `json:"text"`
	Context          *string   `json:"context,omitempty"`
	Sources          []string  `json:"sources,omitempty"`
	TopK             *int      `json:"top_k,omitempty"`
	SimilarityCutoff *float64  `json:"similarity_cutoff,omitempty"`
	ReplyTo          uuid.UUID `json:"reply_to,omitzero"`
	CreatedAt        time.Time `json:"created_at"`
}

func NewUserMessage(text string, topK int, similarityCutoff float64) Message {
	return Message{
		ID:               uuid.New(),
		Sender:           SenderUser,
		Text:             text,
		TopK:             &topK,
		SimilarityCutoff: &similarityCutoff,
		CreatedAt:        time.Now(),
	}
}

// NewBotMessage builds a reply to the user message identified by replyTo.
func NewBotMessage(replyTo uuid.UUID, text string, context *string, sources []string) Message {
	return Message{
		ID:        uuid.New(),
		Sender:    SenderBot,
		Text:      text,
		Context:   context,
		Sources:   sources,
		ReplyTo:   replyTo,
		CreatedAt: time.Now(),
	}
}

func (m Message) IsUser() bool { return m.Sender == SenderUser }

// HasInfo reports whether the message carries context or at least one source.
func (m Message) HasInfo() bool {
	if m.Sender != SenderBot {
		return false
	}
	return (m.Context != nil && *m.Context != "") || len(m.Sources) > 0
}

// RetrievalRequest is the body sent to the gateway and forwarded upstream.
type RetrievalRequest struct {
	Question         string   `json:"question"`
	TopK             *int     `json:"top_k,omitempty"`
	SimilarityCutoff *float64 `json:"similarity_cutoff,omitempty"`
}

type RetrievalResponse struct {
	Answer  string   `json:"answer,omitempty"`
	Context *string  `json:"context,omitempty"`
	Sources []string `json:"sources,omitempty"`
}
