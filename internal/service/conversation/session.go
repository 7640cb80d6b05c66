package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sandevgo/kalevalagpt/internal/core"
	"github.com/sandevgo/kalevalagpt/pkg/log"
)

// FallbackText is shown when the gateway itself could not be reached.
const FallbackText = "Error: could not reach server"

// Pending is a submitted question waiting for its answer.
type Pending struct {
	// ID of the user message that produced the request.
	ID      uuid.UUID
	Request core.RetrievalRequest
}

// Session is the in-memory conversation: an append-only history, the retrieval
// controls and the set of messages whose info is expanded. It lives as long as
// the process and is never persisted.
//
// Submissions are not serialized: when several questions are in flight, replies
// are appended in arrival order, which may differ from submission order. Bot
// messages carry ReplyTo to correlate them with their question.
type Session struct {
	mu       sync.RWMutex
	controls Controls
	history  []core.Message
	visible  map[uuid.UUID]struct{}
}

func NewSession() *Session {
	return &Session{
		controls: NewControls(),
		visible:  make(map[uuid.UUID]struct{}),
	}
}

func (s *Session) Controls() Controls {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.controls
}

func (s *Session) SetTopK(v int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controls.SetTopK(v)
}

func (s *Session) SetSimilarityCutoff(v float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controls.SetSimilarityCutoff(v)
}

// ResetControls restores default controls; history is left alone.
func (s *Session) ResetControls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controls.Reset()
}

// Submit appends the user message with the current controls and returns the
// request to send. Blank text is ignored and reports false.
func (s *Session) Submit(text string) (Pending, bool) {
	if strings.TrimSpace(text) == "" {
		return Pending{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	topK, cutoff := s.controls.TopK(), s.controls.SimilarityCutoff()
	msg := core.NewUserMessage(text, topK, cutoff)
	s.history = append(s.history, msg)

	return Pending{
		ID: msg.ID,
		Request: core.RetrievalRequest{
			Question:         text,
			TopK:             &topK,
			SimilarityCutoff: &cutoff,
		},
	}, true
}

// AppendReply appends a bot message in arrival order.
func (s *Session) AppendReply(msg core.Message) error {
	if msg.Sender != core.SenderBot {
		return fmt.Errorf("append reply: unexpected sender %q", msg.Sender)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, msg)
	return nil
}

// Exchange submits text, waits for the answer and appends it. It reports false
// for blank text, in which case nothing is sent.
func (s *Session) Exchange(ctx context.Context, r core.Retriever, text string) (core.Message, bool) {
	p, ok := s.Submit(text)
	if !ok {
		return core.Message{}, false
	}

	reply := Ask(ctx, r, p)
	// Ask only produces bot messages.
	_ = s.AppendReply(reply)
	return reply, true
}

// Messages returns a snapshot of the history in display order.
func (s *Session) Messages() []core.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Message(nil), s.history...)
}

func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// ToggleContext flips the info visibility of the message and returns the new state.
func (s *Session) ToggleContext(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.visible[id]; ok {
		delete(s.visible, id)
		return false
	}
	s.visible[id] = struct{}{}
	return true
}

func (s *Session) ContextVisible(id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.visible[id]
	return ok
}

// Ask sends a pending question and turns the outcome into a bot message.
// Failures are logged and answered with FallbackText; Ask never fails.
func Ask(ctx context.Context, r core.Retriever, p Pending) core.Message {
	resp, err := r.Query(ctx, p.Request)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("reply_to", p.ID.String()).Msg("gateway request failed")
		return core.NewBotMessage(p.ID, FallbackText, nil, nil)
	}
	return core.NewBotMessage(p.ID, resp.Answer, resp.Context, resp.Sources)
}
