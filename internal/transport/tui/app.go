package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/kalevalagpt/internal/core"
	"github.com/sandevgo/kalevalagpt/internal/service/conversation"
	"github.com/sandevgo/kalevalagpt/pkg/log"
)

// App runs the interactive chat in the terminal.
type App struct {
	session   *conversation.Session
	retriever core.Retriever
	opts      []tea.ProgramOption
	markdown  bool

	mu      sync.Mutex
	program *tea.Program
}

func NewApp(session *conversation.Session, retriever core.Retriever, opts ...tea.ProgramOption) *App {
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	return &App{
		session:   session,
		retriever: retriever,
		opts:      opts,
	}
}

// WithMarkdown renders bot answers as markdown instead of verbatim text.
func (a *App) WithMarkdown(on bool) *App {
	a.markdown = on
	return a
}

// Start blocks until the user quits or ctx is done.
func (a *App) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("chat started")

	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.opts...)
	m := newModel(ctx, a.session, a.retriever)
	m.markdown = a.markdown
	p := tea.NewProgram(m, opts...)

	a.mu.Lock()
	a.program = p
	a.mu.Unlock()

	_, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run chat: %w", err)
	}

	logger.Info().Int("messages", a.session.Len()).Msg("chat finished")
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.program != nil {
		a.program.Quit()
	}
	return nil
}
