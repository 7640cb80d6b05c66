package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/sandevgo/kalevalagpt/internal/core"
	"github.com/sandevgo/kalevalagpt/internal/service/conversation"
	"github.com/sandevgo/kalevalagpt/internal/service/ui"
	"github.com/sandevgo/kalevalagpt/pkg/log"
)

type focus int

const (
	focusQuestion focus = iota
	focusTopK
	focusCutoff
	focusCount
)

// header (title + margin) and footer (status, controls, input, help) heights
const (
	headerHeight = 2
	footerHeight = 5
)

const helpText = "enter send • tab next field • ctrl+r reset • ctrl+p/ctrl+n select • ctrl+t info • pgup/pgdown scroll • esc quit"

// replyMsg delivers a bot message produced by an in-flight question.
type replyMsg struct {
	message core.Message
}

// model is the chat screen. All session mutations happen in Update.
type model struct {
	ctx       context.Context
	session   *conversation.Session
	retriever core.Retriever

	question textinput.Model
	topK     textinput.Model
	cutoff   textinput.Model
	viewport viewport.Model

	markdown bool

	focus    focus
	selected uuid.UUID
	pending  int
	width    int
	height   int
}

func newModel(ctx context.Context, session *conversation.Session, retriever core.Retriever) model {
	q := textinput.New()
	q.Placeholder = "Type your question..."
	q.Prompt = "> "
	q.CharLimit = 2000
	q.Focus()

	k := textinput.New()
	k.Prompt = ""
	k.CharLimit = 3
	k.Width = 4

	c := textinput.New()
	c.Prompt = ""
	c.CharLimit = 6
	c.Width = 6

	m := model{
		ctx:       ctx,
		session:   session,
		retriever: retriever,
		question:  q,
		topK:      k,
		cutoff:    c,
		viewport:  viewport.New(0, 0),
		width:     80,
	}
	m.syncControls()
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 1)
		m.question.Width = max(msg.Width-4, 10)
		m.refresh(true)
		return m, nil

	case replyMsg:
		m.pending = max(m.pending-1, 0)
		if err := m.session.AppendReply(msg.message); err != nil {
			log.FromCtx(m.ctx).Error().Err(err).Msg("failed to append reply")
		}
		m.refresh(true)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			cmd := m.setFocus((m.focus + 1) % focusCount)
			return m, cmd
		case "shift+tab":
			cmd := m.setFocus((m.focus + focusCount - 1) % focusCount)
			return m, cmd
		case "enter":
			var cmd tea.Cmd
			if m.focus != focusQuestion {
				m.syncControls()
				cmd = m.setFocus(focusQuestion)
			} else {
				cmd = m.submit()
			}
			return m, cmd
		case "ctrl+r":
			m.session.ResetControls()
			m.syncControls()
			return m, nil
		case "ctrl+p":
			m.moveSelection(-1)
			m.refresh(false)
			return m, nil
		case "ctrl+n":
			m.moveSelection(1)
			m.refresh(false)
			return m, nil
		case "ctrl+t":
			m.toggleSelected()
			m.refresh(false)
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	cmd := m.updateFocused(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(ui.TitleStyle.Render(core.ServiceName))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	status := ""
	if m.pending > 0 {
		status = fmt.Sprintf("waiting for %d answer(s)...", m.pending)
	}
	b.WriteString(ui.DescStyle.Render(status))
	b.WriteString("\n")

	b.WriteString(m.controlsView())
	b.WriteString("\n")
	b.WriteString(m.question.View())
	b.WriteString("\n")
	b.WriteString(ui.HintStyle.Render(helpText))

	return b.String()
}

func (m model) controlsView() string {
	label := func(f focus, text string) string {
		if m.focus == f {
			return ui.FocusStyle.Render(text)
		}
		return text
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		label(focusTopK, "Top K (1-10): "), m.topK.View(),
		"   ",
		label(focusCutoff, "Similarity (0-1): "), m.cutoff.View(),
		"   ",
		ui.HintStyle.Render("ctrl+r reset"),
	)
}

// submit sends the question and clears the input. Blank input does nothing.
func (m *model) submit() tea.Cmd {
	p, ok := m.session.Submit(m.question.Value())
	if !ok {
		return nil
	}
	m.question.Reset()
	m.pending++
	m.refresh(true)

	ctx, retriever := m.ctx, m.retriever
	return func() tea.Msg {
		return replyMsg{message: conversation.Ask(ctx, retriever, p)}
	}
}

func (m *model) setFocus(f focus) tea.Cmd {
	m.question.Blur()
	m.topK.Blur()
	m.cutoff.Blur()
	m.focus = f

	switch f {
	case focusTopK:
		return m.topK.Focus()
	case focusCutoff:
		return m.cutoff.Focus()
	default:
		return m.question.Focus()
	}
}

func (m *model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case focusTopK:
		m.topK, cmd = m.topK.Update(msg)
		m.applyTopK()
	case focusCutoff:
		m.cutoff, cmd = m.cutoff.Update(msg)
		m.applyCutoff()
	default:
		m.question, cmd = m.question.Update(msg)
	}
	return cmd
}

// applyTopK stores the edited field. Unparseable text keeps the previous value;
// the field is rewritten only when clamping changed the number.
func (m *model) applyTopK() {
	v, err := strconv.Atoi(strings.TrimSpace(m.topK.Value()))
	if err != nil {
		return
	}
	if stored := m.session.SetTopK(v); stored != v {
		m.topK.SetValue(strconv.Itoa(stored))
	}
}

func (m *model) applyCutoff() {
	v, err := strconv.ParseFloat(strings.TrimSpace(m.cutoff.Value()), 64)
	if err != nil {
		return
	}
	if stored := m.session.SetSimilarityCutoff(v); stored != v {
		m.cutoff.SetValue(formatCutoff(stored))
	}
}

// syncControls rewrites both fields from the stored controls.
func (m *model) syncControls() {
	c := m.session.Controls()
	m.topK.SetValue(strconv.Itoa(c.TopK()))
	m.cutoff.SetValue(formatCutoff(c.SimilarityCutoff()))
}

// infoIDs lists messages that have something to show, in display order.
func (m *model) infoIDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, msg := range m.session.Messages() {
		if msg.HasInfo() {
			ids = append(ids, msg.ID)
		}
	}
	return ids
}

func (m *model) moveSelection(delta int) {
	ids := m.infoIDs()
	if len(ids) == 0 {
		return
	}

	idx := -1
	for i, id := range ids {
		if id == m.selected {
			idx = i
			break
		}
	}
	if idx == -1 {
		m.selected = ids[len(ids)-1]
		return
	}
	idx = min(max(idx+delta, 0), len(ids)-1)
	m.selected = ids[idx]
}

func (m *model) toggleSelected() {
	if m.selected == uuid.Nil {
		m.moveSelection(0)
	}
	if m.selected == uuid.Nil {
		return
	}
	m.session.ToggleContext(m.selected)
}

// refresh re-renders the history; toBottom scrolls to the latest message.
func (m *model) refresh(toBottom bool) {
	msgs := m.session.Messages()
	r := renderer{width: m.width, markdown: m.markdown}
	blocks := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		blocks = append(blocks, r.message(msg, m.session.ContextVisible(msg.ID), msg.ID == m.selected))
	}
	m.viewport.SetContent(strings.Join(blocks, "\n\n"))
	if toBottom {
		m.viewport.GotoBottom()
	}
}
