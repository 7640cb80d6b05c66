package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/kalevalagpt/internal/core"
	"github.com/sandevgo/kalevalagpt/internal/service/ui"
	"github.com/sandevgo/kalevalagpt/pkg/conv"
)

const (
	showInfoHint = "[Show Info]"
	hideInfoHint = "[Hide Info]"
)

func formatCutoff(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// bubbleWidth caps bubbles at 70% of the available width.
func bubbleWidth(text string, width int) int {
	maxW := max(width*7/10, 10)
	return min(lipgloss.Width(text)+2, maxW)
}

// renderer draws history entries. Answers are shown verbatim unless markdown
// rendering was asked for.
type renderer struct {
	width    int
	markdown bool
}

func (r renderer) text(m core.Message) string {
	if !r.markdown || m.Sender != core.SenderBot {
		return m.Text
	}
	text, err := conv.MarkdownToText(m.Text)
	if err != nil || (text == "" && m.Text != "") {
		return m.Text
	}
	return text
}

// message draws a single turn. visible expands the info block, selected
// highlights the info hint.
func (r renderer) message(m core.Message, visible, selected bool) string {
	var b strings.Builder
	width := r.width

	text := r.text(m)
	if m.IsUser() {
		bubble := ui.UserBubbleStyle.Width(bubbleWidth(text, width)).Render(text)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble))

		if m.TopK != nil && m.SimilarityCutoff != nil {
			meta := ui.DescStyle.Render("Top K: " + strconv.Itoa(*m.TopK) + ", Similarity: " + formatCutoff(*m.SimilarityCutoff))
			b.WriteString("\n")
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, meta))
		}
		return b.String()
	}

	b.WriteString(ui.BotBubbleStyle.Width(bubbleWidth(text, width)).Render(text))

	if m.HasInfo() {
		hint := showInfoHint
		if visible {
			hint = hideInfoHint
		}
		style := ui.HintStyle
		if selected {
			hint = "> " + hint
			style = ui.SelectedStyle
		}
		b.WriteString("\n")
		b.WriteString(style.Render(hint))
	}

	if visible {
		infoWidth := max(width*7/10, 10)
		if m.Context != nil && *m.Context != "" {
			b.WriteString("\n")
			b.WriteString(ui.InfoStyle.Width(infoWidth).Render(*m.Context))
		}
		if len(m.Sources) > 0 {
			b.WriteString("\n")
			b.WriteString(ui.InfoStyle.Width(infoWidth).Render("Sources: " + strings.Join(m.Sources, ", ")))
		}
	}
	return b.String()
}
