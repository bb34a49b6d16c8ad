package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/dharmikk7610/folio/internal/domain/chat/models"
)

const clearLine = "\r\033[K"

var (
	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A855F7")).
			Bold(true)

	thinkingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF"))
)

// turnView prints one chat turn as it streams. With a markdown renderer the
// reply is shown once complete; without one it is written fragment by fragment.
type turnView struct {
	mu        sync.Mutex
	out       io.Writer
	markdown  *glamour.TermRenderer
	streaming func() bool

	start    int // transcript index of the first reply message
	printed  int // bytes of transcript[start] already written
	thinking bool
}

func newTurnView(out io.Writer, markdown *glamour.TermRenderer, streaming func() bool) *turnView {
	return &turnView{out: out, markdown: markdown, streaming: streaming}
}

// begin shows the thinking indicator for a turn whose reply lands at index start
func (v *turnView) begin(start int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.start = start
	v.printed = 0
	v.thinking = true
	fmt.Fprint(v.out, thinkingStyle.Render("Thinking..."))
}

// update is registered with Session.OnUpdate
func (v *turnView) update(transcript []models.ChatMessage) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.markdown != nil || len(transcript) <= v.start || !v.streaming() {
		return
	}

	reply := transcript[v.start].Content
	if v.thinking {
		fmt.Fprint(v.out, clearLine+assistantStyle.Render("assistant")+" ")
		v.thinking = false
	}
	fmt.Fprint(v.out, reply[v.printed:])
	v.printed = len(reply)
}

// finish prints whatever the stream did not: the rest of the reply, a fallback
// or an error message.
func (v *turnView) finish(transcript []models.ChatMessage) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.thinking {
		fmt.Fprint(v.out, clearLine)
		v.thinking = false
	}

	for i := v.start; i < len(transcript); i++ {
		content := transcript[i].Content
		if i == v.start && v.printed > 0 {
			fmt.Fprintln(v.out, content[v.printed:])
			continue
		}
		fmt.Fprintln(v.out, assistantStyle.Render("assistant")+" "+v.render(content))
	}
	v.printed = 0
}

func (v *turnView) render(content string) string {
	if v.markdown == nil {
		return content
	}

	rendered, err := v.markdown.Render(content)
	if err != nil {
		return content
	}
	return "\n" + rendered
}
