package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"docchat/internal/domain"
)

// transcriptRenderer turns the conversation into viewport content.
// Assistant answers are markdown; questions are shown verbatim.
type transcriptRenderer struct {
	style    string
	width    int
	markdown *glamour.TermRenderer
}

func newTranscriptRenderer(style string) *transcriptRenderer {
	r := &transcriptRenderer{style: style}
	r.resize(80)
	return r
}

// resize rebuilds the markdown renderer for a new wrap width.
func (r *transcriptRenderer) resize(width int) {
	if width < 20 {
		width = 20
	}
	if width == r.width && r.markdown != nil {
		return
	}
	r.width = width
	md, err := glamour.NewTermRenderer(
		glamour.WithStylePath(r.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		r.markdown = nil
		return
	}
	r.markdown = md
}

func (r *transcriptRenderer) render(messages []domain.Message, pending, notice, failure string) string {
	if len(messages) == 0 && pending == "" {
		return mutedStyle.Render("Upload documents and ask a question about them.")
	}
	var sb strings.Builder
	for _, m := range messages {
		sb.WriteString(r.message(m))
	}
	if pending != "" {
		sb.WriteString(r.message(domain.Message{Role: domain.RoleUser, Content: pending}))
	}
	if notice != "" {
		sb.WriteString(noticeStyle.Render(notice) + "\n\n")
	}
	if failure != "" {
		sb.WriteString(bannerStyles[bannerError].Render(failure) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (r *transcriptRenderer) message(m domain.Message) string {
	if m.Role == domain.RoleUser {
		return userStyle.Render("You: ") + m.Content + "\n\n"
	}
	if r.markdown == nil {
		return m.Content + "\n\n"
	}
	out, err := r.markdown.Render(m.Content)
	if err != nil {
		return m.Content + "\n\n"
	}
	return out
}
