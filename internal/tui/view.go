package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Document Chat")
	switch m.mode {
	case modeKey:
		body := inputBoxStyle.Render(m.keyInput.View())
		help := mutedStyle.Render("enter: save key • esc: continue without key • ctrl+c: quit")
		return joinLines(header, m.renderBanners(), body, help)
	case modePicker:
		help := mutedStyle.Render("Choose a PDF, Word, text or CSV file • esc: back")
		return joinLines(header, m.picker.View(), help)
	}

	main := joinLines(
		header,
		transcriptStyle.Render(m.viewport.View()),
		m.renderBanners(),
		inputBoxStyle.Render(m.input.View()),
		m.renderStatus(),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
}

func (m Model) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString(sectionStyle.Render("Settings") + "\n")
	if m.ws.HasAPIKey() {
		sb.WriteString("API key: set\n")
	} else {
		sb.WriteString(bannerStyles[bannerWarning].Render("API key: missing") + "\n")
	}

	sb.WriteString("\n" + sectionStyle.Render("Upload Documents") + "\n")
	if len(m.pending) == 0 {
		sb.WriteString(mutedStyle.Render("none selected") + "\n")
	}
	for _, p := range m.pending {
		sb.WriteString("• " + filepath.Base(p) + "\n")
	}

	sb.WriteString("\n" + sectionStyle.Render("Knowledge Base") + "\n")
	if m.kb == "" {
		sb.WriteString(mutedStyle.Render("no documents processed") + "\n")
	} else {
		sb.WriteString(mutedStyle.Render(string(m.kb)) + "\n")
	}
	sb.WriteString(fmt.Sprintf("Active Documents: %d\n", m.files))

	sb.WriteString("\n" + mutedStyle.Render(strings.Join([]string{
		"ctrl+o  choose file",
		"ctrl+u  clear selection",
		"ctrl+p  process documents",
		"ctrl+x  clear documents",
		"ctrl+k  enter API key",
		"enter   ask",
		"ctrl+c  quit",
	}, "\n")))
	return sidebarStyle.Render(sb.String())
}

func (m Model) renderBanners() string {
	shown, hidden := m.shownBanners()
	lines := make([]string, 0, len(shown)+1)
	if hidden > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("(%d earlier messages)", hidden)))
	}
	for _, b := range shown {
		lines = append(lines, bannerStyles[b.kind].Render(b.text))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatus() string {
	if m.busy {
		return m.spinner.View() + " " + m.busyText
	}
	return mutedStyle.Render("Ready")
}

// joinLines stacks non-empty blocks.
func joinLines(blocks ...string) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b != "" {
			parts = append(parts, b)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
