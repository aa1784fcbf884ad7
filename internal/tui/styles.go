package tui

import "github.com/charmbracelet/lipgloss"

const sidebarWidth = 34

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	sidebarStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(sidebarWidth)
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	sectionStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	noticeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	bannerStyles = map[bannerKind]lipgloss.Style{
		bannerInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		bannerSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		bannerWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		bannerError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)
