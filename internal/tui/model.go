package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docchat/internal/chat"
	"docchat/internal/document"
	"docchat/internal/domain"
	"docchat/internal/service"
	"docchat/internal/session"
)

const (
	keyWarning = "Please enter your OpenAI API key to continue."
	maxBanners = 6
)

type mode int

const (
	modeChat mode = iota
	modeKey
	modePicker
)

type bannerKind int

const (
	bannerInfo bannerKind = iota
	bannerSuccess
	bannerWarning
	bannerError
)

type banner struct {
	kind bannerKind
	text string
}

// Options configures the initial TUI state.
type Options struct {
	// Pending documents preselected on the command line.
	Pending []string
	// APIKey prefills the key prompt.
	APIKey        string
	MarkdownStyle string
	StartDir      string
}

// Model is the Bubble Tea model for the document chat.
//
// The session state is only read while no command is in flight. View renders
// from the copies taken in sync, so a running command never races the UI.
type Model struct {
	ctx context.Context
	ws  Workspace
	st  *session.State

	mode     mode
	keyInput textinput.Model
	input    textinput.Model
	picker   filepicker.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *transcriptRenderer

	pending    []string
	transcript []domain.Message
	kb         domain.KnowledgeBase
	files      int

	busy     bool
	busyText string
	question string
	notice   string
	failure  string
	banners  []banner

	width  int
	height int
	ready  bool
}

// New creates the TUI model. Without a usable key it opens on the key prompt.
func New(ctx context.Context, ws Workspace, st *session.State, opts Options) Model {
	ki := textinput.New()
	ki.Prompt = "API key: "
	ki.Placeholder = "sk-..."
	ki.EchoMode = textinput.EchoPassword
	ki.EchoCharacter = '•'
	ki.SetValue(opts.APIKey)

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about your documents"
	ti.CharLimit = 0

	fp := filepicker.New()
	fp.AllowedTypes = document.AllowedExtensions
	if opts.StartDir != "" {
		fp.CurrentDirectory = opts.StartDir
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := Model{
		ctx:      ctx,
		ws:       ws,
		st:       st,
		keyInput: ki,
		input:    ti,
		picker:   fp,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		renderer: newTranscriptRenderer(opts.MarkdownStyle),
	}
	for _, p := range opts.Pending {
		m.addPending(p)
	}
	if ws.HasAPIKey() {
		m.mode = modeChat
		m.input.Focus()
	} else {
		m.mode = modeKey
		m.keyInput.Focus()
		m.banners = []banner{{bannerWarning, keyWarning}}
	}
	m.sync()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.picker.Init())
}

// Update routes results of in-flight actions and key presses. Keys other
// than ctrl+c are ignored while an action runs, which keeps user actions
// strictly sequential.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case processedMsg:
		return m.onProcessed(msg), nil
	case clearedMsg:
		return m.onCleared(msg), nil
	case answeredMsg:
		return m.onAnswered(msg), nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch m.mode {
		case modeKey:
			return m.updateKey(msg)
		case modePicker:
			return m.updatePicker(msg)
		default:
			return m.updateChat(msg)
		}
	}

	// directory listings and cursor blinks
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.keyInput, cmd = m.keyInput.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if err := m.ws.SetAPIKey(m.keyInput.Value()); err != nil {
			m.setBanners(banner{bannerWarning, keyWarning})
		} else {
			m.setBanners(banner{bannerSuccess, "API key set"})
		}
		return m.toChat()
	case "esc":
		return m.toChat()
	}
	var cmd tea.Cmd
	m.keyInput, cmd = m.keyInput.Update(msg)
	return m, cmd
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		return m.toChat()
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.addPending(path)
		m.setBanners(banner{bannerInfo, fmt.Sprintf("Selected %s", filepath.Base(path))})
		return m.toChat()
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.setBanners(banner{bannerWarning, fmt.Sprintf("%s is not a supported document type", filepath.Base(path))})
	}
	return m, cmd
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+o":
		m.mode = modePicker
		m.input.Blur()
		return m, m.picker.Init()
	case "ctrl+k":
		m.mode = modeKey
		m.input.Blur()
		m.keyInput.Focus()
		return m, textinput.Blink
	case "ctrl+u":
		m.pending = nil
		m.setBanners(banner{bannerInfo, "Selection cleared"})
		return m, nil
	case "ctrl+p":
		if !m.ws.HasAPIKey() {
			m.setBanners(banner{bannerWarning, keyWarning})
			return m, nil
		}
		if len(m.pending) == 0 {
			m.setBanners(banner{bannerWarning, "Choose documents with ctrl+o first"})
			return m, nil
		}
		m.start("Processing documents...")
		return m, tea.Batch(m.spinner.Tick, processCmd(m.ctx, m.ws, m.st, slices.Clone(m.pending)))
	case "ctrl+x":
		m.start("Clearing documents...")
		return m, tea.Batch(m.spinner.Tick, clearCmd(m.ctx, m.ws, m.st))
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case "enter":
		q := strings.TrimSpace(m.input.Value())
		if q == "" {
			return m, nil
		}
		m.input.Reset()
		m.notice, m.failure = "", ""
		m.question = q
		m.start("Thinking...")
		return m, tea.Batch(m.spinner.Tick, askCmd(m.ctx, m.ws, m.st, q))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) onProcessed(msg processedMsg) Model {
	m.stop()
	var out []banner
	for _, f := range msg.unread {
		out = append(out, banner{bannerError, fmt.Sprintf("Failed to read %s: %v", f.name, f.err)})
	}
	if msg.err != nil {
		out = append(out, banner{bannerError, "Error: " + msg.err.Error()})
		m.setBanners(out...)
		return m
	}
	for _, res := range msg.report.Results {
		switch {
		case res.OK() && res.IndexErr != nil:
			out = append(out, banner{bannerWarning, fmt.Sprintf("Added %s to knowledge base, but indexing was not confirmed: %v", res.Name, res.IndexErr)})
		case res.OK():
			out = append(out, banner{bannerSuccess, fmt.Sprintf("Added %s to knowledge base", res.Name)})
		case res.Stage == service.StageUpload:
			out = append(out, banner{bannerError, fmt.Sprintf("Error uploading %s: %v", res.Name, res.Err)})
		default:
			out = append(out, banner{bannerError, fmt.Sprintf("Failed to add %s to knowledge base: %v", res.Name, res.Err)})
		}
	}
	if msg.report.Attached > 0 {
		out = append(out,
			banner{bannerSuccess, fmt.Sprintf("Successfully processed %d document(s)", msg.report.Attached)},
			banner{bannerInfo, "You can now start chatting with your documents!"})
	} else {
		out = append(out, banner{bannerWarning, "No documents were added to the knowledge base"})
	}
	if msg.report.Cleanup != nil {
		out = append(out, banner{bannerWarning, "Remote cleanup incomplete: " + msg.report.Cleanup.Error()})
	}
	m.pending = nil
	m.notice, m.failure = "", ""
	m.setBanners(out...)
	return m
}

func (m Model) onCleared(msg clearedMsg) Model {
	m.stop()
	m.pending = nil
	m.notice, m.failure = "", ""
	out := []banner{{bannerSuccess, "All documents cleared"}}
	if msg.report.Cleanup != nil {
		out = append(out, banner{bannerWarning, "Remote documents were not fully deleted: " + msg.report.Cleanup.Error()})
	}
	m.setBanners(out...)
	return m
}

func (m Model) onAnswered(msg answeredMsg) Model {
	m.question = ""
	switch {
	case errors.Is(msg.err, chat.ErrEmptyQuestion):
	case msg.err != nil:
		m.failure = "Error: " + msg.err.Error()
	case !msg.reply.Recorded:
		m.notice = msg.reply.Message.Content
	}
	m.stop()
	return m
}

func (m Model) toChat() (tea.Model, tea.Cmd) {
	m.mode = modeChat
	m.keyInput.Blur()
	m.input.Focus()
	return m, textinput.Blink
}

func (m *Model) start(text string) {
	m.busy = true
	m.busyText = text
	m.refresh()
}

// stop ends an action and takes a fresh copy of the session.
func (m *Model) stop() {
	m.busy = false
	m.busyText = ""
	m.sync()
}

func (m *Model) sync() {
	m.transcript = m.st.Transcript()
	m.kb, _ = m.st.KnowledgeBase()
	m.files = len(m.st.Files())
	m.refresh()
}

func (m *Model) addPending(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if !slices.Contains(m.pending, path) {
		m.pending = append(m.pending, path)
	}
}

func (m *Model) setBanners(b ...banner) {
	m.banners = b
	m.layout()
}

// layout sizes the transcript to whatever the sidebar, banners and input
// leave free.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	fw, fh := transcriptStyle.GetFrameSize()
	_, ih := inputBoxStyle.GetFrameSize()
	mainWidth := m.width - sidebarWidth - 2
	reserved := 1 + m.bannerLines() + ih + 1 + fh // header, banners, input, status
	m.viewport.Width = max(20, mainWidth-fw)
	m.viewport.Height = max(3, m.height-reserved)
	m.input.Width = max(10, mainWidth-4-len(m.input.Prompt))
	m.renderer.resize(m.viewport.Width)
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderer.render(m.transcript, m.question, m.notice, m.failure))
	m.viewport.GotoBottom()
}

// shownBanners returns the newest banners and how many older ones are hidden.
func (m Model) shownBanners() ([]banner, int) {
	if len(m.banners) <= maxBanners {
		return m.banners, 0
	}
	hidden := len(m.banners) - maxBanners
	return m.banners[hidden:], hidden
}

func (m Model) bannerLines() int {
	shown, hidden := m.shownBanners()
	if hidden > 0 {
		return len(shown) + 1
	}
	return len(shown)
}
