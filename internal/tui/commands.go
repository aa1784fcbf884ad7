package tui

import (
	"context"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"docchat/internal/chat"
	"docchat/internal/document"
	"docchat/internal/domain"
	"docchat/internal/service"
	"docchat/internal/session"
)

// Workspace is the TUI-facing subset of the service layer.
type Workspace interface {
	SetAPIKey(key string) error
	HasAPIKey() bool
	ProcessDocuments(ctx context.Context, st *session.State, docs []domain.Document) (service.BatchReport, error)
	ClearDocuments(ctx context.Context, st *session.State) service.ClearReport
	Ask(ctx context.Context, st *session.State, question string) (chat.Reply, error)
}

type loadFailure struct {
	name string
	err  error
}

type processedMsg struct {
	report   service.BatchReport
	err      error
	unread   []loadFailure
	selected int
}

type clearedMsg struct {
	report service.ClearReport
}

type answeredMsg struct {
	reply chat.Reply
	err   error
}

// processCmd reads the pending files and ingests the readable ones.
// Session state is only touched inside the returned command; Update waits
// for processedMsg before reading it again.
func processCmd(ctx context.Context, ws Workspace, st *session.State, paths []string) tea.Cmd {
	return func() tea.Msg {
		msg := processedMsg{selected: len(paths)}
		var docs []domain.Document
		for _, p := range paths {
			doc, err := document.Load(p)
			if err != nil {
				msg.unread = append(msg.unread, loadFailure{name: filepath.Base(p), err: err})
				continue
			}
			docs = append(docs, doc)
		}
		if len(docs) == 0 {
			msg.err = service.ErrNoDocuments
			return msg
		}
		msg.report, msg.err = ws.ProcessDocuments(ctx, st, docs)
		return msg
	}
}

func clearCmd(ctx context.Context, ws Workspace, st *session.State) tea.Cmd {
	return func() tea.Msg {
		return clearedMsg{report: ws.ClearDocuments(ctx, st)}
	}
}

func askCmd(ctx context.Context, ws Workspace, st *session.State, question string) tea.Cmd {
	return func() tea.Msg {
		reply, err := ws.Ask(ctx, st, question)
		return answeredMsg{reply: reply, err: err}
	}
}
