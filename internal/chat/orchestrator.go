package chat

import (
	"context"
	"errors"
	"strings"

	"docchat/internal/domain"
	"docchat/internal/session"
)

// Fixed replies used when a question cannot be sent to the provider.
const (
	MissingKeyReply       = "Please enter your OpenAI API key in the sidebar."
	MissingDocumentsReply = "Please upload and process documents first."
)

// SystemPrompt restricts the assistant to the retrieved document content.
const SystemPrompt = `You are a helpful assistant that only answers questions based on the documents provided. ` +
	`If the question cannot be answered using the documents or is outside their scope, respond with "I don't know" ` +
	`or "I cannot answer this question based on the documents provided." ` +
	`Do not use any knowledge outside of the provided documents.`

// ErrEmptyQuestion is returned for blank input; nothing is recorded.
var ErrEmptyQuestion = errors.New("question is empty")

// Reply is the assistant's answer to one question.
type Reply struct {
	Message domain.Message
	// Recorded is false for the fixed instructional replies, which are shown
	// to the user but not appended to the transcript.
	Recorded bool
}

// Orchestrator turns questions into provider calls scoped to the session.
type Orchestrator struct {
	model string
}

// NewOrchestrator creates an orchestrator that asks the given model.
func NewOrchestrator(model string) *Orchestrator {
	return &Orchestrator{model: model}
}

// Ask appends the question to the transcript and answers it from the active
// knowledge base. Provider errors are returned as is and leave the question
// unanswered in the transcript.
func (o *Orchestrator) Ask(ctx context.Context, responder domain.Responder, st *session.State, question string) (Reply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Reply{}, ErrEmptyQuestion
	}
	st.Append(domain.Message{Role: domain.RoleUser, Content: question})

	if responder == nil {
		return notice(MissingKeyReply), nil
	}
	kb, ok := st.KnowledgeBase()
	if !ok {
		return notice(MissingDocumentsReply), nil
	}

	answer, err := responder.Respond(ctx, domain.ResponseRequest{
		Model:         o.model,
		Messages:      Prompt(question),
		KnowledgeBase: kb,
	})
	if err != nil {
		return Reply{}, err
	}
	msg := domain.Message{Role: domain.RoleAssistant, Content: answer}
	st.Append(msg)
	return Reply{Message: msg, Recorded: true}, nil
}

// Prompt builds the two-message input sent for a question.
func Prompt(question string) []domain.Message {
	return []domain.Message{
		{Role: domain.RoleSystem, Content: SystemPrompt},
		{Role: domain.RoleUser, Content: question},
	}
}

func notice(text string) Reply {
	return Reply{Message: domain.Message{Role: domain.RoleAssistant, Content: text}}
}
