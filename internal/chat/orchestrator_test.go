package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
	"docchat/internal/provider/providertest"
	"docchat/internal/session"
)

func TestAskWithoutKnowledgeBaseNeverCallsProvider(t *testing.T) {
	p := providertest.New()
	st := session.New()

	reply, err := NewOrchestrator("gpt-4o-mini").Ask(context.Background(), p, st, "What is the budget?")
	require.NoError(t, err)

	assert.Empty(t, p.Calls)
	assert.False(t, reply.Recorded)
	assert.Equal(t, MissingDocumentsReply, reply.Message.Content)
	assert.Equal(t, []domain.Message{{Role: domain.RoleUser, Content: "What is the budget?"}}, st.Transcript())
}

func TestAskWithoutProvider(t *testing.T) {
	st := session.New()
	st.Begin("vs-1")

	reply, err := NewOrchestrator("gpt-4o-mini").Ask(context.Background(), nil, st, "hello")
	require.NoError(t, err)
	assert.Equal(t, MissingKeyReply, reply.Message.Content)
	assert.Len(t, st.Transcript(), 1)
}

func TestAskAppendsAnswer(t *testing.T) {
	p := providertest.New()
	p.Answer = "The Q3 budget is $1.2M."
	st := session.New()
	st.Begin("vs-7")
	st.Attach("file-1")

	reply, err := NewOrchestrator("gpt-4o-mini").Ask(context.Background(), p, st, "  What is the budget in Q3?  ")
	require.NoError(t, err)
	assert.True(t, reply.Recorded)

	assert.Equal(t, []domain.Message{
		{Role: domain.RoleUser, Content: "What is the budget in Q3?"},
		{Role: domain.RoleAssistant, Content: "The Q3 budget is $1.2M."},
	}, st.Transcript())

	require.Len(t, p.Requests, 1)
	req := p.Requests[0]
	assert.Equal(t, "gpt-4o-mini", req.Model)
	assert.Equal(t, domain.KnowledgeBase("vs-7"), req.KnowledgeBase)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, domain.RoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "I don't know")
	assert.Equal(t, domain.Message{Role: domain.RoleUser, Content: "What is the budget in Q3?"}, req.Messages[1])
}

func TestAskFailureLeavesQuestionUnanswered(t *testing.T) {
	p := providertest.New()
	p.RespondErr = errors.New("Rate limit reached for gpt-4o-mini")
	st := session.New()
	st.Begin("vs-1")

	_, err := NewOrchestrator("gpt-4o-mini").Ask(context.Background(), p, st, "why?")
	assert.EqualError(t, err, "Rate limit reached for gpt-4o-mini")
	assert.Equal(t, []domain.Message{{Role: domain.RoleUser, Content: "why?"}}, st.Transcript())
}

func TestAskEmptyQuestion(t *testing.T) {
	st := session.New()
	_, err := NewOrchestrator("m").Ask(context.Background(), providertest.New(), st, "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Empty(t, st.Transcript())
}
