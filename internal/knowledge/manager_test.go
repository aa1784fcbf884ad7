package knowledge

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
	"docchat/internal/provider/providertest"
)

func newManager(p *providertest.Provider) *Manager {
	return NewManager(p, p, Options{
		NamePrefix:   "knowledge_base_",
		PollInterval: time.Millisecond,
		IndexTimeout: time.Second,
	})
}

func TestCreateUsesUniqueNames(t *testing.T) {
	p := providertest.New()
	m := newManager(p)

	kb1, err := m.Create(context.Background())
	require.NoError(t, err)
	kb2, err := m.Create(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, kb1, kb2)

	require.Equal(t, 2, p.Count("create"))
	n1, n2 := p.Calls[0].Args[0], p.Calls[1].Args[0]
	assert.NotEqual(t, n1, n2)
	for _, n := range []string{n1, n2} {
		require.True(t, strings.HasPrefix(n, "knowledge_base_"))
		_, err := uuid.Parse(strings.TrimPrefix(n, "knowledge_base_"))
		assert.NoError(t, err)
	}
}

func TestCreateFailure(t *testing.T) {
	p := providertest.New()
	p.CreateErr = errors.New("quota exceeded")

	_, err := newManager(p).Create(context.Background())
	assert.EqualError(t, err, "quota exceeded")
}

func TestAttachIsIndependentPerFile(t *testing.T) {
	p := providertest.New()
	p.AttachErr["file-2"] = errors.New("unsupported file")
	m := newManager(p)
	ctx := context.Background()

	assert.NoError(t, m.Attach(ctx, "vs-1", "file-1"))
	assert.EqualError(t, m.Attach(ctx, "vs-1", "file-2"), "unsupported file")
	assert.NoError(t, m.Attach(ctx, "vs-1", "file-3"))

	assert.Equal(t, []domain.FileHandle{"file-1", "file-3"}, p.Attached["vs-1"])
}

func TestWaitReadyPollsUntilCompleted(t *testing.T) {
	p := providertest.New()
	p.Statuses = []domain.IndexStatus{domain.IndexInProgress, domain.IndexInProgress, domain.IndexCompleted}

	require.NoError(t, newManager(p).WaitReady(context.Background(), "vs-1", "file-1"))
	assert.Equal(t, 3, p.Count("status"))
}

func TestWaitReadyReportsFailedIndexing(t *testing.T) {
	p := providertest.New()
	p.Statuses = []domain.IndexStatus{domain.IndexFailed}

	err := newManager(p).WaitReady(context.Background(), "vs-1", "file-1")
	assert.EqualError(t, err, "indexing failed")
}

func TestWaitReadyTimesOut(t *testing.T) {
	p := providertest.New()
	p.Statuses = []domain.IndexStatus{domain.IndexInProgress}
	m := NewManager(p, p, Options{PollInterval: time.Millisecond, IndexTimeout: 20 * time.Millisecond})

	err := m.WaitReady(context.Background(), "vs-1", "file-1")
	assert.ErrorIs(t, err, ErrIndexTimeout)
}

func TestWaitReadyReturnsParentCancellation(t *testing.T) {
	p := providertest.New()
	p.Statuses = []domain.IndexStatus{domain.IndexInProgress}
	m := NewManager(p, p, Options{PollInterval: time.Hour, IndexTimeout: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.WaitReady(ctx, "vs-1", "file-1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrIndexTimeout)
}

func TestWaitReadyReturnsParentDeadline(t *testing.T) {
	p := providertest.New()
	p.Statuses = []domain.IndexStatus{domain.IndexInProgress}
	m := NewManager(p, p, Options{PollInterval: time.Millisecond, IndexTimeout: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := m.WaitReady(ctx, "vs-1", "file-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrIndexTimeout)
}

func TestDiscardAttemptsEverything(t *testing.T) {
	p := providertest.New()
	require.NoError(t, newManager(p).Discard(context.Background(), "vs-1", []domain.FileHandle{"file-1", "file-2"}))
	assert.Equal(t, []string{"vs-1", "file-1", "file-2"}, p.Deleted)

	p = providertest.New()
	p.DeleteErr = errors.New("not found")
	err := newManager(p).Discard(context.Background(), "vs-1", []domain.FileHandle{"file-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete collection vs-1: not found")
	assert.Contains(t, err.Error(), "delete file file-1: not found")
	assert.Equal(t, 2, len(p.Calls))
}
