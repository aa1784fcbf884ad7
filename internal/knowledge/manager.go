package knowledge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docchat/internal/domain"
)

// ErrIndexTimeout is returned by WaitReady when the provider has not
// finished indexing a file in time.
var ErrIndexTimeout = errors.New("timed out waiting for the file to be indexed")

// Options configures collection naming and indexing waits.
type Options struct {
	NamePrefix   string
	PollInterval time.Duration
	IndexTimeout time.Duration
}

// Manager creates remote collections and registers files with them.
type Manager struct {
	store domain.CollectionStore
	files domain.FileUploader
	opts  Options
}

// NewManager creates a manager. A non-positive poll interval means one second.
func NewManager(store domain.CollectionStore, files domain.FileUploader, opts Options) *Manager {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	return &Manager{store: store, files: files, opts: opts}
}

// Create requests a new collection with a globally unique name.
func (m *Manager) Create(ctx context.Context) (domain.KnowledgeBase, error) {
	return m.store.CreateCollection(ctx, m.opts.NamePrefix+uuid.NewString())
}

// Attach registers one uploaded file with the collection.
func (m *Manager) Attach(ctx context.Context, kb domain.KnowledgeBase, handle domain.FileHandle) error {
	return m.store.AttachFile(ctx, kb, handle)
}

// WaitReady polls the provider until the file has been processed.
// ErrIndexTimeout is only returned when the index timeout expires; a
// cancelled or expired parent context returns its own error.
func (m *Manager) WaitReady(ctx context.Context, kb domain.KnowledgeBase, handle domain.FileHandle) error {
	parent := ctx
	if m.opts.IndexTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.IndexTimeout)
		defer cancel()
	}
	stopped := func() error {
		if err := parent.Err(); err != nil {
			return err
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrIndexTimeout
		}
		return ctx.Err()
	}
	ticker := time.NewTicker(m.opts.PollInterval)
	defer ticker.Stop()

	for {
		status, err := m.store.FileStatus(ctx, kb, handle)
		if err != nil {
			if ctx.Err() != nil {
				return stopped()
			}
			return err
		}
		switch status {
		case domain.IndexCompleted:
			return nil
		case domain.IndexFailed, domain.IndexCancelled:
			return fmt.Errorf("indexing %s", status)
		}
		select {
		case <-ctx.Done():
			return stopped()
		case <-ticker.C:
		}
	}
}

// Discard deletes a forgotten collection and its files from the provider.
// Every resource is attempted; failures are joined.
func (m *Manager) Discard(ctx context.Context, kb domain.KnowledgeBase, handles []domain.FileHandle) error {
	var errs []error
	if kb != "" {
		if err := m.store.DeleteCollection(ctx, kb); err != nil {
			errs = append(errs, fmt.Errorf("delete collection %s: %w", kb, err))
		}
	}
	for _, h := range handles {
		if err := m.files.DeleteFile(ctx, h); err != nil {
			errs = append(errs, fmt.Errorf("delete file %s: %w", h, err))
		}
	}
	return errors.Join(errs...)
}
