package service

import (
	"context"
	"errors"

	"docchat/internal/chat"
	"docchat/internal/config"
	"docchat/internal/credential"
	"docchat/internal/domain"
	"docchat/internal/ingest"
	"docchat/internal/knowledge"
	"docchat/internal/logger"
	"docchat/internal/session"
)

var (
	ErrNoCredential = credential.ErrMissingKey
	ErrNoDocuments  = errors.New("no documents to process")
)

// Stage names the step a document failed at.
type Stage string

const (
	StageUpload Stage = "upload"
	StageAttach Stage = "attach"
)

// DocumentResult is the outcome of one document in a batch.
type DocumentResult struct {
	Name   string
	Handle domain.FileHandle
	Stage  Stage // set when Err != nil
	Err    error
	// IndexErr is set when waiting for indexing was enabled and the provider
	// did not confirm it. The file stays attached.
	IndexErr error
	// Cleanup is set when an uploaded but unattached file could not be
	// deleted with delete_on_reset enabled.
	Cleanup error
}

func (r DocumentResult) OK() bool { return r.Err == nil }

// BatchReport summarizes a "process documents" action.
type BatchReport struct {
	KnowledgeBase domain.KnowledgeBase
	Results       []DocumentResult
	Attached      int
	// Cleanup holds remote deletion failures for the replaced collection and
	// for files that were uploaded but never attached.
	Cleanup error
}

// ClearReport summarizes a "clear documents" action.
type ClearReport struct {
	Forgotten session.Snapshot
	Cleanup   error
}

// Workspace runs user actions against a session.
type Workspace struct {
	creds *credential.Holder
	cfg   config.AppConfig
	chat  *chat.Orchestrator
	log   logger.Logger
}

func NewWorkspace(creds *credential.Holder, cfg config.AppConfig, log logger.Logger) *Workspace {
	return &Workspace{
		creds: creds,
		cfg:   cfg,
		chat:  chat.NewOrchestrator(cfg.Provider.Model),
		log:   log,
	}
}

// SetAPIKey replaces the session key. An empty key disables provider features.
func (w *Workspace) SetAPIKey(key string) error {
	err := w.creds.Set(key)
	if err != nil {
		w.log.Warn("credential", "provider disabled", map[string]interface{}{"reason": err.Error()})
		return err
	}
	w.log.Info("credential", "provider client ready", nil)
	return nil
}

// HasAPIKey reports whether provider features are enabled.
func (w *Workspace) HasAPIKey() bool { return w.creds.Ready() }

func (w *Workspace) manager(p domain.Provider) *knowledge.Manager {
	kb := w.cfg.KnowledgeBase
	return knowledge.NewManager(p, p, knowledge.Options{
		NamePrefix:   kb.NamePrefix,
		PollInterval: kb.PollInterval(),
		IndexTimeout: kb.IndexTimeout(),
	})
}

// ProcessDocuments creates a new knowledge base and ingests docs into it, one
// at a time in order. A failed collection creation aborts the batch and
// leaves st untouched; per-document failures are reported and skipped.
func (w *Workspace) ProcessDocuments(ctx context.Context, st *session.State, docs []domain.Document) (BatchReport, error) {
	p, ok := w.creds.Provider()
	if !ok {
		return BatchReport{}, ErrNoCredential
	}
	if len(docs) == 0 {
		return BatchReport{}, ErrNoDocuments
	}
	mgr := w.manager(p)

	kb, err := mgr.Create(ctx)
	if err != nil {
		w.log.Error("knowledge", "create collection failed", map[string]interface{}{"error": err})
		return BatchReport{}, err
	}
	w.log.Info("knowledge", "collection created", map[string]interface{}{"knowledge_base": string(kb), "documents": len(docs)})

	prev := st.Begin(kb)
	report := BatchReport{KnowledgeBase: kb}
	ing := ingest.NewIngester(p, w.cfg.Ingest.TempDir)

	for _, doc := range docs {
		res := w.ingestOne(ctx, mgr, ing, kb, doc)
		if res.OK() {
			st.Attach(res.Handle)
			report.Attached++
		}
		report.Cleanup = errors.Join(report.Cleanup, res.Cleanup)
		report.Results = append(report.Results, res)
	}

	if abandoned := st.Abandon(); abandoned != "" {
		w.log.Warn("knowledge", "no documents attached, collection abandoned", map[string]interface{}{"knowledge_base": string(abandoned)})
		report.KnowledgeBase = ""
		if w.cfg.KnowledgeBase.DeleteOnReset {
			report.Cleanup = errors.Join(report.Cleanup, mgr.Discard(ctx, abandoned, nil))
		}
	}
	if w.cfg.KnowledgeBase.DeleteOnReset && !prev.Empty() {
		report.Cleanup = errors.Join(report.Cleanup, mgr.Discard(ctx, prev.KnowledgeBase, prev.Files))
	}
	if report.Cleanup != nil {
		w.log.Warn("knowledge", "remote cleanup incomplete", map[string]interface{}{"error": report.Cleanup.Error()})
	}

	w.log.Info("knowledge", "batch processed", map[string]interface{}{
		"knowledge_base": string(report.KnowledgeBase),
		"attached":       report.Attached,
		"documents":      len(docs),
	})
	return report, nil
}

func (w *Workspace) ingestOne(ctx context.Context, mgr *knowledge.Manager, ing *ingest.Ingester, kb domain.KnowledgeBase, doc domain.Document) DocumentResult {
	res := DocumentResult{Name: doc.Name}

	h, err := ing.Ingest(ctx, doc)
	if err != nil {
		w.log.Error("ingest", "upload failed", map[string]interface{}{"document": doc.Name, "error": err})
		res.Stage, res.Err = StageUpload, err
		return res
	}
	res.Handle = h
	w.log.Info("ingest", "uploaded", map[string]interface{}{"document": doc.Name, "file_id": string(h)})

	if err := mgr.Attach(ctx, kb, h); err != nil {
		w.log.Error("knowledge", "attach failed", map[string]interface{}{"document": doc.Name, "file_id": string(h), "error": err})
		res.Stage, res.Err = StageAttach, err
		// the handle is never recorded, so this is the only chance to delete it
		if w.cfg.KnowledgeBase.DeleteOnReset {
			res.Cleanup = mgr.Discard(ctx, "", []domain.FileHandle{h})
		}
		return res
	}

	if w.cfg.KnowledgeBase.WaitForIndexing {
		if err := mgr.WaitReady(ctx, kb, h); err != nil {
			w.log.Warn("knowledge", "indexing not confirmed", map[string]interface{}{"document": doc.Name, "file_id": string(h), "error": err.Error()})
			res.IndexErr = err
		}
	}
	return res
}

// ClearDocuments forgets the knowledge base, its files and the transcript.
// Remote deletion only happens when delete_on_reset is enabled and a key is set.
func (w *Workspace) ClearDocuments(ctx context.Context, st *session.State) ClearReport {
	report := ClearReport{Forgotten: st.Clear()}
	w.log.Info("session", "documents cleared", map[string]interface{}{
		"knowledge_base": string(report.Forgotten.KnowledgeBase),
		"files":          len(report.Forgotten.Files),
	})

	p, ok := w.creds.Provider()
	if !ok || !w.cfg.KnowledgeBase.DeleteOnReset || report.Forgotten.Empty() {
		return report
	}
	report.Cleanup = w.manager(p).Discard(ctx, report.Forgotten.KnowledgeBase, report.Forgotten.Files)
	if report.Cleanup != nil {
		w.log.Warn("knowledge", "remote cleanup incomplete", map[string]interface{}{"error": report.Cleanup.Error()})
	}
	return report
}

// Ask answers a question from the active knowledge base.
func (w *Workspace) Ask(ctx context.Context, st *session.State, question string) (chat.Reply, error) {
	var responder domain.Responder
	if p, ok := w.creds.Provider(); ok {
		responder = p
	}
	reply, err := w.chat.Ask(ctx, responder, st, question)
	if err != nil {
		if !errors.Is(err, chat.ErrEmptyQuestion) {
			w.log.Error("chat", "respond failed", map[string]interface{}{"error": err})
		}
		return reply, err
	}
	if !reply.Recorded {
		w.log.Debug("chat", "question short-circuited", map[string]interface{}{"reply": reply.Message.Content})
	}
	return reply, nil
}
