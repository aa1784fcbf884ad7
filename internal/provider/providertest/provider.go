// Package providertest provides an in-memory domain.Provider that records
// every call and can be told to fail specific operations.
package providertest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docchat/internal/domain"
)

// Call is one recorded provider call.
type Call struct {
	Op     string
	Args   []string
	Exists bool // upload only: whether the path existed at call time
}

type Provider struct {
	Calls []Call

	// Uploaded maps handle to the file base name and bytes that were sent.
	Uploaded map[domain.FileHandle]Upload
	// Attached lists handles per collection in attach order.
	Attached map[domain.KnowledgeBase][]domain.FileHandle
	Deleted  []string

	// Failure injection keyed by operation; UploadErr/AttachErr key by base
	// file name suffix / handle so single documents of a batch can fail.
	CreateErr  error
	UploadErr  map[string]error
	AttachErr  map[domain.FileHandle]error
	RespondErr error
	DeleteErr  error
	StatusErr  error

	// Statuses are returned in order by FileStatus, the last one repeating.
	Statuses []domain.IndexStatus
	Answer   string
	Requests []domain.ResponseRequest

	nextFile int
	nextKB   int
	statusAt int
}

type Upload struct {
	Name string
	Data []byte
}

func New() *Provider {
	return &Provider{
		Uploaded:  make(map[domain.FileHandle]Upload),
		Attached:  make(map[domain.KnowledgeBase][]domain.FileHandle),
		UploadErr: make(map[string]error),
		AttachErr: make(map[domain.FileHandle]error),
		Answer:    "provider answer",
		Statuses:  []domain.IndexStatus{domain.IndexCompleted},
	}
}

// Count returns how many calls of op were made.
func (p *Provider) Count(op string) int {
	n := 0
	for _, c := range p.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (p *Provider) UploadFile(_ context.Context, path string) (domain.FileHandle, error) {
	_, statErr := os.Stat(path)
	p.Calls = append(p.Calls, Call{Op: "upload", Args: []string{path}, Exists: statErr == nil})
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	for name, e := range p.UploadErr {
		if strings.HasSuffix(filepath.Base(path), name) {
			return "", e
		}
	}
	p.nextFile++
	h := domain.FileHandle(fmt.Sprintf("file-%d", p.nextFile))
	p.Uploaded[h] = Upload{Name: filepath.Base(path), Data: data}
	return h, nil
}

func (p *Provider) DeleteFile(_ context.Context, handle domain.FileHandle) error {
	p.Calls = append(p.Calls, Call{Op: "delete_file", Args: []string{string(handle)}})
	if p.DeleteErr != nil {
		return p.DeleteErr
	}
	p.Deleted = append(p.Deleted, string(handle))
	return nil
}

func (p *Provider) CreateCollection(_ context.Context, name string) (domain.KnowledgeBase, error) {
	p.Calls = append(p.Calls, Call{Op: "create", Args: []string{name}})
	if p.CreateErr != nil {
		return "", p.CreateErr
	}
	p.nextKB++
	return domain.KnowledgeBase(fmt.Sprintf("vs-%d", p.nextKB)), nil
}

func (p *Provider) AttachFile(_ context.Context, kb domain.KnowledgeBase, handle domain.FileHandle) error {
	p.Calls = append(p.Calls, Call{Op: "attach", Args: []string{string(kb), string(handle)}})
	if err := p.AttachErr[handle]; err != nil {
		return err
	}
	p.Attached[kb] = append(p.Attached[kb], handle)
	return nil
}

func (p *Provider) FileStatus(_ context.Context, kb domain.KnowledgeBase, handle domain.FileHandle) (domain.IndexStatus, error) {
	p.Calls = append(p.Calls, Call{Op: "status", Args: []string{string(kb), string(handle)}})
	if p.StatusErr != nil {
		return "", p.StatusErr
	}
	s := p.Statuses[min(p.statusAt, len(p.Statuses)-1)]
	p.statusAt++
	return s, nil
}

func (p *Provider) DeleteCollection(_ context.Context, kb domain.KnowledgeBase) error {
	p.Calls = append(p.Calls, Call{Op: "delete_collection", Args: []string{string(kb)}})
	if p.DeleteErr != nil {
		return p.DeleteErr
	}
	p.Deleted = append(p.Deleted, string(kb))
	return nil
}

func (p *Provider) Respond(_ context.Context, req domain.ResponseRequest) (string, error) {
	p.Calls = append(p.Calls, Call{Op: "respond", Args: []string{string(req.KnowledgeBase)}})
	p.Requests = append(p.Requests, req)
	if p.RespondErr != nil {
		return "", p.RespondErr
	}
	return p.Answer, nil
}
