package domain

import "context"

// FileUploader stores raw documents on the provider side.
type FileUploader interface {
	// UploadFile submits the file at path and returns the provider's handle.
	UploadFile(ctx context.Context, path string) (FileHandle, error)
	DeleteFile(ctx context.Context, handle FileHandle) error
}

// CollectionStore manages named remote collections of indexed files.
type CollectionStore interface {
	CreateCollection(ctx context.Context, name string) (KnowledgeBase, error)
	AttachFile(ctx context.Context, kb KnowledgeBase, handle FileHandle) error
	// FileStatus reports the provider's indexing status for an attached file.
	FileStatus(ctx context.Context, kb KnowledgeBase, handle FileHandle) (IndexStatus, error)
	DeleteCollection(ctx context.Context, kb KnowledgeBase) error
}

// Responder generates an answer grounded on a knowledge base.
type Responder interface {
	Respond(ctx context.Context, req ResponseRequest) (string, error)
}

// Provider is the full hosted API surface the application consumes.
type Provider interface {
	FileUploader
	CollectionStore
	Responder
}

// ResponseRequest is one retrieval-augmented generation call.
type ResponseRequest struct {
	Model         string
	Messages      []Message
	KnowledgeBase KnowledgeBase
}
