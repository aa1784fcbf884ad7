package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docchat/internal/domain"
)

// ErrEmptyDocument is returned for documents without content; the provider is not called.
var ErrEmptyDocument = errors.New("document is empty")

// Ingester uploads documents to the provider's file storage one at a time.
type Ingester struct {
	uploader domain.FileUploader
	tempDir  string
}

// NewIngester creates an ingester writing transient files to tempDir
// (os.TempDir when empty).
func NewIngester(uploader domain.FileUploader, tempDir string) *Ingester {
	return &Ingester{uploader: uploader, tempDir: tempDir}
}

// Ingest persists the document to a transient file, uploads it and returns
// the provider handle. The transient file is removed on every path.
func (i *Ingester) Ingest(ctx context.Context, doc domain.Document) (domain.FileHandle, error) {
	if doc.Empty() {
		return "", fmt.Errorf("%s: %w", doc.Name, ErrEmptyDocument)
	}
	path, err := i.writeTemp(doc)
	if err != nil {
		return "", err
	}
	defer os.Remove(path)

	return i.uploader.UploadFile(ctx, path)
}

func (i *Ingester) writeTemp(doc domain.Document) (string, error) {
	f, err := os.CreateTemp(i.tempDir, "docchat-*_"+tempSuffix(doc.Name))
	if err != nil {
		return "", err
	}
	path := f.Name()
	if _, err := f.Write(doc.Data); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// tempSuffix keeps the document base name so the provider sees a recognizable
// file name and extension.
func tempSuffix(name string) string {
	base := filepath.Base(name)
	base = strings.NewReplacer("*", "", string(os.PathSeparator), "").Replace(base)
	if base == "." || base == "" {
		return "document"
	}
	return base
}
