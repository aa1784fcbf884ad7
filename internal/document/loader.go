package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"docchat/internal/domain"
)

// AllowedExtensions is the picker filter. Ingestion never re-checks it.
var AllowedExtensions = []string{".pdf", ".docx", ".txt", ".csv"}

var extTypes = map[string]domain.DocumentType{
	".pdf":  domain.DocumentPDF,
	".docx": domain.DocumentWord,
	".txt":  domain.DocumentText,
	".csv":  domain.DocumentCSV,
}

// TypeOf returns the declared document type for a file name.
func TypeOf(name string) (domain.DocumentType, bool) {
	t, ok := extTypes[strings.ToLower(filepath.Ext(name))]
	return t, ok
}

// Allowed reports whether the file name passes the allow-list.
func Allowed(name string) bool {
	_, ok := TypeOf(name)
	return ok
}

// Load reads a file from disk into a Document.
func Load(path string) (domain.Document, error) {
	t, ok := TypeOf(path)
	if !ok {
		return domain.Document{}, fmt.Errorf("unsupported file type: %s", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, err
	}
	return domain.Document{Name: filepath.Base(path), Type: t, Data: data}, nil
}

// Expand resolves glob patterns (including ** for nested directories) into
// allowed file paths, keeping first-seen order.
func Expand(patterns []string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, err
		}
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			if !Allowed(m) {
				continue
			}
			abs, err := filepath.Abs(m)
			if err != nil {
				return nil, err
			}
			if _, ok := seen[abs]; ok {
				continue
			}
			seen[abs] = struct{}{}
			out = append(out, m)
		}
	}
	if len(out) == 0 && len(patterns) > 0 {
		return nil, errors.New("no pdf, docx, txt or csv documents found")
	}
	return out, nil
}

// LoadAll reads every path; the first failure stops the load.
func LoadAll(paths []string) ([]domain.Document, error) {
	docs := make([]domain.Document, 0, len(paths))
	for _, p := range paths {
		d, err := Load(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}
