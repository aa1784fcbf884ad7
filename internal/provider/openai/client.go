package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	goopenai "github.com/sashabaranov/go-openai"

	"docchat/internal/domain"
)

// Client talks to the OpenAI files, vector store and responses endpoints.
// Files and vector stores go through go-openai; responses go through
// openai-go, since go-openai does not cover that endpoint.
type Client struct {
	api       *goopenai.Client
	responses oai.Client
}

// Config configures the provider client. APIKey comes from the user at runtime.
type Config struct {
	APIKey  string
	BaseURL string
	// Timeout of zero keeps the HTTP client default.
	Timeout time.Duration
}

// NewClient creates a provider client. It does not contact the provider.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing API key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	httpClient := &http.Client{Timeout: cfg.Timeout}

	apiCfg := goopenai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.BaseURL
	apiCfg.HTTPClient = httpClient

	return &Client{
		api: goopenai.NewClientWithConfig(apiCfg),
		responses: oai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.BaseURL+"/"),
			option.WithHTTPClient(httpClient),
			option.WithMaxRetries(0),
		),
	}, nil
}

// UploadFile stores the file at path with purpose "assistants".
func (c *Client) UploadFile(ctx context.Context, path string) (domain.FileHandle, error) {
	f, err := c.api.CreateFile(ctx, goopenai.FileRequest{
		FilePath: path,
		Purpose:  string(goopenai.PurposeAssistants),
	})
	if err != nil {
		return "", err
	}
	return domain.FileHandle(f.ID), nil
}

// DeleteFile removes an uploaded file from the provider.
func (c *Client) DeleteFile(ctx context.Context, handle domain.FileHandle) error {
	return c.api.DeleteFile(ctx, string(handle))
}

// CreateCollection creates a vector store with the given name.
func (c *Client) CreateCollection(ctx context.Context, name string) (domain.KnowledgeBase, error) {
	vs, err := c.api.CreateVectorStore(ctx, goopenai.VectorStoreRequest{Name: name})
	if err != nil {
		return "", err
	}
	return domain.KnowledgeBase(vs.ID), nil
}

// AttachFile adds an uploaded file to a vector store.
func (c *Client) AttachFile(ctx context.Context, kb domain.KnowledgeBase, handle domain.FileHandle) error {
	_, err := c.api.CreateVectorStoreFile(ctx, string(kb), goopenai.VectorStoreFileRequest{FileID: string(handle)})
	return err
}

// FileStatus returns the indexing status of a file in a vector store.
func (c *Client) FileStatus(ctx context.Context, kb domain.KnowledgeBase, handle domain.FileHandle) (domain.IndexStatus, error) {
	f, err := c.api.RetrieveVectorStoreFile(ctx, string(kb), string(handle))
	if err != nil {
		return "", err
	}
	return domain.IndexStatus(f.Status), nil
}

// DeleteCollection removes a vector store. Its files are left in place.
func (c *Client) DeleteCollection(ctx context.Context, kb domain.KnowledgeBase) error {
	_, err := c.api.DeleteVectorStore(ctx, string(kb))
	return err
}
